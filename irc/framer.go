package irc

import "bytes"

// DefaultMaxLine bounds how many bytes a single line may span before the
// framer gives up on it.  Standard IRC lines are 512 bytes; some servers
// exceed that.
const DefaultMaxLine = 4096

// Framer reassembles terminator-delimited lines from arbitrary-length
// chunks read off the socket.  Lines end with CRLF or bare LF; the
// terminator is stripped.  A trailing partial line is buffered until the
// next push.
type Framer struct {
	buf        []byte
	max        int
	discarding bool
}

func NewFramer(max int) *Framer {
	if max <= 0 {
		max = DefaultMaxLine
	}
	return &Framer{max: max}
}

// Push feeds one chunk and returns the complete lines it finished.  When
// the buffered partial line grows past the maximum, Push returns the lines
// found so far along with a ProtocolError, and input is discarded up to the
// next terminator so the stream can resynchronize.
func (f *Framer) Push(chunk []byte) (lines []string, err error) {
	f.buf = append(f.buf, chunk...)

	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			break
		}

		line := f.buf[:i]
		f.buf = f.buf[i+1:]

		if f.discarding {
			f.discarding = false
			continue
		}

		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			continue
		}

		lines = append(lines, string(line))
	}

	if len(f.buf) > f.max {
		f.buf = f.buf[:0]
		if !f.discarding {
			f.discarding = true
			err = &ProtocolError{Reason: "oversized line"}
		}
	}

	return
}
