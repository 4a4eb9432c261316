package irc

// IRC replies.
const (
	rplWelcome  = "001" // :Welcome message
	rplYourhost = "002" // :Your host is...
	rplCreated  = "003" // :This server was created...
	rplMyinfo   = "004" // <servername> <version> <umodes> <chan modes>
	rplIsupport = "005" // 1*13<TOKEN[=value]> :are supported by this server

	rplNotopic    = "331" // <channel> :No topic set
	rplTopic      = "332" // <channel> <topic>
	rplNamreply   = "353" // <=/*/@> <channel> :1*(@/ /+user)
	rplEndofnames = "366" // <channel> :End of names list
	rplMotd       = "372" // :- <text>
	rplMotdstart  = "375" // :- <servername> Message of the day -
	rplEndofmotd  = "376" // :End of MOTD command

	errNosuchnick       = "401" // <nick> :No such nick/channel
	errNosuchchannel    = "403" // <channel> :No such channel
	errCannotsendtochan = "404" // <channel> :Cannot send to channel
	errNonicknamegiven  = "431" // :No nickname given
	errErroneusnickname = "432" // <nick> :Erroneous nickname
	errNicknameinuse    = "433" // <nick> :Nickname in use
	errNotonchannel     = "442" // <channel> :You're not on that channel
	errYourebannedcreep = "465" // :You're banned from this server
	errChannelisfull    = "471" // <channel> :Cannot join channel (+l)
	errInviteonlychan   = "473" // <channel> :Cannot join channel (+I)
	errBannedfromchan   = "474" // <channel> :Cannot join channel (+b)
	errBadchankey       = "475" // <channel> :Cannot join channel (+k)
)

// isErrorReply reports whether a numeric is in the error ranges.
func isErrorReply(cmd string) bool {
	return isNumeric(cmd) && (cmd[0] == '4' || cmd[0] == '5')
}
