package protocol

import "strings"

// CRLF is the wire line terminator for both commands and replies.
const CRLF = "\r\n"

// SNPP verbs, RFC 1861 levels 1 through 3.
const (
	VerbPage     = "PAGE"
	VerbMessage  = "MESS"
	VerbReset    = "RESE"
	VerbSend     = "SEND"
	VerbQuit     = "QUIT"
	VerbHelp     = "HELP"
	VerbData     = "DATA"
	VerbLogin    = "LOGI"
	VerbLevel    = "LEVE"
	VerbAlert    = "ALER"
	VerbCoverage = "COVE"
	VerbHold     = "HOLD"
	VerbCallerID = "CALL"
	VerbSubject  = "SUBJ"
	VerbTwoWay   = "2WAY"
	VerbPing     = "PING"
	VerbExpTag   = "EXPT"
	VerbNoQueue  = "NOQUEUE"
	VerbAckRead  = "ACKR"
	VerbRespType = "RTYP"
	VerbMCResp   = "MCRE"
	VerbMStatus  = "MSTA"
	VerbKillTag  = "KTAG"
)

// Command is one client request line. Constructed per call, never
// persisted.
type Command struct {
	Verb string
	Args string
}

// String renders the command without its CRLF terminator.
func (c Command) String() string {
	if c.Args == "" {
		return c.Verb
	}
	return c.Verb + " " + c.Args
}

// ParseCommand splits a received command line into verb and argument
// string. The verb is uppercased; SNPP verbs are case-insensitive on
// receipt.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	verb, args, _ := strings.Cut(line, " ")
	verb = strings.ToUpper(strings.TrimSpace(verb))
	if verb == "" {
		return Command{}, ErrEmptyVerb
	}
	return Command{Verb: verb, Args: strings.TrimSpace(args)}, nil
}
