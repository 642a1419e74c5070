package protocol

// Reply codes the engine special-cases. Codes outside the error bands
// and not listed here are ordinary successes interpreted per verb.
const (
	CodeGreeting  = 220
	CodeHelpLine  = 214
	CodeBeginData = 354
	CodeGone      = 421

	// CodeUnparseable marks a reply whose status digits could not be
	// read. Terminal; no continuation lines are consumed after it.
	CodeUnparseable = -1

	rejectBandLow  = 500
	rejectBandHigh = 800
)

// Classify maps a reply code onto the shared failure taxonomy. Every
// command goes through this exactly once; no verb bypasses it.
func Classify(code int, text string) error {
	switch {
	case code == CodeGone:
		return &ConnectError{Code: code, Message: text}
	case code >= rejectBandLow && code < rejectBandHigh:
		return &ResponseError{Code: code, Message: text}
	default:
		return nil
	}
}
