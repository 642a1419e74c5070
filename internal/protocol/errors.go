package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrServerDisconnected = errors.New("protocol: server disconnected")
	ErrEmptyVerb          = errors.New("protocol: empty command verb")
)

// ConnectError reports a failed connection handshake (greeting other
// than 220) or a 421 returned mid-session. Always fatal to the command
// that observed it.
type ConnectError struct {
	Code    int
	Message string
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("protocol: connect error code=%d message=%q", e.Code, e.Message)
}

// ResponseError reports a command rejected by the server (codes
// 500-799). The caller may re-issue with corrected arguments; the
// protocol layer never retries on its own.
type ResponseError struct {
	Code    int
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("protocol: response error code=%d message=%q", e.Code, e.Message)
}
