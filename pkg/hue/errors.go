package hue

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error codes reported by the bridge in legacy error envelopes.
const (
	CodeUnauthorizedUser         = 1
	CodeInvalidJSON              = 2
	CodeResourceNotAvailable     = 3
	CodeMethodNotAvailable       = 4
	CodeMissingParameters        = 5
	CodeParameterNotAvailable    = 6
	CodeInvalidValue             = 7
	CodeParameterNotModifiable   = 8
	CodeTooManyItems             = 11
	CodePortalConnectionRequired = 12
	CodeLinkButtonNotPressed     = 101
	CodeDHCPCannotBeDisabled     = 110
	CodeInvalidUpdateState       = 111
	CodeInternalError            = 901
	codeUnknown                  = 0
)

var ErrInvalidResourceID = errors.New("invalid resource id")

// ProtocolError means the response did not have any of the shapes the bridge is known to send.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s", e.Msg)
}

// BridgeError is a request the bridge understood and rejected.
// Code is zero for errors reported by the v2 API, which only carries a description.
type BridgeError struct {
	Code        int
	Address     string
	Description string
}

func (e *BridgeError) Error() string {
	if e.Code == codeUnknown {
		return fmt.Sprintf("bridge error: %s", e.Description)
	}
	return fmt.Sprintf("bridge error %d: %s", e.Code, e.Description)
}

// IsLinkButtonNotPressed reports whether err is the bridge asking for its link button to be pressed.
func IsLinkButtonNotPressed(err error) bool {
	var bridgeErr *BridgeError
	return errors.As(err, &bridgeErr) && bridgeErr.Code == CodeLinkButtonNotPressed
}

// TransportError wraps failures of the HTTP exchange itself, including
// non-2xx responses that carried no bridge error.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the exchange failed because a deadline expired.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error: %s", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
