package bridge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Cgriz365/inkbridge/internal/identity"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetworkRequired indicates the device id could not be derived without connectivity
	ErrTypeNetworkRequired ErrorType = iota
	// ErrTypeWifiDisconnected indicates no connectivity when a request was made
	ErrTypeWifiDisconnected
	// ErrTypeTransport indicates every attempt failed without an HTTP status
	ErrTypeTransport
	// ErrTypeHTTP indicates the backend answered with a status >= 400
	ErrTypeHTTP
	// ErrTypeParse indicates a successful status with a body that is not JSON
	ErrTypeParse
	// ErrTypeAllocation indicates a response too large to hold
	ErrTypeAllocation
	// ErrTypeConnectFailed indicates the request could not be constructed
	ErrTypeConnectFailed
	// ErrTypeRegistrationFailed indicates the /setup call did not complete with OK
	ErrTypeRegistrationFailed
	// ErrTypeRegistrationRejected indicates the backend explicitly declined registration
	ErrTypeRegistrationRejected
	// ErrTypeIdentityUnavailable indicates bootstrap could not establish a device id
	ErrTypeIdentityUnavailable
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetworkRequired:
		return "Network Required"
	case ErrTypeWifiDisconnected:
		return "WiFi Disconnected"
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "JSON Parse Error"
	case ErrTypeAllocation:
		return "Allocation Error"
	case ErrTypeConnectFailed:
		return "Connect Failed"
	case ErrTypeRegistrationFailed:
		return "Registration Failed"
	case ErrTypeRegistrationRejected:
		return "Registration Rejected"
	case ErrTypeIdentityUnavailable:
		return "Identity Unavailable"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by bridge operations.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Outcome    Outcome   // Transport outcome that caused the error (if any)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// errorForOutcome converts a non-OK transport outcome into an error.
func errorForOutcome(o Outcome, cause error) *Error {
	e := &Error{Outcome: o, Err: cause, Message: o.String()}
	switch o.Kind {
	case OutcomeWifiDisconnected:
		e.Type = ErrTypeWifiDisconnected
		e.Message = "network not connected"
	case OutcomeTransportError:
		e.Type = ErrTypeTransport
		e.Message = "no response after retries"
	case OutcomeHTTPError:
		e.Type = ErrTypeHTTP
		e.StatusCode = o.Code
		e.Message = fmt.Sprintf("backend returned HTTP %d", o.Code)
	case OutcomeJSONParseError:
		e.Type = ErrTypeParse
		e.Message = "response body is not valid JSON"
	case OutcomeAllocationError:
		e.Type = ErrTypeAllocation
		e.Message = "response body exceeds size limit"
	case OutcomeConnectFailed:
		e.Type = ErrTypeConnectFailed
		e.Message = "could not build request"
	default:
		e.Type = ErrTypeUnknown
	}
	return e
}

func typeOf(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return ErrTypeUnknown, false
}

func isType(err error, t ErrorType) bool {
	got, ok := typeOf(err)
	return ok && got == t
}

// IsNetworkRequired checks if bootstrap failed for lack of connectivity.
func IsNetworkRequired(err error) bool {
	return isType(err, ErrTypeNetworkRequired) || errors.Is(err, identity.ErrNetworkRequired)
}

// IsWifiDisconnected checks if a request was skipped because the network was down.
func IsWifiDisconnected(err error) bool {
	return isType(err, ErrTypeWifiDisconnected)
}

// IsTransportError checks if a request exhausted its retries.
func IsTransportError(err error) bool {
	return isType(err, ErrTypeTransport)
}

// IsHTTPError checks if the backend answered with an error status.
func IsHTTPError(err error) bool {
	return isType(err, ErrTypeHTTP)
}

// IsParseError checks if a response body could not be parsed.
func IsParseError(err error) bool {
	return isType(err, ErrTypeParse)
}

// IsRegistrationRejected checks if the backend declined registration.
func IsRegistrationRejected(err error) bool {
	return isType(err, ErrTypeRegistrationRejected)
}

// IsRegistrationFailed checks if the registration call itself failed.
func IsRegistrationFailed(err error) bool {
	return isType(err, ErrTypeRegistrationFailed)
}

// IsIdentityUnavailable checks if bootstrap could not establish a device id.
func IsIdentityUnavailable(err error) bool {
	return isType(err, ErrTypeIdentityUnavailable)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// Hint returns user-facing troubleshooting advice for an error
func Hint(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "An unexpected error occurred. Please try again."
	}

	switch e.Type {
	case ErrTypeNetworkRequired, ErrTypeIdentityUnavailable:
		return strings.Join([]string{
			"The device id could not be derived.",
			"Troubleshooting:",
			"  • Connect to a network and run begin again",
			"  • Select the interface explicitly with --interface",
		}, "\n")

	case ErrTypeWifiDisconnected:
		return strings.Join([]string{
			"The network is not connected.",
			"Troubleshooting:",
			"  • Check that an interface has an address",
			"  • Retry once connectivity is restored",
		}, "\n")

	case ErrTypeTransport:
		return strings.Join([]string{
			"The backend could not be reached.",
			"Troubleshooting:",
			"  • Verify the API base URL (inkbridge status)",
			"  • Check DNS and firewall settings",
			"  • Try a local backend found with inkbridge discover",
		}, "\n")

	case ErrTypeHTTP:
		switch {
		case e.StatusCode == 401 || e.StatusCode == 403:
			return strings.Join([]string{
				fmt.Sprintf("The backend refused the credentials (HTTP %d).", e.StatusCode),
				"Troubleshooting:",
				"  • Set the API key again with inkbridge set-key",
				"  • Reset the device and register again",
			}, "\n")
		case e.StatusCode >= 500:
			return fmt.Sprintf("The backend failed (HTTP %d). Try again later.", e.StatusCode)
		default:
			return fmt.Sprintf("The backend returned HTTP %d. Check the request parameters.", e.StatusCode)
		}

	case ErrTypeParse:
		return "The backend answered with a body that is not JSON. Check the API base URL."

	case ErrTypeAllocation:
		return "The response was too large. Raise transport.max_response_bytes in the config file."

	case ErrTypeRegistrationRejected:
		return strings.Join([]string{
			"The backend declined to register this device.",
			"Troubleshooting:",
			"  • Link the device id to your account first",
			"  • Or set an API key manually with inkbridge set-key",
		}, "\n")

	case ErrTypeRegistrationFailed:
		return "Registration did not complete. Check connectivity and run begin again."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// ShortMessage returns a concise, user-facing error message
func ShortMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeHTTP:
		return fmt.Sprintf("Backend error (HTTP %d)", e.StatusCode)
	case ErrTypeRegistrationRejected:
		if e.Message != "" {
			return "Registration rejected: " + e.Message
		}
		return "Registration rejected"
	case ErrTypeRegistrationFailed:
		return "Registration failed (" + e.Outcome.String() + ")"
	case ErrTypeNetworkRequired:
		return "Network required to derive device id"
	case ErrTypeIdentityUnavailable:
		if IsNetworkRequired(err) {
			return "Network required to derive device id"
		}
		return "Device id unavailable"
	case ErrTypeWifiDisconnected:
		return "Network not connected"
	case ErrTypeTransport:
		return "Backend unreachable"
	default:
		return e.Message
	}
}
