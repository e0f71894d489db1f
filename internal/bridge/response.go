package bridge

import (
	"encoding/json"
	"fmt"
)

// OutcomeKind classifies the result of a transport call.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeWifiDisconnected
	OutcomeTransportError
	OutcomeHTTPError
	OutcomeJSONParseError
	OutcomeAllocationError
	OutcomeConnectFailed
)

// Outcome is the classified result of a transport call. Code is set for HTTP errors.
type Outcome struct {
	Kind OutcomeKind
	Code int
}

// Outcome constructors.
var (
	OK               = Outcome{Kind: OutcomeOK}
	WifiDisconnected = Outcome{Kind: OutcomeWifiDisconnected}
	TransportError   = Outcome{Kind: OutcomeTransportError}
	JSONParseError   = Outcome{Kind: OutcomeJSONParseError}
	AllocationError  = Outcome{Kind: OutcomeAllocationError}
	ConnectFailed    = Outcome{Kind: OutcomeConnectFailed}
)

// HTTPError returns the outcome for an HTTP status >= 400.
func HTTPError(code int) Outcome {
	return Outcome{Kind: OutcomeHTTPError, Code: code}
}

// String returns the wire-style status name, e.g. "OK" or "HTTP_ERROR_404".
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeOK:
		return "OK"
	case OutcomeWifiDisconnected:
		return "WIFI_DISCONNECTED"
	case OutcomeTransportError:
		return "TRANSPORT_ERROR"
	case OutcomeHTTPError:
		return fmt.Sprintf("HTTP_ERROR_%d", o.Code)
	case OutcomeJSONParseError:
		return "JSON_PARSE_ERROR"
	case OutcomeAllocationError:
		return "ALLOCATION_ERROR"
	case OutcomeConnectFailed:
		return "CONNECT_FAILED"
	default:
		return fmt.Sprintf("OUTCOME_%d", int(o.Kind))
	}
}

// Response is the result of every transport call and the unit held by the cache.
// Data is the parsed JSON body (nil when there is none); numbers are json.Number.
type Response struct {
	Outcome Outcome
	Data    any

	cause error
}

// OK reports whether the call succeeded.
func (r Response) OK() bool {
	return r.Outcome.Kind == OutcomeOK
}

// Populated reports whether the response carries data.
func (r Response) Populated() bool {
	return r.Data != nil
}

// Err returns nil for a successful response and an *Error describing the outcome otherwise.
func (r Response) Err() error {
	if r.OK() {
		return nil
	}
	return errorForOutcome(r.Outcome, r.cause)
}

// Get returns the value at path in the response data, or nil.
func (r Response) Get(path ...any) any {
	return Lookup(r.Data, path...)
}

func (r Response) String(path ...any) string {
	return String(r.Get(path...))
}

func (r Response) Float(path ...any) float64 {
	return Float(r.Get(path...))
}

func (r Response) Int(path ...any) int {
	return Int(r.Get(path...))
}

func (r Response) Bool(path ...any) bool {
	return Bool(r.Get(path...))
}

func (r Response) Len(path ...any) int {
	return Len(r.Get(path...))
}

// JSON returns the data re-encoded as compact JSON, or "" when there is none.
func (r Response) JSON() string {
	if r.Data == nil {
		return ""
	}
	out, err := json.Marshal(r.Data)
	if err != nil {
		return ""
	}
	return string(out)
}

// NewResponse builds a response from an outcome and already-parsed data.
func NewResponse(o Outcome, data any) Response {
	return Response{Outcome: o, Data: data}
}
