package errcode

// Code is a stable error identifier surfaced by the core.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Filesystem
	FSUnavailable Code = "fs_unavailable"
	FSNotFound    Code = "fs_not_found"
	FSShortWrite  Code = "fs_short_write"

	// Configuration
	CfgParseFailed   Code = "cfg_parse_failed"
	CfgPersistFailed Code = "cfg_persist_failed"

	// Network
	APStartFailed Code = "ap_start_failed"
	STATimeout    Code = "sta_timeout"
	NoCredentials Code = "no_credentials"

	// HTTP
	HTTPNotFound   Code = "http_not_found"
	HTTPBadRequest Code = "http_bad_request"

	// OTA
	OTAAuthError    Code = "ota_auth_error"
	OTABeginError   Code = "ota_begin_error"
	OTAConnectError Code = "ota_connect_error"
	OTAReceiveError Code = "ota_receive_error"
	OTAEndError     Code = "ota_end_error"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap attaches a code to a cause.
func Wrap(c Code, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &E{C: c, Msg: msg, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Is reports whether err carries the given code.
func Is(err error, c Code) bool { return Of(err) == c }
