package gate

import (
	"errors"
	"fmt"
	"net"

	"github.com/depotlink/gatectl/internal/pkg/certinspect"
)

// ConfigError means the client could not be configured, e.g. the token is
// missing. No request has been sent when it is returned.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError wraps a failure to obtain a response: DNS, connect, TLS,
// certificate rejection or timeout.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout.
func (e *TransportError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// CertificateRejected reports whether the certificate inspector refused the
// server certificate.
func (e *TransportError) CertificateRejected() bool {
	var rejected *certinspect.RejectedError
	return errors.As(e.Err, &rejected)
}

// APIError is returned for any non-2xx response. Body is the raw error body.
type APIError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gate API returned %s", e.Status)
}
