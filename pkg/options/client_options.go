package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*ClientOptions)(nil)

// ClientOptions contains configuration items for the HTTP client that talks
// to the gate API.
type ClientOptions struct {
	// Timeout bounds a single request attempt, including the TLS handshake.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// Retries is the number of extra attempts made after a timeout.
	// Zero means every request is attempted exactly once.
	Retries int `json:"retries" mapstructure:"retries"`

	// UserAgent is sent with every request.
	UserAgent string `json:"user-agent" mapstructure:"user-agent"`
}

// NewClientOptions creates a ClientOptions object with default parameters.
func NewClientOptions() *ClientOptions {
	return &ClientOptions{
		Timeout:   30 * time.Second,
		Retries:   0,
		UserAgent: "gatectl",
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *ClientOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Timeout <= 0 {
		errors = append(errors, fmt.Errorf("--client.timeout must be positive, got %s", o.Timeout))
	}
	if o.Retries < 0 {
		errors = append(errors, fmt.Errorf("--client.retries must not be negative, got %d", o.Retries))
	}

	return errors
}

// AddFlags adds flags related to the gate API client to the specified FlagSet.
func (o *ClientOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.DurationVar(&o.Timeout, "client.timeout", o.Timeout, "Timeout for a single request attempt.")
	fs.IntVar(&o.Retries, "client.retries", o.Retries, "Number of retries after a request timeout (0 disables retries).")
	fs.StringVar(&o.UserAgent, "client.user-agent", o.UserAgent, "User-Agent header sent with every request.")
}
