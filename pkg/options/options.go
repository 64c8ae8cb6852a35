// Package options holds the option groups shared by gatectl commands. Each
// group binds its own flags and validates itself.
package options

import (
	"fmt"
	"net/url"

	"github.com/spf13/pflag"
)

// IOptions is implemented by every option group.
type IOptions interface {
	// Validate returns every problem found, not only the first one.
	Validate() []error

	// AddFlags adds the group's flags to fs.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

// ValidateHTTPSURL checks that raw is an absolute https URL with a host.
func ValidateHTTPSURL(flag, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("--%s: %w", flag, err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("--%s must use the https scheme, got %q", flag, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("--%s must include a host, got %q", flag, raw)
	}
	return nil
}
