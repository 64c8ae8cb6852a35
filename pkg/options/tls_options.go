package options

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

var _ IOptions = (*TLSOptions)(nil)

var tlsVersions = map[string]uint16{
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// TLSOptions contains configuration for the TLS side of the gate API client.
type TLSOptions struct {
	// MinVersion is the lowest TLS version offered. Either "1.2" or "1.3".
	MinVersion string `json:"min-version" mapstructure:"min-version"`

	// CAFile is a PEM bundle that replaces the system roots when set.
	CAFile string `json:"ca-file" mapstructure:"ca-file"`

	// ServerName overrides the name used for SNI and hostname verification.
	ServerName string `json:"server-name" mapstructure:"server-name"`

	// InsecureSkipVerify makes the certificate inspector accept any certificate
	// presented by the server and any host name in that certificate. Policy
	// errors are still computed and logged. In this mode, TLS is susceptible to
	// man-in-the-middle attacks. This should be used only for testing.
	InsecureSkipVerify bool `json:"insecure-skip-verify" mapstructure:"insecure-skip-verify"`

	// CheckStapledOCSP rejects certificates that a stapled OCSP response
	// reports as revoked.
	CheckStapledOCSP bool `json:"check-stapled-ocsp" mapstructure:"check-stapled-ocsp"`
}

// NewTLSOptions creates a new TLSOptions with default values.
func NewTLSOptions() *TLSOptions {
	return &TLSOptions{
		MinVersion:         "1.2",
		InsecureSkipVerify: false,
		CheckStapledOCSP:   true,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *TLSOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if _, ok := tlsVersions[o.MinVersion]; !ok {
		errors = append(errors, fmt.Errorf("--tls.min-version must be 1.2 or 1.3, got %q", o.MinVersion))
	}
	if o.CAFile != "" {
		if _, err := os.Stat(o.CAFile); err != nil {
			errors = append(errors, fmt.Errorf("--tls.ca-file: %w", err))
		}
	}

	return errors
}

// AddFlags adds flags for TLSOptions to the specified FlagSet.
func (o *TLSOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.MinVersion, "tls.min-version", o.MinVersion, "Minimum TLS version (1.2 or 1.3).")
	fs.StringVar(&o.CAFile, "tls.ca-file", o.CAFile, "PEM file with trusted root certificates. Defaults to the system pool.")
	fs.StringVar(&o.ServerName, "tls.server-name", o.ServerName, "Server name used for SNI and hostname verification.")
	fs.BoolVar(&o.InsecureSkipVerify, "tls.insecure-skip-verify", o.InsecureSkipVerify,
		"If true, accept any server certificate. Policy errors are still logged. For testing only.")
	fs.BoolVar(&o.CheckStapledOCSP, "tls.check-stapled-ocsp", o.CheckStapledOCSP,
		"Reject certificates reported as revoked by a stapled OCSP response.")
}

// ToTLSConfig builds the base tls.Config. Certificate verification is wired in
// by the certificate inspector, not here.
func (o *TLSOptions) ToTLSConfig() (*tls.Config, error) {
	version, ok := tlsVersions[o.MinVersion]
	if !ok {
		return nil, fmt.Errorf("unsupported TLS version %q", o.MinVersion)
	}

	cfg := &tls.Config{
		MinVersion: version,
		ServerName: o.ServerName,
	}

	if o.CAFile != "" {
		pem, err := os.ReadFile(o.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in CA file %s", o.CAFile)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}
