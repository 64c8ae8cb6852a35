// Package certinspect implements the certificate inspector used by every TLS
// connection gatectl opens. The inspector computes the policy errors of the
// server certificate, logs a diagnostic record for it and decides whether the
// handshake may continue.
package certinspect

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/depotlink/gatectl/pkg/log"
)

// ErrNoCertificate is returned by Describe when there is no leaf certificate.
var ErrNoCertificate = errors.New("no peer certificate")

// CertificateInfo is the diagnostic view of a server certificate during one
// handshake. It is derived on demand and never stored.
type CertificateInfo struct {
	ServerName   string
	Subject      string
	Issuer       string
	SerialNumber string
	NotBefore    time.Time
	NotAfter     time.Time
	DNSNames     []string
	// Chain lists the subject of every certificate the server sent, leaf first.
	Chain  []string
	Errors PolicyErrors
}

// RejectedError is returned from the handshake when the inspector refuses a
// certificate.
type RejectedError struct {
	ServerName string
	Subject    string
	Errors     PolicyErrors
}

func (e *RejectedError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("certificate for %q rejected: %s", e.ServerName, e.Errors)
	}
	return fmt.Sprintf("certificate %q for %q rejected: %s", e.Subject, e.ServerName, e.Errors)
}

// Inspector decides whether a TLS connection may proceed based on the server
// certificate. It holds no per-connection state.
type Inspector struct {
	logger    log.Logger
	roots     *x509.CertPool
	acceptAny bool
	checkOCSP bool
	now       func() time.Time
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger that receives the diagnostic records.
func WithLogger(l log.Logger) Option {
	return func(i *Inspector) { i.logger = l }
}

// WithRoots sets the trusted roots. A nil pool means the system roots.
func WithRoots(pool *x509.CertPool) Option {
	return func(i *Inspector) { i.roots = pool }
}

// WithAcceptAny makes the inspector accept every certificate, whatever its
// policy errors. Records are still logged. Never enable this outside tests.
func WithAcceptAny(accept bool) Option {
	return func(i *Inspector) { i.acceptAny = accept }
}

// WithStapledOCSP enables the revocation check against stapled OCSP responses.
func WithStapledOCSP(enabled bool) Option {
	return func(i *Inspector) { i.checkOCSP = enabled }
}

// WithClock overrides the time source used for validity checks.
func WithClock(now func() time.Time) Option {
	return func(i *Inspector) { i.now = now }
}

// New returns an Inspector. By default it trusts the system roots, logs to the
// global logger, checks stapled OCSP responses and rejects any certificate
// with policy errors.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		logger:    log.WithName("certinspect"),
		checkOCSP: true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inspect logs a diagnostic record for the certificate and returns true if and
// only if errs is empty, unless the inspector was built to accept any
// certificate. A missing or unreadable leaf is always rejected.
func (i *Inspector) Inspect(leaf *x509.Certificate, chain []*x509.Certificate, errs PolicyErrors) bool {
	info, err := Describe(leaf, chain)
	if err != nil {
		i.logger.Error(err, "SSL certificate validation", "policyErrors", errs|NotAvailable, "accepted", false)
		return false
	}
	info.Errors = errs

	accepted := errs == None || i.acceptAny
	i.logger.Info("SSL certificate validation",
		"subject", info.Subject,
		"issuer", info.Issuer,
		"effectiveDate", info.NotBefore,
		"expirationDate", info.NotAfter,
		"chain", info.Chain,
		"policyErrors", info.Errors,
		"accepted", accepted,
	)

	if errs != None && i.acceptAny {
		i.logger.Warn("accepting certificate despite policy errors, TLS verification is disabled",
			"subject", info.Subject, "policyErrors", errs)
	}

	return accepted
}

// VerifyConnection is installed as tls.Config.VerifyConnection. It runs once
// per handshake and fails it when Inspect rejects the certificate.
func (i *Inspector) VerifyConnection(cs tls.ConnectionState) error {
	var leaf *x509.Certificate
	if len(cs.PeerCertificates) > 0 {
		leaf = cs.PeerCertificates[0]
	}

	errs := i.Evaluate(cs)
	if i.Inspect(leaf, cs.PeerCertificates, errs) {
		return nil
	}

	rejected := &RejectedError{ServerName: cs.ServerName, Errors: errs}
	if leaf != nil {
		rejected.Subject = leaf.Subject.String()
	}
	if errs == None {
		rejected.Errors = NotAvailable
	}
	return rejected
}

// TLSConfig returns a copy of base that routes certificate verification
// through the inspector. The built-in verifier is switched off and
// VerifyConnection performs the full verification in its place.
func (i *Inspector) TLSConfig(base *tls.Config) *tls.Config {
	var cfg *tls.Config
	if base == nil {
		cfg = &tls.Config{}
	} else {
		cfg = base.Clone()
	}
	if cfg.MinVersion < tls.VersionTLS12 {
		cfg.MinVersion = tls.VersionTLS12
	}
	cfg.InsecureSkipVerify = true
	cfg.VerifyConnection = i.VerifyConnection
	return cfg
}

// Describe extracts the diagnostic fields of leaf and its chain.
func Describe(leaf *x509.Certificate, chain []*x509.Certificate) (*CertificateInfo, error) {
	if leaf == nil {
		return nil, ErrNoCertificate
	}
	if len(leaf.Raw) == 0 || leaf.SerialNumber == nil {
		return nil, errors.New("peer certificate is not readable")
	}

	info := &CertificateInfo{
		Subject:      leaf.Subject.String(),
		Issuer:       leaf.Issuer.String(),
		SerialNumber: fmt.Sprintf("%X", leaf.SerialNumber),
		NotBefore:    leaf.NotBefore.UTC(),
		NotAfter:     leaf.NotAfter.UTC(),
		DNSNames:     leaf.DNSNames,
	}
	for _, c := range chain {
		if c == nil {
			continue
		}
		info.Chain = append(info.Chain, c.Subject.String())
	}
	return info, nil
}
