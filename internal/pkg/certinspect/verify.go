package certinspect

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"time"

	"golang.org/x/crypto/ocsp"
)

// Evaluate computes the policy errors of the certificate presented in cs.
// Every check runs, so one certificate can report several errors.
func (i *Inspector) Evaluate(cs tls.ConnectionState) PolicyErrors {
	if len(cs.PeerCertificates) == 0 || cs.PeerCertificates[0] == nil {
		return NotAvailable
	}
	leaf := cs.PeerCertificates[0]
	now := i.now()

	var errs PolicyErrors

	if cs.ServerName == "" || leaf.VerifyHostname(cs.ServerName) != nil {
		errs |= NameMismatch
	}

	switch {
	case now.Before(leaf.NotBefore):
		errs |= NotYetValid
	case now.After(leaf.NotAfter):
		errs |= Expired
	}

	intermediates := x509.NewCertPool()
	for _, c := range cs.PeerCertificates[1:] {
		if c != nil {
			intermediates.AddCert(c)
		}
	}
	_, err := leaf.Verify(x509.VerifyOptions{
		Roots:         i.roots,
		Intermediates: intermediates,
		// The leaf window is checked above.
		CurrentTime: clamp(now, leaf.NotBefore, leaf.NotAfter),
		KeyUsages:   []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	})
	errs |= chainErrors(err)

	if i.checkOCSP && i.revoked(cs, leaf) {
		errs |= Revoked
	}

	return errs
}

func chainErrors(err error) PolicyErrors {
	if err == nil {
		return None
	}

	var unknown x509.UnknownAuthorityError
	if errors.As(err, &unknown) {
		return UntrustedRoot
	}

	// No usable system roots: nothing can be trusted.
	var noRoots x509.SystemRootsError
	if errors.As(err, &noRoots) {
		return UntrustedRoot
	}

	var invalid x509.CertificateInvalidError
	if errors.As(err, &invalid) && invalid.Reason == x509.Expired {
		return Expired
	}

	return ChainInvalid
}

// revoked checks a stapled OCSP response. Revocation is never fetched from
// the network; without a staple or an issuer certificate nothing is reported.
func (i *Inspector) revoked(cs tls.ConnectionState, leaf *x509.Certificate) bool {
	if len(cs.OCSPResponse) == 0 || len(cs.PeerCertificates) < 2 {
		return false
	}
	issuer := cs.PeerCertificates[1]

	resp, err := ocsp.ParseResponseForCert(cs.OCSPResponse, leaf, issuer)
	if err != nil {
		i.logger.Debug("ignoring unusable stapled OCSP response", "subject", leaf.Subject.String(), err)
		return false
	}
	return resp.Status == ocsp.Revoked
}

func clamp(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}

// Probe opens one TLS connection to address through the inspector and
// returns the certificate information seen during the handshake. The
// information is returned even when the certificate was rejected.
func (i *Inspector) Probe(ctx context.Context, address string, base *tls.Config) (*CertificateInfo, error) {
	cfg := i.TLSConfig(base)
	if cfg.ServerName == "" {
		host, _, err := net.SplitHostPort(address)
		if err != nil {
			return nil, err
		}
		cfg.ServerName = host
	}

	var seen *CertificateInfo
	cfg.VerifyConnection = func(cs tls.ConnectionState) error {
		var leaf *x509.Certificate
		if len(cs.PeerCertificates) > 0 {
			leaf = cs.PeerCertificates[0]
		}
		if info, err := Describe(leaf, cs.PeerCertificates); err == nil {
			info.ServerName = cs.ServerName
			info.Errors = i.Evaluate(cs)
			seen = info
		}
		return i.VerifyConnection(cs)
	}

	dialer := &tls.Dialer{Config: cfg}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return seen, err
	}
	defer conn.Close()

	return seen, nil
}
