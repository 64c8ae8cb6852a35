package certinspect

import (
	"strings"
)

// PolicyErrors is the set of certificate validation failures found during one
// TLS handshake. The zero value means the certificate passed every check.
type PolicyErrors uint8

const (
	// NotAvailable means the server presented no certificate.
	NotAvailable PolicyErrors = 1 << iota
	// NameMismatch means the certificate does not cover the requested server name.
	NameMismatch
	// UntrustedRoot means the chain does not end in a trusted root.
	UntrustedRoot
	// ChainInvalid covers every other chain building failure.
	ChainInvalid
	// Expired means the leaf, or a certificate in its chain, is past NotAfter.
	Expired
	// NotYetValid means the leaf is before NotBefore.
	NotYetValid
	// Revoked means a stapled OCSP response reported the leaf as revoked.
	Revoked
)

// None is the empty policy-error set.
const None PolicyErrors = 0

var policyNames = []struct {
	flag PolicyErrors
	name string
}{
	{NotAvailable, "NotAvailable"},
	{NameMismatch, "NameMismatch"},
	{UntrustedRoot, "UntrustedRoot"},
	{ChainInvalid, "ChainInvalid"},
	{Expired, "Expired"},
	{NotYetValid, "NotYetValid"},
	{Revoked, "Revoked"},
}

// Has reports whether every flag in f is set in p.
func (p PolicyErrors) Has(f PolicyErrors) bool {
	return f != None && p&f == f
}

// List returns the names of the flags set in p, in declaration order.
func (p PolicyErrors) List() []string {
	var names []string
	for _, n := range policyNames {
		if p&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (p PolicyErrors) String() string {
	if p == None {
		return "None"
	}
	return strings.Join(p.List(), ", ")
}
