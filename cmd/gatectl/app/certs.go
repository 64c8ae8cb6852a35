package app

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/depotlink/gatectl/internal/gate"
)

func newCertsCommand(rc *runContext) *cobra.Command {
	return &cobra.Command{
		Use:   "certs",
		Short: "Show the API server certificate and its policy errors",
		Long: `Open one TLS connection to the gate API host through the certificate
inspector and print what it saw. No token is needed and no request is sent.`,
		Args: requireArgs(0, ""),
		RunE: func(cmd *cobra.Command, args []string) error {
			insp, base, err := rc.opts.Inspector(rc.logger)
			if err != nil {
				return err
			}
			addr, err := rc.opts.Address()
			if err != nil {
				return &gate.ConfigError{Msg: "invalid api.base-url", Err: err}
			}

			ctx, cancel := context.WithTimeout(rc.ctx, rc.opts.Client.Timeout)
			defer cancel()

			info, err := insp.Probe(ctx, addr, base)
			if info != nil {
				t := newTable()
				t.AddRow("SERVER NAME:", info.ServerName)
				t.AddRow("SUBJECT:", info.Subject)
				t.AddRow("ISSUER:", info.Issuer)
				t.AddRow("SERIAL:", info.SerialNumber)
				t.AddRow("NOT BEFORE:", info.NotBefore)
				t.AddRow("NOT AFTER:", info.NotAfter)
				t.AddRow("DNS NAMES:", strings.Join(info.DNSNames, ", "))
				for i, subject := range info.Chain {
					t.AddRow(chainLabel(i), subject)
				}
				t.AddRow("POLICY ERRORS:", info.Errors)
				if werr := writeTable(cmd.OutOrStdout(), t); werr != nil {
					return werr
				}
			}
			if err != nil {
				return &gate.TransportError{Method: "CONNECT", URL: addr, Err: err}
			}
			return nil
		},
	}
}
