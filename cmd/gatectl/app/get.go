package app

import (
	"github.com/spf13/cobra"

	"github.com/depotlink/gatectl/internal/gate"
)

func newGetCommand(rc *runContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <unitNumber>",
		Short: "Look up the current gate status of a container unit",
		Example: `  # Show the gate status of one unit
  gatectl get TCKU6034863`,
		Args: requireArgs(1, "Please provide a unit number."),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := gate.NewGateStatusRequest(args[0])
			if err != nil {
				return usageErrorf(cmd, "%v", err)
			}
			rc.checkUnit(req.UnitNumber)

			client, err := rc.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.GetStatus(rc.ctx, req)
			if err != nil {
				return err
			}
			return writeStatus(cmd.OutOrStdout(), rc.output, resp.Body)
		},
	}
}
