package app

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/depotlink/gatectl/internal/gate"
)

type createOptions struct {
	status       string
	activityType string
	photos       []string
}

func newCreateCommand(rc *runContext) *cobra.Command {
	o := &createOptions{
		status:       string(gate.StatusUndamaged),
		activityType: string(gate.ActivityIn),
	}

	cmd := &cobra.Command{
		Use:   "create <unitNumber> <adviceNumber>",
		Short: "Submit a gate-in entry for a container unit",
		Long: `Submit a gate entry for a container unit against a redelivery advice. The
entry is recorded for the configured depot with the current time.`,
		Example: `  # Gate in an undamaged unit
  gatectl create TCKU6034863 AXIAF32029

  # Gate in a damaged unit with photo references
  gatectl create TCKU6034863 AXIAF32029 --status D --photo p-1 --photo p-2`,
		Args: requireArgs(2, "Please provide advice number and unit number for post."),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := gate.ParseStatus(o.status)
			if err != nil {
				return usageErrorf(cmd, "%v", err)
			}
			activityType, err := gate.ParseActivityType(o.activityType)
			if err != nil {
				return usageErrorf(cmd, "%v", err)
			}

			req, err := gate.NewGateCreateRequest(args[1], args[0], rc.opts.Depot(), time.Now(),
				gate.WithStatus(status),
				gate.WithActivityType(activityType),
				gate.WithPhotos(o.photos...),
			)
			if err != nil {
				return usageErrorf(cmd, "%v", err)
			}
			rc.checkUnit(req.UnitNumber)

			client, err := rc.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.CreateStatus(rc.ctx, req)
			if err != nil {
				return err
			}
			rc.logger.Info("Post successful", "unitNumber", req.UnitNumber, "adviceNumber", req.AdviceNumber, "status", resp.Status)
			return writeEntry(cmd.OutOrStdout(), rc.output, resp.Body)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.status, "status", o.status, "Unit condition: A (undamaged), D (damaged) or S (sold).")
	fs.StringVar(&o.activityType, "type", o.activityType, "Gate activity: IN or OUT.")
	fs.StringArrayVar(&o.photos, "photo", o.photos, "Photo reference to attach. May be repeated.")

	return cmd
}
