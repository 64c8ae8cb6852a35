package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/cli/globalflag"
	"k8s.io/component-base/term"
	"k8s.io/klog/v2"

	"github.com/depotlink/gatectl/cmd/gatectl/app/options"
	"github.com/depotlink/gatectl/internal/gate"
	"github.com/depotlink/gatectl/pkg/log"
)

const (
	commandName = "gatectl"
	commandDesc = `gatectl talks to the Triton container-terminal gate API. It looks up the
current gate status of a container unit or submits a gate-in entry for it.

The bearer token is read from TRITON_API_TOKEN. Every other option can be set
by flag, by a GATECTL_ prefixed environment variable (GATECTL_API_BASE_URL for
--api.base-url) or in the file given with --config.

Every TLS handshake is checked by the certificate inspector, which logs the
server certificate and rejects it on any policy error.`

	globalFlagSet = "global"

	envPrefix = "GATECTL"
	tokenEnv  = "TRITON_API_TOKEN"
)

// runContext carries what every subcommand needs once options are loaded.
type runContext struct {
	ctx    context.Context
	opts   *options.GateOptions
	logger log.Logger
	output string
}

// NewGateCommand builds the gatectl command tree. ctx is cancelled on
// SIGINT/SIGTERM.
func NewGateCommand(ctx context.Context) *cobra.Command {
	opts := options.NewGateOptions()
	namedfs := opts.Flags()
	rc := &runContext{ctx: ctx, opts: opts}
	var configFile string

	cmd := &cobra.Command{
		Use:           commandName,
		Short:         "Query and create container gate entries",
		Long:          commandDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf(cmd, "Please provide arguments")
			}
			return usageErrorf(cmd, "Invalid mode %q. Use 'get' or 'create'.", args[0])
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if rc.output != outputRaw && rc.output != outputTable {
				return usageErrorf(cmd, "unknown output format %q, use raw or table", rc.output)
			}
			if err := loadOptions(opts, namedfs, configFile); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return &optionsError{err: err}
			}
			logger, err := log.Init(opts.Log)
			if err != nil {
				return &optionsError{err: err}
			}
			rc.logger = logger.WithValues("invocation", uuid.NewString())
			klog.SetLogger(rc.logger.Logr())
			return nil
		},
		// Never reached: Args rejects everything that is not a subcommand.
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageErrorf(c, "%v", err)
	})

	cmd.AddCommand(
		newGetCommand(rc),
		newCreateCommand(rc),
		newCertsCommand(rc),
	)

	global := namedfs.FlagSet(globalFlagSet)
	global.StringVarP(&configFile, "config", "c", "", "Read options from this file (YAML, TOML or JSON).")
	global.StringVarP(&rc.output, "output", "o", outputRaw, "Output format: raw or table.")
	globalflag.AddGlobalFlags(global, cmd.Name())

	pfs := cmd.PersistentFlags()
	for _, f := range namedfs.FlagSets {
		pfs.AddFlagSet(f)
	}
	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cliflag.SetUsageAndHelpFunc(cmd, namedfs, cols)
	for _, sub := range cmd.Commands() {
		subfs := cliflag.NamedFlagSets{}
		if sub.Flags().HasFlags() {
			subfs.FlagSet(sub.Name()).AddFlagSet(sub.Flags())
		}
		for _, name := range namedfs.Order {
			subfs.FlagSet(name).AddFlagSet(namedfs.FlagSets[name])
		}
		cliflag.SetUsageAndHelpFunc(sub, subfs, cols)
	}

	return cmd
}

// loadOptions layers config file, environment and flags over the defaults
// already in opts. Flags win, then the environment, then the file.
func loadOptions(opts *options.GateOptions, namedfs cliflag.NamedFlagSets, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.token", tokenEnv); err != nil {
		return err
	}

	for name, fs := range namedfs.FlagSets {
		if name == globalFlagSet {
			continue
		}
		if err := v.BindPFlags(fs); err != nil {
			return err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return &optionsError{err: fmt.Errorf("reading config file: %w", err)}
		}
	}

	if err := v.Unmarshal(opts); err != nil {
		return &optionsError{err: fmt.Errorf("decoding options: %w", err)}
	}
	return nil
}

// requireArgs accepts exactly n positional arguments. Too few is reported with
// missing, too many with a count.
func requireArgs(n int, missing string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) < n:
			return usageErrorf(cmd, "%s", missing)
		case len(args) > n:
			return usageErrorf(cmd, "accepts %d arg(s), received %d", n, len(args))
		}
		return nil
	}
}

func (rc *runContext) newClient() (*gate.Client, error) {
	cfg, err := rc.opts.Config(rc.logger)
	if err != nil {
		return nil, err
	}
	return cfg.NewClient()
}

// checkUnit warns about unit numbers with a bad ISO 6346 check digit. The
// unit is still sent; the API has the final word.
func (rc *runContext) checkUnit(unit string) {
	if !gate.ValidUnitNumber(unit) {
		rc.logger.Warn("unit number does not pass the ISO 6346 check", "unitNumber", unit)
	}
}
