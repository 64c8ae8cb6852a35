package options

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/depotlink/gatectl/internal/gate"
	"github.com/depotlink/gatectl/internal/pkg/certinspect"
	"github.com/depotlink/gatectl/pkg/log"
	genericoptions "github.com/depotlink/gatectl/pkg/options"
)

// GateOptions is the full option set of gatectl. The mapstructure tags are the
// keys used in config files and GATECTL_ environment variables.
type GateOptions struct {
	Log    *log.Options                  `json:"log" mapstructure:"log"`
	Client *genericoptions.ClientOptions `json:"client" mapstructure:"client"`
	TLS    *genericoptions.TLSOptions    `json:"tls" mapstructure:"tls"`
	API    *genericoptions.APIOptions    `json:"api" mapstructure:"api"`
}

func NewGateOptions() *GateOptions {
	return &GateOptions{
		Log:    log.NewOptions(),
		Client: genericoptions.NewClientOptions(),
		TLS:    genericoptions.NewTLSOptions(),
		API:    genericoptions.NewAPIOptions(),
	}
}

func (o *GateOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.API.AddFlags(fss.FlagSet("api"))
	o.Client.AddFlags(fss.FlagSet("client"))
	o.TLS.AddFlags(fss.FlagSet("tls"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *GateOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.API.Validate()...)
	errs = append(errs, o.Client.Validate()...)
	errs = append(errs, o.TLS.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

// Depot returns the depot recorded on gate-in entries.
func (o *GateOptions) Depot() gate.Depot {
	return gate.Depot{
		CompanyID: o.API.DepotCompanyID,
		Name:      o.API.DepotName,
		Code:      o.API.DepotCode,
	}
}

// Inspector builds the certificate inspector together with the base TLS
// configuration it verifies against.
func (o *GateOptions) Inspector(logger log.Logger) (*certinspect.Inspector, *tls.Config, error) {
	base, err := o.TLS.ToTLSConfig()
	if err != nil {
		return nil, nil, &gate.ConfigError{Msg: "invalid TLS options", Err: err}
	}
	insp := certinspect.New(
		certinspect.WithLogger(logger.WithName("certinspect")),
		certinspect.WithRoots(base.RootCAs),
		certinspect.WithAcceptAny(o.TLS.InsecureSkipVerify),
		certinspect.WithStapledOCSP(o.TLS.CheckStapledOCSP),
	)
	return insp, base, nil
}

// Config builds the gate client configuration. The token is passed through
// unchecked; gate.Config.NewClient rejects an empty one.
func (o *GateOptions) Config(logger log.Logger) (*gate.Config, error) {
	insp, base, err := o.Inspector(logger)
	if err != nil {
		return nil, err
	}

	return &gate.Config{
		BaseURL:   o.API.BaseURL,
		Token:     o.API.Token,
		Timeout:   o.Client.Timeout,
		Retries:   o.Client.Retries,
		UserAgent: o.Client.UserAgent,
		TLSConfig: insp.TLSConfig(base),
		Logger:    logger.WithName("gate"),
	}, nil
}

// Address returns the host:port of the API endpoint, for the certificate
// probe.
func (o *GateOptions) Address() (string, error) {
	u, err := url.Parse(o.API.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing api.base-url: %w", err)
	}
	port := u.Port()
	if port == "" {
		port = "443"
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
