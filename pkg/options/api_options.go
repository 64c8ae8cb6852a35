package options

import (
	"github.com/spf13/pflag"
)

var _ IOptions = (*APIOptions)(nil)

// DefaultBaseURL is the gate endpoint of the Triton test API.
const DefaultBaseURL = "https://testapi.trtn.com/triton/api/v2/gate"

// APIOptions describes the gate API endpoint, the credential and the depot
// used for gate-in entries.
type APIOptions struct {
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// Token is the bearer token. It has no flag; it is read from
	// TRITON_API_TOKEN or the config file so it never shows up in ps output.
	Token string `json:"-" mapstructure:"token"`

	DepotCompanyID string `json:"depot-company-id" mapstructure:"depot-company-id"`
	DepotName      string `json:"depot-name" mapstructure:"depot-name"`
	DepotCode      string `json:"depot-code" mapstructure:"depot-code"`
}

// NewAPIOptions creates APIOptions pointing at the default depot.
func NewAPIOptions() *APIOptions {
	return &APIOptions{
		BaseURL:        DefaultBaseURL,
		DepotCompanyID: "CNXIAFTRI",
		DepotName:      "Xiamen Sanlly Container Services, Co., Ltd.",
		DepotCode:      "XIAF",
	}
}

// Validate checks the endpoint. The token is checked by the commands that
// need it.
func (o *APIOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if err := ValidateHTTPSURL("api.base-url", o.BaseURL); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// AddFlags adds flags for APIOptions to the specified FlagSet.
func (o *APIOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.BaseURL, "api.base-url", o.BaseURL, "Base URL of the gate API.")
	fs.StringVar(&o.DepotCompanyID, "api.depot-company-id", o.DepotCompanyID, "Company id of the depot recorded on gate-in entries.")
	fs.StringVar(&o.DepotName, "api.depot-name", o.DepotName, "Name of the depot recorded on gate-in entries.")
	fs.StringVar(&o.DepotCode, "api.depot-code", o.DepotCode, "Code of the depot recorded on gate-in entries.")
}
