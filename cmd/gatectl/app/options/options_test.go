package options

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depotlink/gatectl/internal/gate"
	"github.com/depotlink/gatectl/pkg/log"
)

func TestFlagsCoverEveryGroup(t *testing.T) {
	fss := NewGateOptions().Flags()
	assert.Equal(t, []string{"api", "client", "tls", "log"}, fss.Order)

	for _, name := range []string{"api.base-url", "client.timeout", "tls.insecure-skip-verify", "log.level"} {
		found := false
		for _, fs := range fss.FlagSets {
			if fs.Lookup(name) != nil {
				found = true
			}
		}
		assert.True(t, found, name)
	}
}

func TestValidateAggregates(t *testing.T) {
	o := NewGateOptions()
	require.NoError(t, o.Validate())

	o.API.BaseURL = "ftp://testapi.trtn.com"
	o.TLS.MinVersion = "1.0"
	o.Log.Format = "xml"

	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base-url")
	assert.Contains(t, err.Error(), "tls.min-version")
	assert.Contains(t, err.Error(), "xml")
}

func TestDepot(t *testing.T) {
	o := NewGateOptions()
	assert.Equal(t, gate.DefaultDepot, o.Depot())

	o.API.DepotCode = "XIAX"
	assert.Equal(t, "XIAX", o.Depot().Code)
}

func TestConfig(t *testing.T) {
	o := NewGateOptions()
	o.API.Token = "secret"
	o.Client.Timeout = 7 * time.Second
	o.Client.Retries = 2
	o.TLS.MinVersion = "1.3"

	cfg, err := o.Config(log.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, "https://testapi.trtn.com/triton/api/v2/gate", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.Retries)

	require.NotNil(t, cfg.TLSConfig)
	assert.Equal(t, uint16(tls.VersionTLS13), cfg.TLSConfig.MinVersion)
	assert.True(t, cfg.TLSConfig.InsecureSkipVerify, "verification moves into the inspector")
	assert.NotNil(t, cfg.TLSConfig.VerifyConnection)
}

func TestConfigBadCAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

	o := NewGateOptions()
	o.TLS.CAFile = path

	_, err := o.Config(log.NewNopLogger())
	var cerr *gate.ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestAddress(t *testing.T) {
	o := NewGateOptions()
	addr, err := o.Address()
	require.NoError(t, err)
	assert.Equal(t, "testapi.trtn.com:443", addr)

	o.API.BaseURL = "https://127.0.0.1:8443/triton/api/v2/gate"
	addr, err = o.Address()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8443", addr)
}
