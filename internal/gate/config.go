package gate

import (
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/depotlink/gatectl/pkg/log"
)

// Config holds everything needed to build a Client.
type Config struct {
	// BaseURL is the gate collection URL, e.g.
	// https://testapi.trtn.com/triton/api/v2/gate.
	BaseURL string

	// Token is the bearer token sent with every request.
	Token string

	// Timeout bounds one request attempt. Defaults to 30s.
	Timeout time.Duration

	// Retries is the number of extra attempts after a timeout.
	Retries int

	UserAgent string

	// TLSConfig is used as is; it is expected to carry the certificate
	// inspector.
	TLSConfig *tls.Config

	Logger log.Logger
}

// NewClient validates the configuration and builds a Client. It performs no
// network activity.
func (cfg *Config) NewClient() (*Client, error) {
	if cfg.Token == "" {
		return nil, &ConfigError{Msg: "TRITON_API_TOKEN environment variable is not set"}
	}
	if cfg.BaseURL == "" {
		return nil, &ConfigError{Msg: "gate API base URL is not set"}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithName("gate")
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     cfg.TLSConfig,
		TLSHandshakeTimeout: timeout,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        1,
		IdleConnTimeout:     timeout,
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		retries:    cfg.Retries,
		transport:  transport,
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		logger:     logger,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}, nil
}
