package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type GitHub struct {
	// Token The personal access token used to authenticate against the GitHub
	// API. All requests are made on behalf of this token.
	Token string `envconfig:"GITHUB_TOKEN"`

	// Organization The login of the GitHub organization that memberships are
	// managed in.
	//
	// Example: `FredHutch`
	Organization string `envconfig:"GITHUB_ORG"`

	// APIURL Base URL of the GitHub REST API. Only changed when pointing the
	// service at a test server or a GitHub Enterprise instance.
	APIURL string `envconfig:"GITHUB_API_URL"`

	// PageDelay The pause between consecutive page fetches when walking
	// paginated list responses. Exists to stay under the shared API rate
	// limit.
	PageDelay time.Duration `envconfig:"GITHUB_PAGE_DELAY"`
}

type Compliance struct {
	// IssueRepo The `owner/name` of the repository that full-name nag issues
	// are filed in. When empty, the compliance sweep only reports usernames
	// and never files issues.
	IssueRepo string `envconfig:"ORGMANAGER_COMPLIANCE_REPO"`
}

type Config struct {
	GitHub     GitHub
	Compliance Compliance

	// ApprovedIPs The caller IP addresses that are allowed to invoke the
	// mutating endpoints (invite and remove). Requests from any other address
	// are rejected.
	ApprovedIPs []string `envconfig:"ORGMANAGER_APPROVED_IPS"`

	// ProtectedTeam The name of the team whose membership is synchronized by
	// an external webhook. Offboarding never removes users from this team.
	ProtectedTeam string `envconfig:"ORGMANAGER_PROTECTED_TEAM"`

	// ListenAddress The host:port combination used by the http server.
	//
	// Example: `127.0.0.1:3000`
	ListenAddress string `envconfig:"ORGMANAGER_LISTEN_ADDRESS"`

	// LogFormat Customize the log format. Can be "text" or "json".
	LogFormat string `envconfig:"ORGMANAGER_LOG_FORMAT"`

	// LogLevel The log level used by the service.
	LogLevel string `envconfig:"ORGMANAGER_LOG_LEVEL"`
}

func Defaults() *Config {
	return &Config{
		GitHub: GitHub{
			APIURL:    "https://api.github.com",
			PageDelay: 300 * time.Millisecond,
		},
		ProtectedTeam: "AllFredHutch",
		ListenAddress: "127.0.0.1:3000",
		LogFormat:     "text",
		LogLevel:      "info",
	}
}

// New Populate the configuration from the environment on top of the defaults.
func New() (*Config, error) {
	cfg := Defaults()

	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate Make sure the configuration required to reach the GitHub API is
// present. The process must not start without it.
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("GITHUB_TOKEN not set")
	}

	if c.GitHub.Organization == "" {
		return fmt.Errorf("GITHUB_ORG not set")
	}

	return nil
}
