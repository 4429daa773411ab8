package ledger

import (
	"fmt"
	"strings"

	"github.com/fennelpay/ledger-go/internal/auth"
)

// Environment selects the API deployment a credential talks to.
type Environment string

const (
	// EnvironmentProduction targets the live ledger.
	EnvironmentProduction Environment = "production"

	// EnvironmentSandbox targets the isolated test ledger.
	EnvironmentSandbox Environment = "sandbox"
)

// BaseURL returns the API root for the environment.
func (e Environment) BaseURL() (string, error) {
	switch e {
	case EnvironmentProduction:
		return "https://api.fennelpay.com", nil
	case EnvironmentSandbox:
		return "https://sandbox.api.fennelpay.com", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, string(e))
	}
}

// Credential holds the identity and signing key used to authenticate
// requests. It is immutable once constructed: pass it explicitly per call or
// install it once via SetDefaultCredential before any call.
type Credential struct {
	// AccessID is the identity token sent with every request.
	AccessID string `yaml:"access_id"`

	// PrivateKey is the secp256k1 signing key in SEC 1 PEM form. It never
	// leaves the process; only signatures derived from it are sent.
	PrivateKey string `yaml:"private_key"`

	// Environment resolves the API base URL.
	Environment Environment `yaml:"environment"`

	// APIEndpoint overrides the environment's base URL when set. Intended for
	// tests and private deployments; normalized like the environment URLs
	// (trailing slash trimmed, https:// assumed when no scheme is given).
	APIEndpoint string `yaml:"api_endpoint,omitempty"`
}

// NewCredential validates the inputs and returns a ready credential. A
// malformed private key is a *ConfigError, surfaced here rather than on the
// first request.
func NewCredential(accessID, privateKeyPEM string, environment Environment) (*Credential, error) {
	cred := &Credential{
		AccessID:    accessID,
		PrivateKey:  privateKeyPEM,
		Environment: environment,
	}

	err := cred.Validate()
	if err != nil {
		return nil, err
	}

	return cred, nil
}

// Validate checks the credential without touching the network.
func (c *Credential) Validate() error {
	if c.AccessID == "" {
		return &ConfigError{Reason: "access ID", Err: ErrAccessIDRequired}
	}

	if c.PrivateKey == "" {
		return &ConfigError{Reason: "private key", Err: ErrPrivateKeyRequired}
	}

	_, err := auth.ParsePrivateKey(c.PrivateKey)
	if err != nil {
		return &ConfigError{Reason: "private key", Err: err}
	}

	if c.APIEndpoint == "" {
		_, err = c.Environment.BaseURL()
		if err != nil {
			return &ConfigError{Reason: "environment", Err: err}
		}
	}

	return nil
}

// BaseURL resolves the API root for this credential.
func (c *Credential) BaseURL() (string, error) {
	if c.APIEndpoint != "" {
		endpoint := strings.TrimSuffix(c.APIEndpoint, "/")
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}

		return endpoint, nil
	}

	return c.Environment.BaseURL()
}
