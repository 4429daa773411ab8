package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fennelpay/ledger-go/internal/constants"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// dateFlagLayout is the format accepted by --after and --before flags.
const dateFlagLayout = "2006-01-02"

// Static errors used throughout the commands package.
var (
	ErrAccessIDNotConfigured   = errors.New("access ID is not configured (use --access-id, LEDGER_ACCESS_ID or 'ledger config set access_id')")
	ErrPrivateKeyNotConfigured = errors.New("private key is not configured (use --private-key-path or 'ledger config generate-key')")
	ErrConfigKeyUnknown        = errors.New("unknown configuration key")
	ErrConfigValueRequired     = errors.New("a value is required")
	ErrAmountRequired          = errors.New("amount must be positive (use --amount)")
	ErrReceiverRequired        = errors.New("receiver account is required (use --receiver)")
	ErrBrcodeRequired          = errors.New("brcode is required (use --brcode)")
	ErrBoletoIDRequired        = errors.New("boleto id is required (use --boleto-id)")
)

// loadCredential builds a credential from the resolved CLI configuration.
func loadCredential() (*ledger.Credential, error) {
	accessID := viper.GetString("access_id")
	if accessID == "" {
		return nil, ErrAccessIDNotConfigured
	}

	privateKey := viper.GetString("private_key")

	if keyPath := viper.GetString("private_key_path"); privateKey == "" && keyPath != "" {
		data, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("reading private key: %w", err)
		}

		privateKey = string(data)
	}

	if privateKey == "" {
		return nil, ErrPrivateKeyNotConfigured
	}

	cred := &ledger.Credential{
		AccessID:    accessID,
		PrivateKey:  privateKey,
		Environment: ledger.Environment(viper.GetString("environment")),
		APIEndpoint: viper.GetString("api"),
	}

	err := cred.Validate()
	if err != nil {
		return nil, err
	}

	return cred, nil
}

// buildQuery assembles the common list filters shared by all resources.
func buildQuery(limit int, status string, tags []string, after, before string) (*ledger.Query, error) {
	query := ledger.NewQuery().WithLimit(limit)

	if status != "" {
		query.WithStatus(status)
	}

	if len(tags) > 0 {
		query.WithTags(tags...)
	}

	if after != "" {
		parsed, err := time.Parse(dateFlagLayout, after)
		if err != nil {
			return nil, fmt.Errorf("parsing --after: %w", err)
		}

		query.WithAfter(parsed)
	}

	if before != "" {
		parsed, err := time.Parse(dateFlagLayout, before)
		if err != nil {
			return nil, fmt.Errorf("parsing --before: %w", err)
		}

		query.WithBefore(parsed)
	}

	return query, nil
}

// StandardJSONRenderer writes the data as indented JSON to stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes the data as YAML to stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// renderWith dispatches on the configured output format, falling back to the
// given table renderer. Tables are only drawn on a real terminal; piped
// output gets YAML so it stays machine-readable.
func renderWith[T any](data T, table func(T) error) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(data)
	case constants.FormatYAML:
		return StandardYAMLRenderer(data)
	default:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return StandardYAMLRenderer(data)
		}

		return table(data)
	}
}

// formatTime renders a server timestamp for table output.
func formatTime(t *time.Time) string {
	if t == nil {
		return constants.NotAvailable
	}

	return t.Format("2006-01-02 15:04")
}

// formatCents renders a cent amount as a decimal string, e.g. 2500 -> 25.00.
func formatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// joinTags renders a tag list for table output.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return constants.NotAvailable
	}

	return strings.Join(tags, ", ")
}
