package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fennelpay/ledger-go/internal/auth"
	"github.com/fennelpay/ledger-go/internal/constants"
)

// Config is the CLI configuration persisted to the config file.
type Config struct {
	AccessID       string `json:"access_id,omitempty"        yaml:"access_id,omitempty"`
	PrivateKey     string `json:"private_key,omitempty"      yaml:"private_key,omitempty"`
	PrivateKeyPath string `json:"private_key_path,omitempty" yaml:"private_key_path,omitempty"`
	Environment    string `json:"environment,omitempty"      yaml:"environment,omitempty"`
	API            string `json:"api,omitempty"              yaml:"api,omitempty"`
	Output         string `json:"output,omitempty"           yaml:"output,omitempty"`
}

// configKeys lists the keys 'config set' accepts.
var configKeys = []string{"access_id", "private_key", "private_key_path", "environment", "api", "output"}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage ledger CLI configuration including credentials and output settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigGenerateKeyCommand())

	return cmd
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Print a single resolved configuration value (secrets are masked)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !validConfigKey(key) {
				return fmt.Errorf("%w: %q (expected one of %s)",
					ErrConfigKeyUnknown, key, strings.Join(configKeys, ", "))
			}

			value := viper.GetString(key)
			if key == "private_key" && value != "" {
				value = constants.MaskedSecret
			}

			fmt.Fprintln(os.Stdout, orNotAvailable(value))

			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the resolved CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := currentConfig()
			if config.PrivateKey != "" {
				config.PrivateKey = constants.MaskedSecret
			}

			return renderWith(config, func(config Config) error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Key", "Value")
				_ = table.Append("access_id", orNotAvailable(config.AccessID))
				_ = table.Append("private_key", orNotAvailable(config.PrivateKey))
				_ = table.Append("private_key_path", orNotAvailable(config.PrivateKeyPath))
				_ = table.Append("environment", orNotAvailable(config.Environment))
				_ = table.Append("api", orNotAvailable(config.API))
				_ = table.Append("output", orNotAvailable(config.Output))

				if err := table.Render(); err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				return nil
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY [VALUE]",
		Short: "Set a configuration value",
		Long: `Set a configuration value and persist it to the config file.

Setting private_key without a value reads the PEM from the terminal without
echoing it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !validConfigKey(key) {
				return fmt.Errorf("%w: %q (expected one of %s)",
					ErrConfigKeyUnknown, key, strings.Join(configKeys, ", "))
			}

			var value string

			switch {
			case len(args) == 2:
				value = args[1]
			case key == "private_key" && term.IsTerminal(int(syscall.Stdin)):
				fmt.Fprint(os.Stderr, "Private key PEM (input hidden, end with Enter): ")

				data, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Fprintln(os.Stderr)

				if err != nil {
					return fmt.Errorf("reading private key: %w", err)
				}

				value = string(data)
			default:
				return fmt.Errorf("%w for %q", ErrConfigValueRequired, key)
			}

			config := currentConfig()
			config.set(key, value)

			path, err := persistConfig(config)
			if err != nil {
				return err
			}

			viper.Set(key, value)
			fmt.Fprintf(os.Stdout, "Set %s in %s\n", key, path)

			return nil
		},
	}
}

func newConfigGenerateKeyCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "generate-key",
		Short: "Generate a signing key",
		Long: `Generate a new secp256k1 private key, write it to disk and point the
configuration at it. Register the matching public key with the API before
signing requests with it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pemKey, err := auth.GeneratePrivateKeyPEM()
			if err != nil {
				return fmt.Errorf("generating key: %w", err)
			}

			if outPath == "" {
				dir, err := configDir()
				if err != nil {
					return err
				}

				outPath = filepath.Join(dir, "private-key.pem")
			}

			err = os.WriteFile(outPath, []byte(pemKey), constants.KeyFilePerm)
			if err != nil {
				return fmt.Errorf("writing key file: %w", err)
			}

			config := currentConfig()
			config.PrivateKeyPath = outPath

			path, err := persistConfig(config)
			if err != nil {
				return err
			}

			viper.Set("private_key_path", outPath)
			fmt.Fprintf(os.Stdout, "Wrote private key to %s and updated %s\n", outPath, path)

			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "where to write the key (default is the config directory)")

	return cmd
}

// currentConfig snapshots the resolved configuration from viper.
func currentConfig() Config {
	return Config{
		AccessID:       viper.GetString("access_id"),
		PrivateKey:     viper.GetString("private_key"),
		PrivateKeyPath: viper.GetString("private_key_path"),
		Environment:    viper.GetString("environment"),
		API:            viper.GetString("api"),
		Output:         viper.GetString("output"),
	}
}

func (c *Config) set(key, value string) {
	switch key {
	case "access_id":
		c.AccessID = value
	case "private_key":
		c.PrivateKey = value
	case "private_key_path":
		c.PrivateKeyPath = value
	case "environment":
		c.Environment = value
	case "api":
		c.API = value
	case "output":
		c.Output = value
	}
}

func validConfigKey(key string) bool {
	for _, known := range configKeys {
		if key == known {
			return true
		}
	}

	return false
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	dir := filepath.Join(home, ".config", "ledger")

	err = os.MkdirAll(dir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return dir, nil
}

// persistConfig writes the configuration to the active config file.
func persistConfig(config Config) (string, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return "", err
		}

		path = filepath.Join(dir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	return path, nil
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
