package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"image-cropper/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Manage the batchcrop configuration.

Config file: ~/.image-cropper/config.yaml

Subcommands:
  show    print the effective configuration
  init    write a default config file
  path    print the config file path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := configLoader()
		if err != nil {
			return err
		}
		cfg, err := loader.Load()
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), loader, cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := configLoader()
		if err != nil {
			return err
		}
		if configForce {
			err = loader.Save(config.DefaultConfig())
		} else {
			err = loader.Init()
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", loader.ConfigPath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := configLoader()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func configLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	return config.NewLoader()
}

func showConfig(out io.Writer, loader *config.Loader, cfg *config.Config) error {
	if loader.Exists() {
		fmt.Fprintf(out, "Config file: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(out, "Config file: (defaults)\n\n")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(out, string(data))

	fmt.Fprintln(out, "Environment:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, key := range []string{config.EnvBackend, config.EnvOutputDir} {
		value := os.Getenv(key)
		if value == "" {
			value = "(unset)"
		}
		fmt.Fprintf(w, "  %s\t%s\n", key, value)
	}
	return w.Flush()
}
