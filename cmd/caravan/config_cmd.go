package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load the file given by --config, apply defaults and CARAVAN_* environment
overrides, and report the first invalid field.

Examples:
  caravan config validate --config data/caravan.yaml
  caravan config validate --config data/caravan.yaml --print`,
	RunE: validateConfig,
}

var configPrint bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)

	configValidateCmd.Flags().BoolVar(&configPrint, "print", false, "print the effective configuration")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if configPrint {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Fprint(out, string(b))
	}
	fmt.Fprintln(out, "configuration OK")
	return nil
}
