package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SaaSy-Solutions/statemock/pkg/logging"
)

type validateFlags struct {
	configPaths []string
	verbose     bool
}

var validateFlagVals validateFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration files without starting the server",
	Long: `Validate configuration files without starting the server.

This command checks:
  - YAML/JSON syntax
  - Schema validation (required fields, valid values)
  - State machine consistency (every reachable state has a response)

Lint warnings (shadowed transitions, unreachable states, responses for
states no transition produces) are printed but do not fail validation.`,
	Example: `  # Validate a single file
  statemock validate -c mocks.yaml

  # Validate a directory of configs
  statemock validate -c ./mocks/ --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(&validateFlagVals)
	},
}

func initValidateFlags() {
	f := &validateFlagVals
	validateCmd.Flags().StringSliceVarP(&f.configPaths, "config", "c", nil, "Config file, directory, or glob (repeatable)")
	validateCmd.Flags().BoolVar(&f.verbose, "verbose", false, "Show detailed validation information")
}

func runValidate(f *validateFlags) error {
	if len(f.configPaths) == 0 {
		return fmt.Errorf("no configuration specified, use --config")
	}

	collection, err := loadConfigPaths(f.configPaths, logging.Nop())
	if err != nil {
		return err
	}

	if err := collection.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	warnings := collection.Warnings()
	for _, w := range warnings {
		fmt.Printf("warning: %s: %s\n", w.Path, w.Message)
	}

	if f.verbose {
		fmt.Printf("mocks: %d\n", len(collection.Mocks))
		fmt.Printf("folders: %d\n", len(collection.Folders))
		fmt.Printf("stateful endpoints: %d\n", len(collection.Stateful))
	}
	fmt.Printf("configuration valid (%d warning(s))\n", len(warnings))
	return nil
}
