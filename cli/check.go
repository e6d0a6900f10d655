package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/faultline/faultline/pkg/codec"
	"github.com/faultline/faultline/pkg/config"
	"github.com/faultline/faultline/pkg/logger"
)

// CheckCmd validates the client configuration from the environment plus any
// explicit overrides and prints the resolved record. Deprecation warnings
// go to stderr; the record itself goes to stdout.
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print the resolved record",
		RunE:  runCheck,
	}
	addCheckFlags(cmd.Flags())
	return cmd
}

func addCheckFlags(flags *pflag.FlagSet) {
	flags.String("env-file", "", "Load environment variables from this file before validating")
	flags.StringArray("option", nil, "Explicit option override as name=value (repeatable)")
	flags.String("log-level", "info", "Diagnostic log level: debug|info|warn|error")
	flags.Bool("log-json", false, "Emit diagnostics as JSON")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return fmt.Errorf("failed to get env-file flag: %w", err)
	}
	overrides, err := cmd.Flags().GetStringArray("option")
	if err != nil {
		return fmt.Errorf("failed to get option flag: %w", err)
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return fmt.Errorf("failed to get log-json flag: %w", err)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %q: %w", envFile, err)
		}
	}

	log := logger.SetupLogger(logLevel, logJSON)
	ctx := logger.ContextWithLogger(cmd.Context(), log)

	opts, err := parseOverrides(overrides)
	if err != nil {
		return err
	}

	store := config.NewStore(nil)
	record, err := store.Load(ctx, opts)
	if err != nil {
		return err
	}

	for _, name := range record.Keys() {
		fmt.Fprintf(
			cmd.OutOrStdout(),
			"%-30s %-9s %s\n",
			name,
			record.Source(name),
			displayValue(name, record.Get(name)),
		)
	}
	return nil
}

// parseOverrides turns repeated --option name=value flags into an option
// map. Values stay strings; the validator coerces them like environment
// values.
func parseOverrides(pairs []string) (config.Options, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	opts := make(config.Options, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --option %q: expected name=value", pair)
		}
		opts[name] = value
	}
	return opts, nil
}

// displayValue renders a record value for terminal output, redacting the
// DSN secret.
func displayValue(name string, value any) string {
	if name == "dsn" {
		if s, ok := value.(string); ok && s != "" {
			if dsn, err := config.ParseDSN(s); err == nil {
				return dsn.String()
			}
		}
	}
	switch v := value.(type) {
	case nil:
		return "(unset)"
	case config.AcceptAllEnvironments:
		return "(all environments)"
	case []*regexp.Regexp:
		patterns := make([]string, len(v))
		for i, re := range v {
			patterns[i] = re.String()
		}
		return strings.Join(patterns, ", ")
	case codec.Codec:
		return fmt.Sprintf("%T", v)
	case config.Hook:
		return fmt.Sprintf("%T", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
