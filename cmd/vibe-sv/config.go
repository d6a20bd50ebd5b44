package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-sv configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vibe-sv.yaml.",
		Example: `  vibe-sv config                                    # show all config
  vibe-sv config set bedpe.include_fields REF,ALT   # default BEDPE fields
  vibe-sv config get db.path                        # get a value`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigGetCmd(a))

	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigGet(args[0])
		},
	}
}

// knownKeys lists the settings read by vibe-sv commands, in display order.
var knownKeys = []struct {
	key   string
	usage string
}{
	{keyIncludeFields, "extra BEDPE columns (bedpe --include-fields)"},
	{keyQuality, "FASTQ base quality (contigs --quality)"},
	{keySupportedKey, "support INFO flag (validate --key)"},
	{keyDBPath, "DuckDB database (load/query --db)"},
	{keyVerbose, "debug logging (--verbose)"},
}

// runConfigShow prints every known key with its effective value and where
// the value comes from, followed by any other keys found in the config.
func (a *app) runConfigShow() error {
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(a.stdout, "# Config file: %s\n", used)
	} else {
		fmt.Fprintf(a.stdout, "# No config file. Config file: ~/.vibe-sv.yaml\n")
	}

	known := make(map[string]bool, len(knownKeys))
	for _, k := range knownKeys {
		known[k.key] = true
		fmt.Fprintf(a.stdout, "%s: %s  # %s, from %s\n", k.key, formatSetting(viper.Get(k.key)), k.usage, settingSource(k.key))
	}

	other := make(map[string]any)
	for _, key := range viper.AllKeys() {
		if !known[key] {
			other[key] = viper.Get(key)
		}
	}
	if len(other) == 0 {
		return nil
	}

	out, err := yaml.Marshal(other)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprintf(a.stdout, "# Unused keys\n%s", out)
	return nil
}

// settingSource reports whether key is set by the environment, the config
// file, or left at its default.
func settingSource(key string) string {
	env := "VIBE_SV_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if _, ok := os.LookupEnv(env); ok {
		return env
	}
	if viper.InConfig(key) {
		return "config"
	}
	return "default"
}

func formatSetting(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

func (a *app) runConfigSet(key, value string) error {
	// Parse boolean-like values
	switch value {
	case "true", "yes", "on":
		viper.Set(key, true)
	case "false", "no", "off":
		viper.Set(key, false)
	default:
		viper.Set(key, value)
	}

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".vibe-sv.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(a.stdout, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func (a *app) runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(a.stdout, val)
	return nil
}
