package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = ".dynarray"
	configFileType = "yaml"
	envPrefix      = "DYNARRAY"

	// Config keys. format and verbose mirror the global flags.
	cfgKeyFormat  = "format"
	cfgKeyVerbose = "verbose"
	cfgKeyDB      = "db"
)

// loadConfig reads configuration with viper. With an explicit path the file
// must exist; otherwise .dynarray.yaml in the working directory is read if
// present. DYNARRAY_* environment variables override file values.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyFormat, "text")
	v.SetDefault(cfgKeyVerbose, false)
	v.SetDefault(cfgKeyDB, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// applyConfig copies config values into opts for every global flag the user
// did not set explicitly, so flags win over config and config over defaults.
func applyConfig(cmd *cobra.Command, opts *RootOptions, v *viper.Viper) {
	flags := cmd.Flags()
	if !flags.Changed(cfgKeyFormat) {
		opts.Format = v.GetString(cfgKeyFormat)
	}
	if !flags.Changed(cfgKeyVerbose) {
		opts.Verbose = v.GetBool(cfgKeyVerbose)
	}
	opts.Database = v.GetString(cfgKeyDB)
}

// resolveDatabase returns the --db flag value, falling back to the
// configured database.
func resolveDatabase(flag string, opts *RootOptions) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if opts.Database != "" {
		return opts.Database, nil
	}
	return "", NewExitError(ExitCommandError, "no database: pass --db or set db in the config file")
}
