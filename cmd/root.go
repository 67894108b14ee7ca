package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/KostasZigo/gitodb/internal/config"
	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/errdefs"
	"github.com/KostasZigo/gitodb/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd defines the base command for the gitodb CLI.
// All subcommands (init, hash-object, cat-file, ls-tree) register under this root.
var rootCmd = &cobra.Command{
	Use:   constants.AppName,
	Short: "A content-addressable object database in the git on-disk format",
	Long: `gitodb stores and retrieves blob and tree objects in a git compatible
loose object database. Objects are addressed by the SHA-1 of their canonical
encoding and stored zlib compressed under .git/objects.`,
	SilenceUsage: true,
	Args:         unknownCommand,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// configErr holds a failure to read an explicitly requested config file.
// It is reported by the first command that loads its settings.
var configErr error

// Execute runs the root command and exits with the code of the failure kind.
// Called from main.go to start CLI execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(errdefs.ExitCode(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/gitodb/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", logger.DefaultLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("work-dir", "C", "", "run as if started in `dir`")

	viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(config.KeyWorkDir, rootCmd.PersistentFlags().Lookup("work-dir"))

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errdefs.ErrUsage, err)
	})
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(config.Dir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("failed to read config %s: %w", viper.ConfigFileUsed(), err)
		}
	}
}

// unknownCommand rejects positional arguments on the root command, which
// cobra would otherwise treat as a mistyped subcommand name.
func unknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w %q for %q", errdefs.ErrUnknownCommand, args[0], cmd.CommandPath())
	}
	return nil
}
