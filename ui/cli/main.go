// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/toeirei/sshkeymanager/buildvars"
	"github.com/toeirei/sshkeymanager/internal/config"
	"github.com/toeirei/sshkeymanager/internal/deploy"
	"github.com/toeirei/sshkeymanager/internal/i18n"
	"github.com/toeirei/sshkeymanager/internal/keys"
	"github.com/toeirei/sshkeymanager/internal/logging"
	"github.com/toeirei/sshkeymanager/internal/model"
)

// fsys is the filesystem every command works on.
var fsys afero.Fs = afero.NewOsFs()

// Execute runs the CLI. The main package handles the process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates the root command with all subcommands. Each call
// returns an independent command tree so tests can run it repeatedly.
func NewRootCmd() *cobra.Command {
	i18n.Init(os.Getenv("SSHKEYMANAGER_LANGUAGE"))

	var dryRun, showVersion bool

	cmd := &cobra.Command{
		Use:           "sshkeymanager",
		Short:         i18n.T("cmd.root.short"),
		Long:          i18n.T("cmd.root.long"),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), buildvars.String())
				return nil
			}
			return runAssemble(cmd, dryRun)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("base", "b", "~/.ssh/keys", i18n.T("flag.base"))
	pf.StringP("hostname", "H", "", i18n.T("flag.hostname"))
	pf.CountP("verbose", "v", i18n.T("flag.verbose"))
	pf.BoolP("no-backup", "n", false, i18n.T("flag.no_backup"))
	pf.StringP("output", "o", "~/.ssh/authorized_keys", i18n.T("flag.output"))
	pf.String("config", "", i18n.T("flag.config"))

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, i18n.T("flag.dry_run"))
	cmd.Flags().BoolVar(&showVersion, "version", false, i18n.T("flag.version"))

	cmd.AddCommand(newListCmd(), newConfigCmd())
	return cmd
}

// getConfigPathFromCli returns the --config value, or nil when the flag was
// not given. A given path must exist.
func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// loadConfig returns the effective configuration as written by the user,
// before ~ expansion.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	explicit, err := getConfigPathFromCli(cmd)
	if err != nil {
		return config.Config{}, err
	}
	c, err := config.LoadConfig[config.Config](cmd.Flags(), config.Defaults(), explicit)
	if err != nil {
		return c, fmt.Errorf("error loading config: %w", err)
	}
	i18n.Init(c.Language)
	return c, nil
}

// setup loads the configuration, expands the paths in it and builds the
// logger for one run.
func setup(cmd *cobra.Command) (config.Config, *clog.Logger, error) {
	c, err := loadConfig(cmd)
	if err != nil {
		return c, nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), c.Verbose)
	logger.Debugf("Log level set to %s", logging.LevelForVerbosity(c.Verbose))

	if c.Base, err = config.ExpandHome(c.Base); err != nil {
		return c, nil, err
	}
	if c.Output, err = config.ExpandHome(c.Output); err != nil {
		return c, nil, err
	}
	return c, logger, nil
}

func discover(c config.Config, logger *clog.Logger) ([]model.KeyEntry, error) {
	s := keys.NewScanner(fsys, logger)
	s.Naming = keys.Naming{KeySuffix: c.Naming.KeySuffix, OptionsSuffix: c.Naming.OptionsSuffix}
	entries, err := s.Discover(c.Base, c.Hostname)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		logger.Warn(i18n.T("msg.no_keys", c.Base))
	}
	return entries, nil
}

func runAssemble(cmd *cobra.Command, dryRun bool) error {
	c, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	entries, err := discover(c, logger)
	if err != nil {
		return err
	}
	w := keys.NewWriter(fsys, logger)

	if dryRun {
		data, err := w.Render(entries)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	p := deploy.NewPublisher(fsys, logger)
	err = p.Publish(c.Output, !c.NoBackup, func(path string) error {
		return w.WriteFile(entries, path)
	})
	if err != nil {
		var rerr *keys.KeyReadError
		if errors.As(err, &rerr) {
			return fmt.Errorf("aborted, %s left unchanged: %w", c.Output, err)
		}
		return err
	}
	logger.Info(i18n.T("msg.written", len(entries), c.Output))
	return nil
}
