// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/sshkeymanager/internal/config"
	"github.com/toeirei/sshkeymanager/internal/i18n"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: i18n.T("cmd.config.short"),
		Args:  cobra.NoArgs,
	}

	var system, force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: i18n.T("cmd.config_init.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path, err := config.GetConfigPath(system)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(i18n.T("msg.config_exists", path))
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if _, err := config.WriteConfigFile(&c, system); err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("msg.config_written", path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&system, "system", false, i18n.T("flag.system"))
	initCmd.Flags().BoolVar(&force, "force", false, i18n.T("flag.force"))

	showCmd := &cobra.Command{
		Use:   "show",
		Short: i18n.T("cmd.config_show.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := config.Marshal(&c)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
