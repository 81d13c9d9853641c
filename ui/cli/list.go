// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/toeirei/sshkeymanager/internal/i18n"
	"github.com/toeirei/sshkeymanager/internal/model"
	"github.com/toeirei/sshkeymanager/internal/sshkey"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: i18n.T("cmd.list.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			entries, err := discover(c, logger)
			if err != nil {
				return err
			}
			rows := listRows(entries, logger)
			out := cmd.OutOrStdout()
			if isTerminal(out) {
				renderTable(out, rows)
			} else {
				renderPlain(out, rows)
			}
			return nil
		},
	}
}

// listRows builds one row per entry: scope, path, options, key type and
// fingerprint. Keys that cannot be read or parsed show "-".
func listRows(entries []model.KeyEntry, logger *clog.Logger) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		scope := e.Scope
		if e.Global() {
			scope = i18n.T("list.global")
		}
		algo, fp := "-", "-"
		content, err := afero.ReadFile(fsys, e.Path)
		if err != nil {
			logger.Warnf("cannot read %s: %v", e.Path, err)
		} else {
			if a, _, _, err := sshkey.Parse(string(content)); err == nil {
				algo = a
			}
			if f, err := sshkey.Fingerprint(string(content)); err == nil {
				fp = f
			} else {
				logger.Debugf("no fingerprint for %s: %v", e.Path, err)
			}
		}
		opts := e.Options
		if opts == "" {
			opts = "-"
		}
		rows = append(rows, []string{scope, e.Path, opts, algo, fp})
	}
	return rows
}

func listHeaders() []string {
	return []string{
		i18n.T("list.scope"),
		i18n.T("list.path"),
		i18n.T("list.options"),
		i18n.T("list.type"),
		i18n.T("list.fingerprint"),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderTable(w io.Writer, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(listHeaders()...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

// renderPlain prints tab-separated rows for pipes and scripts.
func renderPlain(w io.Writer, rows [][]string) {
	fmt.Fprintln(w, strings.Join(listHeaders(), "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
}
