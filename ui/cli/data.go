// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/netplus-lab/netplus/internal/backup"
	"github.com/netplus-lab/netplus/internal/db"
	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/progress"
	"github.com/netplus-lab/netplus/internal/scoring"
)

// promptForConfirmation writes prompt and reads one answer line from in.
func promptForConfirmation(out io.Writer, in io.Reader, prompt string) string {
	_, _ = fmt.Fprint(out, prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer))
}

func confirmed(cmd *cobra.Command, prompt string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	answer := promptForConfirmation(cmd.OutOrStdout(), cmd.InOrStdin(), prompt+" [y/N]: ")
	return answer == "y" || answer == "yes" || answer == strings.ToLower(i18n.T("progress.yes"))
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show or reset practice progress",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show per-module statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(func(t *progress.Tracker) error {
				s, err := t.Summary(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOutput() {
					return printJSON(out, s)
				}
				tw := newTable(out)
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					i18n.T("progress.col.module"), i18n.T("progress.col.attempts"), i18n.T("progress.col.best"),
					i18n.T("progress.col.average"), i18n.T("progress.col.completed"), i18n.T("progress.col.last"))
				for _, m := range s.Modules {
					done := i18n.T("progress.no")
					if m.Completed {
						done = i18n.T("progress.yes")
					}
					_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%s\t%s\n",
						i18n.T("module."+string(m.Module)), m.Attempts, m.Best, m.Average, done, formatTime(m.LastAt))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, "\n"+i18n.T("dashboard.overall", s.Percent, s.TotalAttempts))
				return err
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset [module]",
		Short: "Delete recorded attempts for one module or all modules",
		Long: `Deletes recorded attempts. Modules: subnetting, vlsm, troubleshooting, quiz.
Without a module every attempt is removed. Saved designs are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var module model.Module
			if len(args) == 1 {
				module = model.Module(strings.ToLower(args[0]))
				if !module.Valid() {
					return fmt.Errorf("%w: %q", progress.ErrUnknownModule, args[0])
				}
			}
			if !confirmed(cmd, i18n.T("progress.confirm_reset")) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.aborted"))
				return nil
			}
			return withTracker(func(t *progress.Tracker) error {
				n, err := t.Reset(cmd.Context(), module)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("progress.reset_done", n))
				return err
			})
		},
	}
	reset.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(show, reset)
	return cmd
}

func newDesignsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "designs",
		Aliases: []string{"design"},
		Short:   "Manage saved VLSM designs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved designs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(func(t *progress.Tracker) error {
				designs, err := t.Designs(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOutput() {
					if designs == nil {
						designs = []model.Design{}
					}
					return printJSON(out, designs)
				}
				if len(designs) == 0 {
					_, err := fmt.Fprintln(out, i18n.T("cli.no_designs"))
					return err
				}
				tw := newTable(out)
				_, _ = fmt.Fprintln(tw, "ID\tNAME\tBASE\tSUBNETS\tCREATED")
				for _, d := range designs {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", d.ID, d.Name, d.Base, len(d.Plan.Allocations), formatTime(&d.CreatedAt))
				}
				return tw.Flush()
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id-or-name>",
		Short: "Print a saved design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(func(t *progress.Tracker) error {
				d, err := t.Design(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOutput() {
					return printJSON(out, d)
				}
				_, _ = fmt.Fprintf(out, "%s (%s)\n\n", d.Name, d.Base)
				return printPlan(out, d.Plan, scoring.Design(d.Plan))
			})
		},
	}

	del := &cobra.Command{
		Use:     "delete <id-or-name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved design",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(func(t *progress.Tracker) error {
				if err := t.DeleteDesign(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.design_deleted", args[0]))
				return err
			})
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			st, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			entries, err := st.AuditLog(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput() {
				if entries == nil {
					entries = []model.AuditLogEntry{}
				}
				return printJSON(out, entries)
			}
			tw := newTable(out)
			_, _ = fmt.Fprintln(tw, "TIME\tUSER\tACTION\tDETAILS")
			for _, e := range entries {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", formatTime(&e.Timestamp), e.Username, e.Action, e.Details)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int("limit", 50, "Maximum number of entries (0 for all)")
	return cmd
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Create a compressed (zstd) JSON backup of the database",
		Long: `Dumps every attempt, saved design and audit log entry into a single
Zstandard-compressed JSON file.

If an output file is specified, '.zst' is appended unless already present.
Without one, 'netplus-backup-YYYY-MM-DD.json.zst' is used.

Examples:
  netplus backup
  netplus backup before-exam.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputFile string
			if len(args) == 0 {
				outputFile = fmt.Sprintf("netplus-backup-%s.json.zst", now().Format("2006-01-02"))
			} else {
				outputFile = args[0]
				if !strings.HasSuffix(outputFile, ".zst") {
					outputFile += ".zst"
				}
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			data, err := backup.Export(cmd.Context(), st)
			if err != nil {
				return errors.New(i18n.T("backup.error_export", err))
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return errors.New(i18n.T("backup.error_write", err))
			}
			defer func() { _ = f.Close() }()
			if err := backup.Write(f, data); err != nil {
				return errors.New(i18n.T("backup.error_write", err))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("backup.success", outputFile))
			return err
		},
	}
}

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Restore data from a backup file",
		Long: `Reads a backup written by 'netplus backup'. By default the backup is merged
into the current data and designs whose name already exists are skipped.
With --full the database is wiped first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			full, _ := cmd.Flags().GetBool("full")
			f, err := os.Open(args[0])
			if err != nil {
				return errors.New(i18n.T("backup.error_read", err))
			}
			defer func() { _ = f.Close() }()
			data, err := backup.Read(f)
			if err != nil {
				return errors.New(i18n.T("backup.error_read", err))
			}
			if full && !confirmed(cmd, i18n.T("backup.confirm_full")) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.aborted"))
				return nil
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			stats, err := backup.Import(cmd.Context(), st, data, full)
			if err != nil {
				return errors.New(i18n.T("backup.error_import", err))
			}
			return printImportStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().Bool("full", false, "Wipe the database before restoring")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func printImportStats(out io.Writer, st backup.Stats) error {
	if jsonOutput() {
		return printJSON(out, st)
	}
	_, err := fmt.Fprintln(out, i18n.T("backup.restored", st.Attempts, st.Designs, st.Audit, st.Skipped))
	return err
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy all data to another database",
		Long: `Copies every attempt, design and audit entry from the configured database to
a target database, replacing the target's contents.

Example:
  netplus migrate --to.type postgres --to.dsn "postgres://netplus@localhost/netplus"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			toType, _ := cmd.Flags().GetString("to.type")
			toDSN, _ := cmd.Flags().GetString("to.dsn")
			if toDSN == "" {
				return errors.New(i18n.T("cli.migrate_target"))
			}
			if toType == appConfig.Database.Type && toDSN == appConfig.Database.Dsn {
				return errors.New(i18n.T("cli.migrate_same"))
			}

			src, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = src.Close() }()
			dst, err := db.New(toType, toDSN)
			if err != nil {
				return errors.New(i18n.T("cli.error_open_db", err))
			}
			defer func() { _ = dst.Close() }()

			stats, err := backup.Migrate(cmd.Context(), src, dst)
			if err != nil {
				return err
			}
			return printImportStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().String("to.type", "sqlite", `Target database type ("sqlite", "postgres", "mysql")`)
	cmd.Flags().String("to.dsn", "", "Target database DSN")
	return cmd
}

func newDBMaintainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db-maintain",
		Short: "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
		Long:  `Runs engine-specific maintenance tasks (integrity check, VACUUM, ANALYZE, OPTIMIZE TABLE).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skipIntegrity, _ := cmd.Flags().GetBool("skip-integrity")
			timeoutSec, _ := cmd.Flags().GetInt("timeout")
			out := cmd.OutOrStdout()
			if skipIntegrity {
				_, _ = fmt.Fprintln(out, i18n.T("cli.maintain_skip_integrity"))
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeoutSec > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
				defer cancel()
			}
			if err := db.Maintain(ctx, appConfig.Database.Type, appConfig.Database.Dsn, skipIntegrity); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return errors.New(i18n.T("cli.maintain_timeout"))
				}
				return errors.New(i18n.T("cli.maintain_failed", err))
			}
			_, err := fmt.Fprintln(out, i18n.T("cli.maintain_done"))
			return err
		},
	}
	cmd.Flags().Bool("skip-integrity", false, "Skip the integrity check")
	cmd.Flags().Int("timeout", 0, "Abort after this many seconds (0 for no limit)")
	return cmd
}
