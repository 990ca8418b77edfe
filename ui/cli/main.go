// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/netplus-lab/netplus/internal/config"
	"github.com/netplus-lab/netplus/internal/db"
	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/logging"
	"github.com/netplus-lab/netplus/internal/progress"
	"github.com/netplus-lab/netplus/internal/tui"
)

// Build metadata, set with -ldflags "-X github.com/netplus-lab/netplus/ui/cli.version=...".
var (
	version   = "dev"
	gitCommit = "dev"
	buildDate = ""
)

const modulePath = "github.com/netplus-lab/netplus"

var (
	cfgFile         string
	verbose         bool
	showVersionFlag bool
)

var appConfig config.Config

// isTerminal is swapped in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.Load(cmd, optionalConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	level := appConfig.Log.Level
	if verbose {
		level = "debug"
		db.SetDebug(true)
	}
	if err := logging.SetLevel(level); err != nil {
		return err
	}

	// First run: persist the effective settings so the user has a file to edit.
	if appConfig.Source == "" {
		if wrote, werr := config.WriteConfigFile(&appConfig, false); werr != nil {
			logging.Warnf("could not write default config file: %v", werr)
		} else if wrote {
			logging.Debugf("wrote default config to user config path")
		}
	}

	i18n.Init(appConfig.Language)
	return nil
}

// openStore connects to the configured database and applies migrations.
func openStore() (*db.BunStore, error) {
	st, err := db.New(appConfig.Database.Type, appConfig.Database.Dsn)
	if err != nil {
		return nil, errors.New(i18n.T("cli.error_open_db", err))
	}
	return st, nil
}

// withTracker opens the store for the duration of fn.
func withTracker(fn func(*progress.Tracker) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(progress.New(st))
}

// Execute runs the CLI entrypoint. The main package calls this and handles
// process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

func applyDefaultFlags(cmd *cobra.Command) {
	// NewRootCmd is called repeatedly in tests; pflag panics on redefinition.
	if cmd.PersistentFlags().Lookup("database.type") == nil {
		cmd.PersistentFlags().String("database.type", "sqlite", `Database type ("sqlite", "postgres", "mysql")`)
	}
	if cmd.PersistentFlags().Lookup("database.dsn") == nil {
		cmd.PersistentFlags().String("database.dsn", "./netplus.db", "Database connection string (DSN)")
	}
}

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

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" && c != v {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// NewRootCmd creates a fresh root command. Tests build one per case.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netplus",
		Short: "NetPlus is a Network+ subnetting and troubleshooting toolkit.",
		Long: `NetPlus calculates IPv4 subnets, designs VLSM address plans, validates
network identifiers and walks through broken host configurations, keeping
score of every practice run.

Running without a subcommand launches the interactive TUI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), compositeVersion())
				os.Exit(0)
			}
			return setupDefaultServices(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return cmd.Help()
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			return tui.Run(tui.Options{
				Tracker:      progress.New(st),
				SaveLanguage: saveLanguage,
			})
		},
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging (including SQL)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Interface language ("en", "de")`)
	cmd.PersistentFlags().StringP("output", "o", "table", `Output format ("table", "json")`)
	cmd.PersistentFlags().String("log.level", "info", `Log level ("debug", "info", "warn", "error")`)
	applyDefaultFlags(cmd)

	cmd.AddCommand(
		newSubnetCmd(),
		newSplitCmd(),
		newVLSMCmd(),
		newSummarizeCmd(),
		newValidateCmd(),
		newDiagnoseCmd(),
		newTroubleshootCmd(),
		newDrillCmd(),
		newQuizScoreCmd(),
		newProgressCmd(),
		newDesignsCmd(),
		newAuditCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newMigrateCmd(),
		newDBMaintainCmd(),
		newServeCmd(),
		newVersionCmd(),
		newDebugCmd(),
	)
	return cmd
}

// saveLanguage persists a language picked in the TUI.
func saveLanguage(lang string) error {
	appConfig.Language = lang
	return config.SaveLanguage(lang, appConfig.Source)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// No config or database needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "version: %s\n", v)
			_, _ = fmt.Fprintf(out, "commit:  %s\n", c)
			if d != "" {
				_, _ = fmt.Fprintf(out, "built:   %s\n", d)
			}
		},
	}
}

// resolveBuildVersion prefers the module version from the build info, falls
// back to a dependency entry for this module and finally to the git commit.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := version
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		if resolvedVersion == "dev" || resolvedVersion == "(devel)" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && resolvedCommit != "" && resolvedCommit != "dev" {
		resolvedVersion = resolvedCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
