// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/netplus-lab/netplus/internal/config"
	"github.com/netplus-lab/netplus/internal/logging"
)

// redactDSN hides the password of URL-style DSNs.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Dump debug information about config, env and flags",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "--- NETPLUS DEBUG ---")
			used := appConfig.Source
			if used == "" {
				used = "(none)"
			}
			_, _ = fmt.Fprintf(out, "Config file used: %s\n", used)
			if p, err := config.GetConfigPath(false); err == nil {
				_, _ = fmt.Fprintf(out, "User config path: %s\n", p)
			}

			shown := appConfig
			shown.Database.Dsn = redactDSN(shown.Database.Dsn)
			b, err := json.MarshalIndent(shown, "", "  ")
			if err != nil {
				logging.Errorf("could not marshal settings: %v", err)
			} else {
				_, _ = fmt.Fprintln(out, "-- effective settings --")
				_, _ = fmt.Fprintln(out, string(b))
			}

			_, _ = fmt.Fprintln(out, "-- flags --")
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				_, _ = fmt.Fprintf(out, "%s = %s\n", f.Name, f.Value.String())
			})

			_, _ = fmt.Fprintf(out, "-- environment (%s_*) --\n", config.EnvPrefix)
			for _, e := range os.Environ() {
				if strings.HasPrefix(e, config.EnvPrefix+"_") {
					_, _ = fmt.Fprintln(out, e)
				}
			}
			_, _ = fmt.Fprintln(out, "--- END DEBUG ---")
		},
	}
}
