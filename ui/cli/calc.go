// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/progress"
	"github.com/netplus-lab/netplus/internal/report"
	"github.com/netplus-lab/netplus/internal/scoring"
	"github.com/netplus-lab/netplus/internal/validation"
)

// parsePrefixArgs accepts "a.b.c.d/n", "a.b.c.d mask" or a bare address,
// which gets its classful default prefix.
func parsePrefixArgs(args []string) (netcalc.Prefix, error) {
	if len(args) == 1 && strings.Contains(args[0], "/") {
		return netcalc.ParsePrefix(args[0])
	}
	a, err := netcalc.ParseAddr(args[0])
	if err != nil {
		return netcalc.Prefix{}, err
	}
	if len(args) == 1 {
		return netcalc.Prefix{Addr: a, Bits: netcalc.DefaultBits(a)}, nil
	}
	bits, err := netcalc.ParseMask(args[1])
	if err != nil {
		return netcalc.Prefix{}, err
	}
	return netcalc.Prefix{Addr: a, Bits: bits}, nil
}

func subnetPairs(s netcalc.Subnet) [][2]string {
	return [][2]string{
		{i18n.T("subnet.network"), s.CIDR},
		{i18n.T("subnet.netmask"), s.Mask.String()},
		{i18n.T("subnet.wildcard"), s.Wildcard.String()},
		{i18n.T("subnet.broadcast"), s.Broadcast.String()},
		{i18n.T("subnet.host_range"), fmt.Sprintf("%s - %s", s.FirstHost, s.LastHost)},
		{i18n.T("subnet.total"), fmt.Sprint(s.TotalAddresses)},
		{i18n.T("subnet.usable"), fmt.Sprint(s.UsableHosts)},
		{i18n.T("subnet.class"), fmt.Sprintf("%s (%s)", s.Class, s.Scope)},
	}
}

func newSubnetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subnet <address[/prefix]> [mask]",
		Short: "Calculate network, broadcast and host range of an IPv4 subnet",
		Long: `Calculates the subnet an IPv4 address belongs to. The prefix may be given
in CIDR notation, as a dotted mask or as "/n" in the second argument. A bare
address uses its classful default prefix.

Examples:
  netplus subnet 192.168.10.77/26
  netplus subnet 10.1.2.3 255.255.240.0
  netplus subnet 172.16.0.1 --binary`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePrefixArgs(args)
			if err != nil {
				return err
			}
			s := netcalc.Calculate(p)
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return printJSON(out, s)
			}
			pairs := subnetPairs(s)
			if binary, _ := cmd.Flags().GetBool("binary"); binary {
				pairs = append(pairs,
					[2]string{i18n.T("subnet.address_bin"), p.Addr.Binary()},
					[2]string{i18n.T("subnet.mask_bin"), s.Mask.Binary()},
				)
			}
			return printPairs(out, pairs)
		},
	}
	cmd.Flags().Bool("binary", false, "Also print address and mask in binary")
	return cmd
}

func printSubnets(out io.Writer, subnets []netcalc.Subnet) error {
	if jsonOutput() {
		return printJSON(out, subnets)
	}
	tw := newTable(out)
	_, _ = fmt.Fprintf(tw, "#\t%s\t%s\t%s\t%s\n",
		i18n.T("vlsm.col.subnet"), i18n.T("vlsm.col.range"), i18n.T("subnet.broadcast"), i18n.T("vlsm.col.usable"))
	for i, s := range subnets {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s - %s\t%s\t%d\n", i+1, s.CIDR, s.FirstHost, s.LastHost, s.Broadcast, s.UsableHosts)
	}
	return tw.Flush()
}

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <network/prefix>",
		Short: "Split a network into equal subnets",
		Long: `Splits a network either into subnets of a given prefix length (--prefix) or
into at least N equal subnets (--count).

Examples:
  netplus split 192.168.0.0/24 --count 6
  netplus split 10.0.0.0/16 --prefix 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := netcalc.ParsePrefix(args[0])
			if err != nil {
				return err
			}
			count, _ := cmd.Flags().GetInt("count")
			bits, _ := cmd.Flags().GetInt("prefix")
			var subnets []netcalc.Subnet
			switch {
			case count > 0 && bits > 0:
				return errors.New(i18n.T("cli.split_flags_exclusive"))
			case count > 0:
				subnets, err = netcalc.SplitCount(p, count)
			case bits > 0:
				subnets, err = netcalc.Split(p, bits)
			default:
				return errors.New(i18n.T("cli.split_flags_required"))
			}
			if err != nil {
				return err
			}
			return printSubnets(cmd.OutOrStdout(), subnets)
		},
	}
	cmd.Flags().Int("count", 0, "Minimum number of subnets")
	cmd.Flags().Int("prefix", 0, "Prefix length of each subnet")
	return cmd
}

// vlsmFile is the on-disk form of a VLSM request.
type vlsmFile struct {
	Base         string                `yaml:"base"`
	Requirements []netcalc.Requirement `yaml:"requirements"`
}

func readVLSMFile(path string) (vlsmFile, error) {
	var f vlsmFile
	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// vlsmResult is the JSON output of the vlsm command.
type vlsmResult struct {
	Plan   netcalc.Plan         `json:"plan"`
	Score  scoring.DesignResult `json:"score"`
	Design *model.Design        `json:"design,omitempty"`
}

func printPlan(out io.Writer, p netcalc.Plan, score scoring.DesignResult) error {
	if err := report.WritePlan(out, p); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, i18n.T("vlsm.summary",
		strconv.FormatFloat(p.Utilization, 'f', 1, 64)+"%",
		strconv.FormatFloat(score.Efficiency, 'f', 1, 64)+"%",
		score.Grade))
	return nil
}

func newVLSMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vlsm [base-network] [name:hosts,...]",
		Short: "Design a variable-length subnet plan",
		Long: `Allocates one subnet per requirement out of a base network, largest first.
Requirements are "name:hosts" pairs separated by commas, or a YAML file:

  base: 192.168.1.0/24
  requirements:
    - name: sales
      hosts: 50
    - name: wan
      hosts: 2

With --save NAME the plan is stored and the design is scored as a VLSM
practice attempt.

Examples:
  netplus vlsm 192.168.1.0/24 sales:50,it:20,wan:2
  netplus vlsm --file plan.yaml --save branch-office`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			var (
				baseText string
				reqs     []netcalc.Requirement
				err      error
			)
			switch {
			case file != "":
				f, ferr := readVLSMFile(file)
				if ferr != nil {
					return ferr
				}
				baseText, reqs = f.Base, f.Requirements
				if len(args) > 0 {
					baseText = args[0]
				}
			case len(args) == 2:
				baseText = args[0]
				if reqs, err = netcalc.ParseRequirements(args[1]); err != nil {
					return err
				}
			default:
				return errors.New(i18n.T("cli.vlsm_args"))
			}
			base, err := netcalc.ParsePrefix(baseText)
			if err != nil {
				return err
			}
			plan, err := netcalc.AllocateVLSM(base, reqs)
			if err != nil {
				return err
			}
			res := vlsmResult{Plan: plan, Score: scoring.Design(plan)}

			if name, _ := cmd.Flags().GetString("save"); name != "" {
				err := withTracker(func(t *progress.Tracker) error {
					d, err := t.SaveDesign(cmd.Context(), name, plan)
					if err != nil {
						return err
					}
					res.Design = &d
					_, err = t.Record(cmd.Context(), model.Attempt{Module: model.ModuleVLSM, ScenarioID: d.ID, Score: res.Score.Score})
					return err
				})
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return printJSON(out, res)
			}
			if err := printPlan(out, plan, res.Score); err != nil {
				return err
			}
			if res.Design != nil {
				_, _ = fmt.Fprintln(out, i18n.T("vlsm.saved", res.Design.Name))
			}
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "Read base network and requirements from a YAML file")
	cmd.Flags().String("save", "", "Save the plan under this name and record the attempt")
	return cmd
}

func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <prefix>...",
		Short: "Find the smallest prefix covering all given networks",
		Long: `Computes the route summary (supernet) of the given prefixes.

Example:
  netplus summarize 10.1.4.0/24 10.1.5.0/24 10.1.6.0/24 10.1.7.0/24`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefixes := make([]netcalc.Prefix, 0, len(args))
			for _, a := range args {
				p, err := netcalc.ParsePrefix(a)
				if err != nil {
					return err
				}
				prefixes = append(prefixes, p)
			}
			sum, err := netcalc.Summarize(prefixes)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return printJSON(out, map[string]any{"summary": sum, "subnet": netcalc.Calculate(sum)})
			}
			_, err = fmt.Fprintln(out, sum.String())
			return err
		},
	}
}

// validateResult is one validated value.
type validateResult struct {
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func validateOne(kind, value string) validateResult {
	r := validateResult{Kind: kind, Value: value, Valid: true}
	if err := validation.ByKind(kind, value); err != nil {
		r.Valid = false
		r.Message = err.Error()
		var ve *validation.Error
		if errors.As(err, &ve) {
			r.Code, r.Message = ve.Code, ve.Message()
		}
	}
	return r
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <kind> <value>...",
		Short: "Validate network identifiers",
		Long: `Checks values against one validator. Kinds: ` + strings.Join(validation.Kinds(), ", ") + `.
The command exits non-zero when any value is invalid.

Examples:
  netplus validate ipv4 192.168.1.300
  netplus validate mac 00:1A:2B:3C:4D:5E
  netplus validate vlan 1 4095`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(args[0])
			results := make([]validateResult, 0, len(args)-1)
			invalid := 0
			if !slices.Contains(validation.Kinds(), kind) {
				return validation.ByKind(kind, "")
			}
			for _, v := range args[1:] {
				r := validateOne(kind, v)
				if !r.Valid {
					invalid++
				}
				results = append(results, r)
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				if err := printJSON(out, results); err != nil {
					return err
				}
			} else {
				tw := newTable(out)
				for _, r := range results {
					verdict := i18n.T("validator.valid")
					if !r.Valid {
						verdict = r.Message
					}
					_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.Value, verdict)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			if invalid > 0 {
				return errors.New(i18n.T("cli.validate_failed", invalid))
			}
			return nil
		},
	}
	return cmd
}

// recordAttempt stores a scored attempt. Failures are reported but do not
// fail the practice run itself.
func recordAttempt(ctx context.Context, out io.Writer, a model.Attempt) {
	err := withTracker(func(t *progress.Tracker) error {
		_, err := t.Record(ctx, a)
		return err
	})
	if err != nil {
		_, _ = fmt.Fprintln(out, i18n.T("cli.record_failed", err))
	}
}
