// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/report"
	"github.com/netplus-lab/netplus/internal/scoring"
	"github.com/netplus-lab/netplus/internal/troubleshoot"
)

// now is swapped in tests.
var now = time.Now

// diagnoseResult is the JSON output of the diagnose command.
type diagnoseResult struct {
	Healthy  bool                   `json:"healthy"`
	Primary  troubleshoot.Issue     `json:"primary"`
	Findings []troubleshoot.Finding `json:"findings"`
}

func newDiagnoseCmd() *cobra.Command {
	var h troubleshoot.HostConfig
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Check a host's IPv4 configuration for common faults",
		Long: `Runs the troubleshooting checks against one host configuration and lists
every finding, most fundamental first.

Example:
  netplus diagnose --ip 192.168.1.64 --mask /26 --gateway 192.168.1.65 --dns 1.1.1.1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			findings := troubleshoot.Diagnose(h)
			res := diagnoseResult{
				Healthy:  len(findings) == 0,
				Primary:  troubleshoot.Primary(findings),
				Findings: findings,
			}
			if res.Findings == nil {
				res.Findings = []troubleshoot.Finding{}
			}
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return printJSON(out, res)
			}
			if res.Healthy {
				_, err := fmt.Fprintln(out, i18n.T("cli.diagnose_healthy"))
				return err
			}
			tw := newTable(out)
			for _, f := range findings {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Severity, i18n.T(f.Issue.MessageID()), f.Value)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&h.IP, "ip", "", "Host IPv4 address")
	cmd.Flags().StringVar(&h.Mask, "mask", "", `Subnet mask ("255.255.255.0", "/24" or "24")`)
	cmd.Flags().StringVar(&h.Gateway, "gateway", "", "Default gateway")
	cmd.Flags().StringSliceVar(&h.DNS, "dns", nil, "DNS servers")
	cmd.Flags().BoolVar(&h.DHCP, "dhcp", false, "Address was expected from DHCP")
	cmd.Flags().StringSliceVar(&h.Peers, "peer", nil, "Other addresses on the segment")
	return cmd
}

func newTroubleshootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "troubleshoot",
		Short: "Practice diagnosing broken host configurations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios := troubleshoot.Scenarios()
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return printJSON(out, scenarios)
			}
			tw := newTable(out)
			_, _ = fmt.Fprintln(tw, "ID\tLEVEL\tTITLE")
			for _, s := range scenarios {
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", s.ID, s.Difficulty, i18n.T(s.TitleID))
			}
			return tw.Flush()
		},
	}

	play := &cobra.Command{
		Use:   "play [scenario-id]",
		Short: "Work through one scenario interactively",
		Long: `Shows a broken host configuration and asks which issue causes the fault.
Answer with the issue number or name. Type "hint" for a hint (-10 points)
or "quit" to give up. Wrong answers cost 5 points; finishing within two
minutes earns a time bonus. The result is recorded in your progress.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc troubleshoot.Scenario
			if len(args) == 1 {
				s, err := troubleshoot.Lookup(args[0])
				if err != nil {
					return err
				}
				sc = s
			} else {
				all := troubleshoot.Scenarios()
				sc = all[rand.IntN(len(all))]
			}
			return playScenario(cmd, sc)
		},
	}

	cmd.AddCommand(list, play)
	return cmd
}

func playScenario(cmd *cobra.Command, sc troubleshoot.Scenario) error {
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	issues := troubleshoot.Issues()
	s := troubleshoot.NewSession(sc, now)

	_, _ = fmt.Fprintln(out, i18n.T(sc.TitleID))
	_, _ = fmt.Fprintln(out)
	_ = printPairs(out, report.HostRows(sc.Host))
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, i18n.T("troubleshoot.question"))
	for i, is := range issues {
		_, _ = fmt.Fprintf(out, "  %2d) %s\n", i+1, i18n.T(is.MessageID()))
	}

	for !s.Closed() {
		_, _ = fmt.Fprint(out, "> ")
		if !in.Scan() {
			break
		}
		line := strings.ToLower(strings.TrimSpace(in.Text()))
		switch line {
		case "":
			continue
		case "q", "quit":
			s.Finish()
			continue
		case "h", "hint":
			if h, ok := s.Hint(); ok {
				_, _ = fmt.Fprintln(out, "  "+i18n.T(h))
			} else {
				_, _ = fmt.Fprintln(out, "  "+i18n.T("troubleshoot.no_more_hints"))
			}
			continue
		}
		choice, ok := parseIssueChoice(line, issues)
		if !ok {
			_, _ = fmt.Fprintln(out, "  "+i18n.T("cli.unknown_choice", line))
			continue
		}
		correct, err := s.Answer(choice)
		if err != nil {
			return err
		}
		if correct {
			_, _ = fmt.Fprintln(out, i18n.T("troubleshoot.correct"))
		} else {
			_, _ = fmt.Fprintln(out, i18n.T("troubleshoot.wrong"))
		}
	}
	if err := in.Err(); err != nil {
		return err
	}

	res := s.Finish()
	_, _ = fmt.Fprintln(out, i18n.T("troubleshoot.result", res.Score, res.Grade, res.TimeBonus, res.Penalty))
	if !s.Solved() {
		_, _ = fmt.Fprintln(out, i18n.T("troubleshoot.answer_was", i18n.T(sc.Expected.MessageID())))
	}
	a := s.Attempt()
	recordAttempt(cmd.Context(), out, model.Attempt{
		Module:       model.ModuleTroubleshooting,
		ScenarioID:   sc.ID,
		Score:        res.Score,
		Hints:        a.Hints,
		WrongAnswers: a.WrongAnswers,
		DurationMs:   a.Elapsed.Milliseconds(),
	})
	return nil
}

func parseIssueChoice(s string, issues []troubleshoot.Issue) (troubleshoot.Issue, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(issues) {
			return "", false
		}
		return issues[n-1], true
	}
	for _, is := range issues {
		if string(is) == s {
			return is, true
		}
	}
	return "", false
}

// drillQuestion is one randomly generated subnetting exercise.
type drillQuestion struct {
	Host   netcalc.Prefix
	Subnet netcalc.Subnet
}

func newDrillQuestion(r *rand.Rand) drillQuestion {
	// Private ranges only, so every answer is a sensible LAN design.
	var a netcalc.Addr
	switch r.IntN(3) {
	case 0:
		a = netcalc.Addr(10<<24 | r.Uint32N(1<<24))
	case 1:
		a = netcalc.Addr(172<<24 | 16<<16 | r.Uint32N(1<<20))
	default:
		a = netcalc.Addr(192<<24 | 168<<16 | r.Uint32N(1<<16))
	}
	p := netcalc.Prefix{Addr: a, Bits: 16 + r.IntN(15)}
	return drillQuestion{Host: p, Subnet: netcalc.Calculate(p)}
}

func newDrillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Answer random subnetting questions",
		Long: `Asks for the network address, broadcast address and usable host count of
random private addresses. The share of correct answers is recorded as a
subnetting attempt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rounds, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetUint64("seed")
			if rounds < 1 {
				return errors.New(i18n.T("cli.drill_count"))
			}
			if seed == 0 {
				seed = uint64(now().UnixNano())
			}
			r := rand.New(rand.NewPCG(seed, seed>>1))
			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			started := now()

			correct, total := 0, 0
			ask := func(label, want string) bool {
				_, _ = fmt.Fprintf(out, "  %s? ", label)
				if !in.Scan() {
					return false
				}
				total++
				if strings.TrimSpace(in.Text()) == want {
					correct++
					_, _ = fmt.Fprintln(out, "  "+i18n.T("troubleshoot.correct"))
				} else {
					_, _ = fmt.Fprintln(out, "  "+i18n.T("cli.drill_expected", want))
				}
				return true
			}

		rounds:
			for i := range rounds {
				q := newDrillQuestion(r)
				_, _ = fmt.Fprintf(out, "\n[%d/%d] %s\n", i+1, rounds, q.Host)
				for _, qa := range [][2]string{
					{i18n.T("subnet.network"), q.Subnet.Network.String()},
					{i18n.T("subnet.broadcast"), q.Subnet.Broadcast.String()},
					{i18n.T("subnet.usable"), strconv.FormatUint(q.Subnet.UsableHosts, 10)},
				} {
					if !ask(qa[0], qa[1]) {
						break rounds
					}
				}
			}
			if total == 0 {
				return nil
			}

			res, err := scoring.Quiz(correct, total)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "\n"+i18n.T("cli.drill_result", correct, total, res.Grade))
			recordAttempt(cmd.Context(), out, model.Attempt{
				Module:     model.ModuleSubnetting,
				Score:      int(res.Percent + 0.5),
				DurationMs: now().Sub(started).Milliseconds(),
			})
			return nil
		},
	}
	cmd.Flags().Int("count", 5, "Number of questions")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
	return cmd
}

func newQuizScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz-score <correct> <total>",
		Short: "Convert a practice exam result to the 100-900 scale",
		Long: `Converts a raw practice exam result to a percentage, a letter grade and the
scaled 100-900 score (720 passes). With --record the percentage is saved as
a quiz attempt.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			correct, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("correct: %w", err)
			}
			total, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("total: %w", err)
			}
			res, err := scoring.Quiz(correct, total)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rec, _ := cmd.Flags().GetBool("record"); rec {
				recordAttempt(cmd.Context(), cmd.ErrOrStderr(), model.Attempt{Module: model.ModuleQuiz, Score: int(res.Percent + 0.5)})
			}
			if jsonOutput() {
				return printJSON(out, res)
			}
			verdict := i18n.T("cli.quiz_fail")
			if res.Passed {
				verdict = i18n.T("cli.quiz_pass")
			}
			return printPairs(out, [][2]string{
				{i18n.T("cli.quiz_correct"), fmt.Sprintf("%d/%d (%.1f%%)", res.Correct, res.Total, res.Percent)},
				{i18n.T("cli.quiz_scaled"), strconv.Itoa(res.Scaled)},
				{i18n.T("cli.quiz_grade"), res.Grade},
				{i18n.T("cli.quiz_verdict"), verdict},
			})
		},
	}
	cmd.Flags().Bool("record", false, "Record the result as a quiz attempt")
	return cmd
}
