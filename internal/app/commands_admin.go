package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/agis/stenotime/internal/contract"
	"github.com/agis/stenotime/internal/locale"
	"github.com/agis/stenotime/internal/output"
	"github.com/agis/stenotime/internal/state"
	"github.com/agis/stenotime/internal/timefmt"
	"github.com/spf13/cobra"
)

func newVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, s, err := buildContext(cmd, opts, "version")
			if err != nil {
				return err
			}
			defer s.Close()
			if p.EffectiveSuccessMode() == output.ModeJSON {
				return p.Success(currentBuildInfo(), nil, nil)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stenotime %s\n", BuildVersionString())
			return err
		},
	}
}

func newDoctorCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check locale, rendering and state store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, s, err := buildContext(cmd, opts, "doctor")
			if err != nil {
				return err
			}
			defer s.Close()
			checks := runDoctorChecks(s)
			reasonCodes := deriveDegradedReasonCodes(checks)
			ready := true
			for _, c := range checks {
				if c.Status == "fail" {
					ready = false
				}
			}
			if p.EffectiveSuccessMode() != output.ModeJSON {
				_ = printDoctorPlain(cmd.OutOrStdout(), checks, ready, reasonCodes)
			} else {
				meta := map[string]any{
					"count":                 len(checks),
					"ready":                 ready,
					"degraded_reason_codes": reasonCodes,
				}
				_ = p.Success(checks, meta, nil)
			}
			if !ready {
				return WrapPrinted(exitGeneric, errors.New("doctor checks not ready"))
			}
			return nil
		},
	}
}

func runDoctorChecks(s *session) []contract.DoctorCheck {
	var checks []contract.DoctorCheck

	if _, err := locale.Resolve(s.opts.Locale); err != nil {
		checks = append(checks, contract.DoctorCheck{Name: "locale", Status: "fail", Message: err.Error()})
	} else {
		checks = append(checks, contract.DoctorCheck{Name: "locale", Status: "ok", Message: s.opts.Locale})
	}

	f := &timefmt.Formatter{Location: s.loc}
	if out, err := f.Format(timefmt.WeekPlaceholder+" %A", s.opts.Locale, 0); err != nil {
		checks = append(checks, contract.DoctorCheck{Name: "render", Status: "fail", Message: err.Error()})
	} else {
		checks = append(checks, contract.DoctorCheck{Name: "render", Status: "ok", Message: out})
	}

	checks = append(checks, stateCheck(s))

	switch cfg := s.opts.Config; {
	case cfg == "":
		checks = append(checks, contract.DoctorCheck{Name: "config", Status: "ok", Message: "no config file"})
	default:
		if _, err := os.Stat(cfg); err != nil {
			checks = append(checks, contract.DoctorCheck{Name: "config", Status: "ok", Message: "not present: " + cfg})
		} else if _, ok := readConfigFile(cfg); !ok {
			checks = append(checks, contract.DoctorCheck{Name: "config", Status: "warn", Message: "unreadable TOML: " + cfg})
		} else {
			checks = append(checks, contract.DoctorCheck{Name: "config", Status: "ok", Message: cfg})
		}
	}
	return checks
}

// stateCheck never writes; the advisory record stays as it was.
func stateCheck(s *session) contract.DoctorCheck {
	store, err := state.Open(s.opts.State, s.opts.StatePath)
	if err != nil {
		return contract.DoctorCheck{Name: "state", Status: "warn", Message: err.Error()}
	}
	defer store.Close()
	if _, err := store.Offset(); err != nil {
		return contract.DoctorCheck{Name: "state", Status: "warn", Message: err.Error()}
	}
	msg := s.opts.State
	if path := storePath(store); path != "" {
		msg += " " + path
	}
	return contract.DoctorCheck{Name: "state", Status: "ok", Message: msg}
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := strings.ToLower(args[0])
			switch shell {
			case "bash":
				return root.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return root.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return root.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return root.GenPowerShellCompletion(cmd.OutOrStdout())
			default:
				return Wrap(exitUsage, fmt.Errorf("unsupported shell: %s", shell))
			}
		},
	}
}

func deriveDegradedReasonCodes(checks []contract.DoctorCheck) []string {
	codeSet := map[string]struct{}{}
	for _, c := range checks {
		if c.Status == "" || c.Status == "ok" {
			continue
		}
		codeSet[c.Name+"_"+c.Status] = struct{}{}
	}
	if len(codeSet) == 0 {
		return nil
	}
	out := make([]string, 0, len(codeSet))
	for code := range codeSet {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func printDoctorPlain(out io.Writer, checks []contract.DoctorCheck, ready bool, reasonCodes []string) error {
	_, _ = fmt.Fprintf(out, "ready=%t checks=%d\n", ready, len(checks))
	if len(reasonCodes) > 0 {
		_, _ = fmt.Fprintf(out, "reasons=%s\n", strings.Join(reasonCodes, ","))
	}
	for _, c := range checks {
		_, _ = fmt.Fprintf(out, "[%s] %s: %s\n", c.Status, c.Name, c.Message)
	}
	return nil
}
