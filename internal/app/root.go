package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/agis/stenotime/internal/contract"
	"github.com/agis/stenotime/internal/dictionary"
	"github.com/agis/stenotime/internal/locale"
	"github.com/agis/stenotime/internal/output"
	"github.com/agis/stenotime/internal/state"
	"github.com/agis/stenotime/internal/stroke"
	"github.com/agis/stenotime/internal/timeparse"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	JSON          bool
	Plain         bool
	Quiet         bool
	Verbose       bool
	Profile       string
	Config        string
	Locale        string
	TZ            string
	State         string
	StatePath     string
	Attach        bool
	LogLevel      string
	LogFormat     string
	LogFile       string
	SchemaVersion string
}

func Execute() int {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err != nil {
		renderTopLevelError(cmd, err)
	}
	return ExitCode(err)
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{
		Profile:       "default",
		Locale:        stroke.DefaultLocale,
		State:         state.KindFile,
		LogLevel:      "warn",
		LogFormat:     "text",
		SchemaVersion: contract.SchemaVersion,
	}

	root := &cobra.Command{
		Use:           "stenotime",
		Short:         "Translate steno date strokes and time: keys into formatted dates",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       BuildVersionString(),
	}
	root.SetVersionTemplate("stenotime {{.Version}}\n")

	root.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Output structured JSON")
	root.PersistentFlags().BoolVar(&opts.Plain, "plain", false, "Output stable plain text")
	root.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Reduce success output")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose diagnostics")
	root.PersistentFlags().StringVar(&opts.Profile, "profile", "default", "Config profile")
	root.PersistentFlags().StringVar(&opts.Config, "config", "", "Config file path")
	root.PersistentFlags().StringVar(&opts.Locale, "locale", stroke.DefaultLocale, "Default locale for stroke keys and empty >> locales")
	root.PersistentFlags().StringVar(&opts.TZ, "tz", "", "IANA timezone for rendering")
	root.PersistentFlags().StringVar(&opts.State, "state", state.KindFile, "Advisory offset store: file|sqlite|none")
	root.PersistentFlags().StringVar(&opts.StatePath, "state-path", "", "Advisory offset store location")
	root.PersistentFlags().BoolVar(&opts.Attach, "attach", false, "Prefix translations with the {^} attach operator")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "Log format: text|json")
	root.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "Write logs to this file instead of stderr")
	root.PersistentFlags().StringVar(&opts.SchemaVersion, "schema-version", contract.SchemaVersion, "Output schema version")

	root.AddCommand(newLookupCmd(opts))
	root.AddCommand(newReverseLookupCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newCommandsCmd(opts))
	root.AddCommand(newModifiersCmd(opts))
	root.AddCommand(newLocalesCmd(opts))
	root.AddCommand(newStateCmd(opts))
	root.AddCommand(newDoctorCmd(opts))
	root.AddCommand(newVersionCmd(opts))
	root.AddCommand(newCompletionCmd(root))

	return root
}

// session carries what a command needs after option resolution.
type session struct {
	opts    *globalOptions
	log     *slog.Logger
	loc     *time.Location
	cleanup func()
}

func (s *session) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func buildContext(cmd *cobra.Command, opts *globalOptions, command string) (output.Printer, *session, error) {
	resolved, err := resolveGlobalOptions(cmd, opts)
	if err != nil {
		return output.Printer{}, nil, Wrap(exitUsage, err)
	}
	if resolved.JSON && resolved.Plain {
		return output.Printer{}, nil, Wrap(exitUsage, errors.New("--json and --plain are mutually exclusive"))
	}
	mode := output.ModeAuto
	if resolved.JSON {
		mode = output.ModeJSON
	} else if resolved.Plain {
		mode = output.ModePlain
	}

	printer := output.Printer{
		Mode:          mode,
		Command:       command,
		Quiet:         resolved.Quiet,
		SchemaVersion: resolved.SchemaVersion,
		Out:           cmd.OutOrStdout(),
		Err:           cmd.ErrOrStderr(),
	}

	loc, err := loadLocation(resolved.TZ)
	if err != nil {
		_ = printer.Error(contract.ErrInvalidUsage, err.Error(), "Use an IANA name such as Europe/Berlin")
		return printer, nil, WrapPrinted(exitUsage, err)
	}
	logger, closeLog, err := newLogger(resolved, cmd.ErrOrStderr())
	if err != nil {
		_ = printer.Error(contract.ErrInvalidUsage, err.Error(), "Check --log-level, --log-format and --log-file")
		return printer, nil, WrapPrinted(exitUsage, err)
	}
	slog.SetDefault(logger)

	if _, err := locale.Resolve(resolved.Locale); err != nil {
		logger.Warn("default locale unavailable; translations will carry a locale error", "locale", resolved.Locale)
	}
	logger.Debug("stenotime",
		"command", command, "mode", mode, "locale", resolved.Locale, "tz", resolved.TZ,
		"state", resolved.State, "profile", resolved.Profile)

	return printer, &session{opts: resolved, log: logger, loc: loc, cleanup: closeLog}, nil
}

func (s *session) openDictionary(now func() time.Time) (*dictionary.Dictionary, error) {
	store, err := state.Open(s.opts.State, s.opts.StatePath)
	if err != nil {
		return nil, err
	}
	return dictionary.New(dictionary.Options{
		DefaultLocale: s.opts.Locale,
		Location:      s.loc,
		Now:           now,
		Attach:        s.opts.Attach,
		Store:         store,
		Logger:        s.log,
	}), nil
}

// clock returns a fixed clock for --at, or nil for the wall clock.
func (s *session) clock(at string) (func() time.Time, error) {
	if strings.TrimSpace(at) == "" {
		return nil, nil
	}
	pinned, err := timeparse.ParseInstant(at, time.Now(), s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid --at: %w", err)
	}
	return func() time.Time { return pinned }, nil
}

func failWithHint(printer output.Printer, code contract.ErrorCode, err error, hint string, exitCode int) error {
	if err == nil {
		err = errors.New("unknown error")
	}
	_ = printer.Error(code, err.Error(), hint)
	return WrapPrinted(exitCode, err)
}

func renderTopLevelError(cmd *cobra.Command, err error) {
	var appErr AppError
	if errors.As(err, &appErr) && appErr.Printed {
		return
	}
	if wantsStructuredErrorOutput(os.Args[1:]) {
		printer := output.Printer{
			Mode:          output.ModeJSON,
			SchemaVersion: contract.SchemaVersion,
			Err:           cmd.ErrOrStderr(),
		}
		_ = printer.Error(errorCodeForExit(ExitCode(err)), err.Error(), "")
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", err.Error())
}

func wantsStructuredErrorOutput(args []string) bool {
	for _, arg := range args {
		switch {
		case arg == "--":
			return false
		case arg == "--json":
			return true
		case strings.HasPrefix(arg, "--json="):
			return true
		}
	}
	return false
}

func errorCodeForExit(code int) contract.ErrorCode {
	switch code {
	case exitUsage:
		return contract.ErrInvalidUsage
	case exitNotRecognized:
		return contract.ErrNotRecognized
	default:
		return contract.ErrGeneric
	}
}

func loadLocation(tz string) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(strings.TrimSpace(tz))
	if err != nil {
		return nil, fmt.Errorf("invalid --tz: %w", err)
	}
	return loc, nil
}
