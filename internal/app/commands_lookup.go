package app

import (
	"errors"

	"github.com/agis/stenotime/internal/contract"
	"github.com/agis/stenotime/internal/dictionary"
	"github.com/agis/stenotime/internal/output"
	"github.com/agis/stenotime/internal/state"
	"github.com/spf13/cobra"
)

func newLookupCmd(opts *globalOptions) *cobra.Command {
	var text, at string
	cmd := &cobra.Command{
		Use:   "lookup [STROKE [MODIFIER...]]",
		Short: "Translate a stroke key or a time: string",
		Example: `  stenotime lookup Z-D U
  stenotime lookup WeekDate BackwardOneWeek
  stenotime lookup --text 'time:%Y-%m-%d>>en_GB'
  stenotime lookup --at 2024-12-30 Z-D`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, s, err := buildContext(cmd, opts, "lookup")
			if err != nil {
				return err
			}
			defer s.Close()

			if (text == "") == (len(args) == 0) {
				return failWithHint(p, contract.ErrInvalidUsage, errors.New("provide either strokes or --text"), "Run `stenotime commands` to list base strokes", exitUsage)
			}
			key := dictionary.Strokes(args...)
			if text != "" {
				key = dictionary.Text(text)
			}
			now, err := s.clock(at)
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Use now, today, +Nd, +Nw, 2006-01-02 or RFC3339", exitUsage)
			}
			d, err := s.openDictionary(now)
			if err != nil {
				return failWithHint(p, contract.ErrStateUnavailable, err, "Use --state none to skip the advisory offset record", exitGeneric)
			}
			defer d.Release()

			tr, err := d.Translate(key)
			if err != nil {
				return failWithHint(p, contract.ErrNotRecognized, err, "Run `stenotime commands` and `stenotime modifiers` for valid strokes", exitNotRecognized)
			}
			var warnings []string
			if tr.Err != nil {
				warnings = append(warnings, tr.Err.Error())
			}
			if p.EffectiveSuccessMode() == output.ModeJSON {
				return p.Success(tr, map[string]any{"offset": tr.Offset, "locale": tr.Locale}, warnings)
			}
			return p.Success(tr.Text, nil, warnings)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Ad-hoc key of the form time:<format>[>>[locale][|±N]]")
	cmd.Flags().StringVar(&at, "at", "", "Pin the current time (now, today, +Nd, +Nw, 2006-01-02, RFC3339)")
	return cmd
}

func newReverseLookupCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse-lookup TEXT",
		Short: "Reverse lookup (always empty)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, s, err := buildContext(cmd, opts, "reverse-lookup")
			if err != nil {
				return err
			}
			defer s.Close()
			d := dictionary.New(dictionary.Options{Store: state.Nop{}, Logger: s.log})
			keys := d.ReverseLookup(args[0])
			return p.Success(keys, map[string]any{"count": len(keys)}, nil)
		},
	}
}
