package app

import (
	"github.com/agis/stenotime/internal/locale"
	"github.com/agis/stenotime/internal/stroke"
	"github.com/spf13/cobra"
)

func newCommandsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List base strokes and their templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, s, err := buildContext(cmd, opts, "commands")
			if err != nil {
				return err
			}
			defer s.Close()
			p.Fields = []string{"stroke", "name", "template"}
			return p.Success(stroke.Commands, map[string]any{"count": len(stroke.Commands)}, nil)
		},
	}
}

func newModifiersCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "modifiers",
		Short: "List modifier strokes and their day offsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, s, err := buildContext(cmd, opts, "modifiers")
			if err != nil {
				return err
			}
			defer s.Close()
			p.Fields = []string{"stroke", "name", "days"}
			return p.Success(stroke.Modifiers, map[string]any{"count": len(stroke.Modifiers)}, nil)
		},
	}
}

func newLocalesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List locales available for weekday and month names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, s, err := buildContext(cmd, opts, "locales")
			if err != nil {
				return err
			}
			defer s.Close()
			list := locale.Available()
			return p.Success(list, map[string]any{"count": len(list), "default": s.opts.Locale}, nil)
		},
	}
}
