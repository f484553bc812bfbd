package app

import (
	"github.com/agis/stenotime/internal/contract"
	"github.com/agis/stenotime/internal/state"
	"github.com/spf13/cobra"
)

func newStateCmd(opts *globalOptions) *cobra.Command {
	st := &cobra.Command{Use: "state", Short: "Inspect the advisory offset record"}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the last recorded day offset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, s, err := buildContext(cmd, opts, "state.show")
			if err != nil {
				return err
			}
			defer s.Close()
			store, err := state.Open(s.opts.State, s.opts.StatePath)
			if err != nil {
				return failWithHint(p, contract.ErrStateUnavailable, err, "Check --state and --state-path", exitGeneric)
			}
			defer store.Close()

			info := contract.StateInfo{Kind: s.opts.State, Path: storePath(store)}
			n, rerr := store.Offset()
			info.Offset, info.Readable = n, rerr == nil
			var warnings []string
			if rerr != nil {
				warnings = append(warnings, rerr.Error())
			}
			return p.Success(info, nil, warnings)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the advisory offset record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, s, err := buildContext(cmd, opts, "state.clear")
			if err != nil {
				return err
			}
			defer s.Close()
			store, err := state.Open(s.opts.State, s.opts.StatePath)
			if err != nil {
				return failWithHint(p, contract.ErrStateUnavailable, err, "Check --state and --state-path", exitGeneric)
			}
			defer store.Close()
			if err := store.Clear(); err != nil {
				return failWithHint(p, contract.ErrStateUnavailable, err, "Check permissions on the state location", exitGeneric)
			}
			return p.Success(contract.StateInfo{Kind: s.opts.State, Path: storePath(store), Readable: true}, map[string]any{"cleared": true}, nil)
		},
	}

	st.AddCommand(showCmd, clearCmd)
	return st
}

func storePath(s state.Store) string {
	switch v := s.(type) {
	case *state.FileStore:
		return v.Path
	case *state.SQLiteStore:
		return v.Path()
	default:
		return ""
	}
}
