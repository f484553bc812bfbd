package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/agis/stenotime/internal/contract"
	"github.com/agis/stenotime/internal/dictionary"
	"github.com/spf13/cobra"
)

const maxServeLine = 1 << 20

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer newline-delimited JSON lookups on stdin",
		Long: `Reads one JSON request per line from stdin and writes one JSON response per line to stdout.

Requests:
  {"strokes": ["Z-D", "U"]}
  {"text": "time:%A>>en_GB"}
  {"op": "reverse_lookup", "text": "Friday"}

The advisory offset record is cleared when stdin closes or on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, s, err := buildContext(cmd, opts, "serve")
			if err != nil {
				return err
			}
			defer s.Close()
			d, err := s.openDictionary(nil)
			if err != nil {
				return failWithHint(p, contract.ErrStateUnavailable, err, "Use --state none to skip the advisory offset record", exitGeneric)
			}
			defer d.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			s.log.Info("serving lookups", "locale", s.opts.Locale, "state", s.opts.State)
			return serve(ctx, d, cmd.InOrStdin(), cmd.OutOrStdout(), s.log)
		},
	}
}

func serve(ctx context.Context, t dictionary.Translator, in io.Reader, out io.Writer, log *slog.Logger) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), maxServeLine)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
		close(lines)
	}()

	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			log.Info("serve interrupted")
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := enc.Encode(handleServeLine(t, line)); err != nil {
				return err
			}
		}
	}
}

func handleServeLine(t dictionary.Translator, line string) contract.ServeResponse {
	var req contract.ServeRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return contract.ServeResponse{Code: contract.ErrInvalidUsage, Error: fmt.Sprintf("invalid request: %v", err)}
	}
	switch strings.ToLower(strings.TrimSpace(req.Op)) {
	case "", "lookup":
		if (req.Text == "") == (len(req.Strokes) == 0) {
			return contract.ServeResponse{Code: contract.ErrInvalidUsage, Error: "request needs either strokes or text"}
		}
		key := dictionary.Strokes(req.Strokes...)
		if req.Text != "" {
			key = dictionary.Text(req.Text)
		}
		text, ok := t.Lookup(key)
		if !ok {
			return contract.ServeResponse{Code: contract.ErrNotRecognized}
		}
		return contract.ServeResponse{Found: true, Translation: text}
	case "reverse_lookup":
		return contract.ServeResponse{Reverse: t.ReverseLookup(req.Text)}
	default:
		return contract.ServeResponse{Code: contract.ErrInvalidUsage, Error: fmt.Sprintf("unknown op: %s", req.Op)}
	}
}
