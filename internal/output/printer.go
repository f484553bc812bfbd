package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/agis/stenotime/internal/contract"
	"github.com/mattn/go-isatty"
)

type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeJSON  Mode = "json"
	ModePlain Mode = "plain"
)

type Printer struct {
	Mode          Mode
	Command       string
	Fields        []string
	Quiet         bool
	SchemaVersion string
	Out           io.Writer
	Err           io.Writer
}

// EffectiveSuccessMode resolves ModeAuto: plain on a terminal, JSON otherwise.
func (p Printer) EffectiveSuccessMode() Mode {
	switch p.Mode {
	case ModeJSON, ModePlain:
		return p.Mode
	}
	if f, ok := p.out().(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return ModePlain
	}
	return ModeJSON
}

func (p Printer) Success(data any, meta map[string]any, warnings []string) error {
	if p.EffectiveSuccessMode() == ModeJSON {
		env := contract.SuccessEnvelope{
			SchemaVersion: p.schemaVersion(),
			Command:       p.Command,
			GeneratedAt:   time.Now().UTC(),
			Data:          data,
			Meta:          meta,
			Warnings:      warnings,
		}
		enc := json.NewEncoder(p.out())
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	}
	return p.printPlain(data)
}

func (p Printer) Error(code contract.ErrorCode, message, hint string) error {
	if p.Mode == ModeJSON {
		env := contract.ErrorEnvelope{
			SchemaVersion: p.schemaVersion(),
			Error:         contract.ErrorBody{Code: code, Message: message, Hint: hint},
		}
		enc := json.NewEncoder(p.err())
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	}
	if hint != "" {
		_, _ = fmt.Fprintf(p.err(), "error: %s\nhint: %s\n", message, hint)
		return nil
	}
	_, _ = fmt.Fprintf(p.err(), "error: %s\n", message)
	return nil
}

func (p Printer) schemaVersion() string {
	if p.SchemaVersion == "" {
		return contract.SchemaVersion
	}
	return p.SchemaVersion
}

func (p Printer) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p Printer) err() io.Writer {
	if p.Err == nil {
		return os.Stderr
	}
	return p.Err
}

func (p Printer) printPlain(data any) error {
	if s, ok := data.(string); ok {
		_, err := fmt.Fprintln(p.out(), s)
		return err
	}
	v := reflect.ValueOf(data)
	if !v.IsValid() || (v.Kind() == reflect.Slice && v.Len() == 0) {
		if !p.Quiet {
			_, _ = fmt.Fprintln(p.out(), "no results")
		}
		return nil
	}
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			if _, err := fmt.Fprintln(p.out(), flatten(v.Index(i).Interface(), p.Fields)); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintln(p.out(), flatten(data, p.Fields))
	return err
}

func flatten(v any, fields []string) string {
	if s, ok := v.(string); ok {
		return s
	}
	if len(fields) == 0 {
		b, _ := json.Marshal(v)
		return string(b)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		b, _ := json.Marshal(v)
		return string(b)
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		fv := rv.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, strings.ReplaceAll(f, "_", "")) || strings.EqualFold(name, f)
		})
		if !fv.IsValid() {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, fmt.Sprint(fv.Interface()))
	}
	return strings.Join(parts, "\t")
}
