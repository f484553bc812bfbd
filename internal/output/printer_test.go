package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/agis/stenotime/internal/contract"
	"github.com/agis/stenotime/internal/stroke"
)

func TestSchemaVersionDefault(t *testing.T) {
	p := Printer{}
	if p.schemaVersion() != contract.SchemaVersion {
		t.Fatalf("expected default schema version %q", contract.SchemaVersion)
	}
}

func TestFlattenWithFields(t *testing.T) {
	c := stroke.Command{Name: "WeekDate", Stroke: "Z-D", Template: "KW %W: %A %d.%m.%Y"}
	got := flatten(c, []string{"stroke", "name"})
	if got != "Z-D\tWeekDate" {
		t.Fatalf("unexpected flatten result: %q", got)
	}
}

func TestPlainStringIsUnquoted(t *testing.T) {
	var out bytes.Buffer
	p := Printer{Mode: ModePlain, Out: &out}
	if err := p.Success("KW 11: Freitag 15.03.2024", nil, nil); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "KW 11: Freitag 15.03.2024\n" {
		t.Fatalf("plain output = %q", got)
	}
}

func TestJSONEnvelopes(t *testing.T) {
	var out, errOut bytes.Buffer
	p := Printer{Mode: ModeJSON, Command: "lookup", Out: &out, Err: &errOut}
	if err := p.Success(map[string]any{"text": "x"}, map[string]any{"offset": 1}, nil); err != nil {
		t.Fatal(err)
	}
	var env contract.SuccessEnvelope
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	if env.Command != "lookup" || env.SchemaVersion != contract.SchemaVersion {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	if err := p.Error(contract.ErrNotRecognized, "not recognized", ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut.String(), `"NOT_RECOGNIZED"`) {
		t.Fatalf("error envelope = %s", errOut.String())
	}
}

func TestEffectiveSuccessMode(t *testing.T) {
	if got := (Printer{Mode: ModePlain}).EffectiveSuccessMode(); got != ModePlain {
		t.Fatalf("plain mode resolved to %q", got)
	}
	if got := (Printer{Mode: ModeAuto, Out: &bytes.Buffer{}}).EffectiveSuccessMode(); got != ModeJSON {
		t.Fatalf("expected json for a non-terminal writer, got %q", got)
	}
}
