package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/turtacn/KeyIP-Layout/internal/testutil"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeMolecule(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "molecule.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "keyip-layout" {
		t.Errorf("expected Use='keyip-layout', got %q", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("Short and Long should not be empty")
	}

	subNames := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subNames[sub.Name()] = true
	}
	for _, name := range []string{"layout", "templates", "version"} {
		if !subNames[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "log-level", "output", "timeout"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("flag %q should exist", name)
		}
	}
	if f := cmd.PersistentFlags().Lookup("output"); f.DefValue != "json" {
		t.Errorf("output default should be 'json', got %q", f.DefValue)
	}
}

func TestLayoutCmd_File(t *testing.T) {
	out, err := execute(t, nil, "layout", "--input", writeMolecule(t, testutil.Benzene()))
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	var d mtypes.Depiction
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("output is not a depiction: %v\n%s", err, out)
	}
	if len(d.Atoms) != 6 {
		t.Errorf("expected 6 atoms, got %d", len(d.Atoms))
	}
	if d.Shape != "single-ring" {
		t.Errorf("expected single-ring, got %q", d.Shape)
	}
	if d.BondLength != 35 {
		t.Errorf("expected default bond length 35, got %v", d.BondLength)
	}
}

func TestLayoutCmd_StdinWithOverrides(t *testing.T) {
	data, _ := json.Marshal(testutil.Naphthalene())
	out, err := execute(t, bytes.NewReader(data), "layout", "-i", "-", "--bond-length", "1.5", "--no-orient")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	var d mtypes.Depiction
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.BondLength != 1.5 {
		t.Errorf("expected bond length 1.5, got %v", d.BondLength)
	}
}

func TestLayoutCmd_BatchTable(t *testing.T) {
	path := writeMolecule(t, []*mtypes.Molecule{testutil.Benzene(), testutil.Hexane()})
	out, err := execute(t, nil, "layout", "-i", path, "-o", "table")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "#") || !strings.Contains(lines[0], "SHAPE") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "single-ring") || !strings.Contains(lines[3], "chain") {
		t.Errorf("unexpected rows:\n%s", out)
	}
}

func TestLayoutCmd_SingleTable(t *testing.T) {
	out, err := execute(t, nil, "layout", "-i", writeMolecule(t, testutil.Methane()), "-o", "table")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !strings.Contains(out, "SYMBOL") || !strings.Contains(out, "0.0000") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestLayoutCmd_MetricsFile(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "layout.prom")
	_, err := execute(t, nil, "layout", "-i", writeMolecule(t, testutil.Adamantane()), "--metrics-file", metrics)
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), `keyip_layout_template_hits_total{template="adamantane"} 1`) {
		t.Errorf("template hit not recorded:\n%s", data)
	}
}

func TestLayoutCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	badJSON := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(badJSON, []byte("{not json"), 0o600)
	emptyBatch := filepath.Join(dir, "empty.json")
	_ = os.WriteFile(emptyBatch, []byte("[]"), 0o600)
	broken := writeMolecule(t, mtypes.Molecule{Atoms: []mtypes.Atom{{ID: 0}}, Bonds: []mtypes.Bond{{Atom1: 0, Atom2: 7}}})

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input flag", []string{"layout"}, "required flag"},
		{"missing file", []string{"layout", "-i", filepath.Join(dir, "nope.json")}, "failed to read input"},
		{"bad json", []string{"layout", "-i", badJSON}, "failed to parse input"},
		{"empty batch", []string{"layout", "-i", emptyBatch}, "no molecules"},
		{"invalid molecule", []string{"layout", "-i", broken}, "MOL_003"},
		{"invalid bond length", []string{"layout", "-i", broken, "--bond-length", "-1"}, "LAY_002"},
		{"bad output", []string{"layout", "-i", broken, "-o", "xml"}, "invalid output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, nil, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLayoutCmd_ExplicitConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(cfg, []byte("layout:\n  bond_length: 20\nmetrics:\n  enabled: false\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, nil, "--config", cfg, "layout", "-i", writeMolecule(t, testutil.Toluene()))
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	var d mtypes.Depiction
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.BondLength != 20 {
		t.Errorf("expected bond length from config, got %v", d.BondLength)
	}
}

func TestTemplatesCmd(t *testing.T) {
	out, err := execute(t, nil, "templates")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	var list []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 4 {
		t.Errorf("expected 4 templates, got %d", len(list))
	}

	out, err = execute(t, nil, "templates", "-o", "table")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !strings.Contains(out, "cubane") || !strings.Contains(out, "ATOMS") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestVersionCmd(t *testing.T) {
	orig := Version
	Version = "1.2.3"
	defer func() { Version = orig }()

	out, err := execute(t, nil, "version")
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	if !strings.Contains(out, `"version": "1.2.3"`) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestExecute_UnknownSubcommand(t *testing.T) {
	if _, err := execute(t, nil, "unknownsubcommand"); err == nil {
		t.Error("expected error for unknown subcommand")
	}
}

func TestFormatTable(t *testing.T) {
	got := FormatTable([]string{"A", "LONG"}, [][]string{{"xyz", "1"}, {"b"}})
	want := "A    LONG\n---  ----\nxyz  1   \nb        \n"
	if got != want {
		t.Errorf("FormatTable mismatch:\n%q\n%q", got, want)
	}
	if FormatTable(nil, nil) != "" {
		t.Error("empty headers should render nothing")
	}
}
