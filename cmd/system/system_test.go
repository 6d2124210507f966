package system

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := "store:\n  driver: sqlite\n  sqlite:\n    path: " + filepath.Join(dir, "dc.db") + "\nlogging:\n  level: error\n"
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	root := &cobra.Command{Use: "dentalcenter"}
	root.PersistentFlags().String("config", cfgPath, "")
	root.AddCommand(NewSystemCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append([]string{"system"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestSeedIsIdempotent(t *testing.T) {
	cfg := writeConfig(t)

	first := run(t, cfg, "seed")
	if !strings.Contains(first, "users") {
		t.Errorf("first seed output = %q", first)
	}
	second := run(t, cfg, "seed")
	if !strings.Contains(second, "nothing written") {
		t.Errorf("second seed output = %q", second)
	}
}

func TestExport(t *testing.T) {
	cfg := writeConfig(t)
	run(t, cfg, "migrate")
	run(t, cfg, "seed")

	var snap struct {
		Users     []map[string]any `json:"users"`
		Patients  []map[string]any `json:"patients"`
		Incidents []map[string]any `json:"incidents"`
	}
	if err := json.Unmarshal([]byte(run(t, cfg, "export")), &snap); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(snap.Users) != 2 || len(snap.Patients) != 3 || len(snap.Incidents) != 5 {
		t.Errorf("export counts = %d users, %d patients, %d incidents", len(snap.Users), len(snap.Patients), len(snap.Incidents))
	}
}

func TestExport_ToFile(t *testing.T) {
	cfg := writeConfig(t)
	run(t, cfg, "seed")

	out := filepath.Join(t.TempDir(), "snapshot.json")
	if stdout := run(t, cfg, "export", "--out", out); stdout != "" {
		t.Errorf("export --out wrote to stdout: %q", stdout)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	var snap struct {
		Patients []map[string]any `json:"patients"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("export file is not JSON: %v", err)
	}
	if len(snap.Patients) != 3 {
		t.Errorf("len(patients) = %d, want 3", len(snap.Patients))
	}
}

func TestWriteJSONFile_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-dir", "out.json")
	if err := writeJSONFile(missing, map[string]int{"a": 1}); err == nil {
		t.Error("writeJSONFile() into a missing directory succeeded")
	}

	if err := writeJSONFile(filepath.Join(t.TempDir(), "out.json"), func() {}); err == nil {
		t.Error("writeJSONFile() of an unencodable value succeeded")
	}
}
