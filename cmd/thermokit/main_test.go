package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/thermokit/internal/config"
	"github.com/san-kum/thermokit/internal/storage"
	"github.com/san-kum/thermokit/internal/thermo"
)

const argonBatch = `
eos:
  type: ideal_gas
  components: [{name: argon}]
Tlist: [300]
Plist: [100000]
calculations:
  - {calculation_type: vapor_properties}
  - {calculation_type: not_a_calc}
`

// runThermokit executes the root command against a fresh data directory
// and returns the command output, the output file contents and the error.
func runThermokit(t *testing.T, input string, args ...string) (string, string, *storage.Store, error) {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, "input.yaml")
	if err := os.WriteFile(inPath, []byte(input), 0644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.txt")
	dataPath := filepath.Join(dir, "data")

	cmd := newRootCmd(config.Env{DataDir: dataPath, LogLevel: "error", Workers: 2, Path: dir})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"run", "--data", dataPath, "-i", inPath, "-o", outPath}, args...))
	runErr := cmd.Execute()

	data, err := os.ReadFile(outPath)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return buf.String(), string(data), storage.New(dataPath), runErr
}

func TestRunSingleRequest(t *testing.T) {
	input := `
eos: {type: ideal_gas, components: [{name: argon}]}
calculation_type: vapor_properties
Tlist: [300]
Plist: [100000]
`
	stdout, out, st, err := runThermokit(t, input)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "calculation_type: vapor_properties") || !strings.Contains(out, "rhov") {
		t.Errorf("unexpected output file:\n%s", out)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Error != "" {
		t.Fatalf("expected one successful run, got %+v", runs)
	}
	if !strings.Contains(stdout, runs[0].ID) {
		t.Errorf("run id not printed: %q", stdout)
	}
}

func TestRunBatchWithUnknownType(t *testing.T) {
	_, out, st, err := runThermokit(t, argonBatch)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 calculations failed") {
		t.Fatalf("expected partial failure, got %v", err)
	}

	for _, want := range []string{
		"calculation_type: vapor_properties",
		"rhov",
		"calculation_type: not_a_calc\nerror:",
		"was not found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "vapor_properties") > strings.Index(out, "not_a_calc") {
		t.Errorf("output out of request order:\n%s", out)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 stored runs, got %d", len(runs))
	}
	failed := 0
	for _, r := range runs {
		if r.Error != "" {
			failed++
			if r.Calculation != "not_a_calc" {
				t.Errorf("unexpected failed run %+v", r)
			}
			continue
		}
		if _, err := st.LoadResult(r.ID); err != nil {
			t.Errorf("result of %s: %v", r.ID, err)
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failed run, got %d", failed)
	}
}

func TestRunCalculationTypeOverridesBatch(t *testing.T) {
	_, out, st, err := runThermokit(t, argonBatch, "--calculation-type", "vapor_properties")
	if err != nil {
		t.Fatalf("override should replace every entry's calculation_type: %v", err)
	}
	if strings.Contains(out, "not_a_calc") {
		t.Errorf("batch entry kept its own calculation_type:\n%s", out)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 stored runs, got %d", len(runs))
	}
	for _, r := range runs {
		if r.Calculation != "vapor_properties" || r.Error != "" {
			t.Errorf("unexpected run %+v", r)
		}
	}
}

func TestLogFlagDefault(t *testing.T) {
	cmd := newRootCmd(config.Env{LogLevel: "warn"})
	f := cmd.PersistentFlags().Lookup("log")
	if f == nil || f.NoOptDefVal != DefaultLogFile {
		t.Fatalf("--log without a value should use %s, got %+v", DefaultLogFile, f)
	}

	if err := cmd.PersistentFlags().Parse([]string{"--log"}); err != nil {
		t.Fatal(err)
	}
	if logFile != DefaultLogFile {
		t.Errorf("logFile = %q", logFile)
	}
	if err := cmd.PersistentFlags().Parse([]string{"--log=run.log"}); err != nil {
		t.Fatal(err)
	}
	if logFile != "run.log" {
		t.Errorf("logFile = %q", logFile)
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thermokit.log")
	l, closeFn, err := setupLogger("warn", 2, path)
	if err != nil {
		t.Fatal(err)
	}

	l.Debug("hidden")
	l.Info("visible", "calculation_type", "pressure")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "visible") || strings.Contains(string(data), "hidden") {
		t.Errorf("unexpected log file contents:\n%s", data)
	}
	if !l.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected info enabled at -vv")
	}
}

func TestSetupLoggerBadLevel(t *testing.T) {
	if _, _, err := setupLogger("chatty", 0, ""); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRequestName(t *testing.T) {
	if got := requestName(thermo.Params{}); got != "unspecified" {
		t.Errorf("got %s", got)
	}
	if got := requestName(thermo.Params{"calculation_type": 7}); got != "7" {
		t.Errorf("got %s", got)
	}
}
