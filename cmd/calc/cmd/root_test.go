package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CALC_CONFIG", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		evalTrace = false
		cfgFile = ""
		logFile = ""
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"single arg", []string{"eval", "12+7="}, "19\n"},
		{"split args", []string{"eval", "5", "+", "3", "+", "="}, "16\n"},
		{"aliases", []string{"eval", "9*9="}, "81\n"},
		{"division by zero", []string{"eval", "7/0="}, "0\n"},
		{"decimal", []string{"eval", ".5+.25="}, "0.75\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, tc.args...)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}
			if out != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, out)
			}
		})
	}
}

func TestEvalTrace(t *testing.T) {
	out, err := run(t, "eval", "--trace", "8÷0=")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 trace lines, got %q", out)
	}
	if lines[3] != "=\t0  (division by zero)" {
		t.Fatalf("unexpected last line %q", lines[3])
	}
}

func TestEvalRejectsUnknownKey(t *testing.T) {
	if _, err := run(t, "eval", "2^8"); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestEvalWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.log")

	if _, err := run(t, "--log-file", path, "eval", "1+1="); err != nil {
		t.Fatalf("eval: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(content), `"display":"2"`) {
		t.Fatalf("expected eval log entry, got %s", content)
	}
}

func TestBadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.toml")
	os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0o644)

	if _, err := run(t, "--config", path, "eval", "1"); err == nil {
		t.Fatal("expected config error")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "calc v"+Version) {
		t.Fatalf("unexpected version output %q", out)
	}
}
