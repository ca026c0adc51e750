package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	return executeWithInput("", args...)
}

// executeWithInput runs a command with stdin set to input.
func executeWithInput(input string, args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(io.Reader(strings.NewReader(input)))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// testEnv isolates HOME and the REALTY_* settings and returns a fresh
// database path.
func testEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"REALTY_DB", "REALTY_SECRET_KEY", "REALTY_DEV_MODE",
		"REALTY_SMTP_HOST", "REALTY_SMTP_FROM",
		"REALTY_ADMIN_EMAIL", "REALTY_ADMIN_PASSWORD",
	} {
		t.Setenv(k, "")
	}
	return filepath.Join(home, "realty.db")
}

// run executes args against dbPath and fails the test on error.
func run(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := executeCommand(append(args, "--db", dbPath)...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestRootHelp(t *testing.T) {
	_, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	formatFlag := root.PersistentFlags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("expected --format flag to exist")
	}
	if formatFlag.DefValue != "text" {
		t.Errorf("expected --format default 'text', got %q", formatFlag.DefValue)
	}

	for _, name := range []string{"db", "config"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to exist", name)
		}
	}
}

func TestCommandTree(t *testing.T) {
	root := NewRootCmd()

	paths := [][]string{
		{"migrate", "status"},
		{"seed"},
		{"city", "add"}, {"city", "list"}, {"city", "rename"}, {"city", "remove"},
		{"lookup"},
		{"user", "add"}, {"user", "list"}, {"user", "show"}, {"user", "role"}, {"user", "passwd"}, {"user", "remove"},
		{"property", "add"}, {"property", "list"}, {"property", "show"}, {"property", "update"}, {"property", "remove"},
		{"property", "image", "add"}, {"property", "images"}, {"property", "image", "remove"},
		{"favorite", "add"}, {"favorite", "list"}, {"favorite", "remove"},
		{"visit", "add"}, {"visit", "list"}, {"visit", "show"}, {"visit", "status"},
		{"visit", "assign"}, {"visit", "reschedule"}, {"visit", "remove"},
		{"login"}, {"logout"}, {"status"}, {"version"},
	}

	for _, p := range paths {
		cmd, rest, err := root.Find(p)
		if err != nil || len(rest) != 0 || cmd.Name() != p[len(p)-1] {
			t.Errorf("command %q not found", strings.Join(p, " "))
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseID(tt.in, "thing")
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	testEnv(t)

	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != Version {
		t.Errorf("version output = %q, want %q", out, Version)
	}
}
