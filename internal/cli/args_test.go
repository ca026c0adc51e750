package cli

import "testing"

func TestArgsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"city add without name", []string{"city", "add"}},
		{"city rename without name", []string{"city", "rename", "1"}},
		{"lookup without table", []string{"lookup"}},
		{"user add without email", []string{"user", "add"}},
		{"user role without role", []string{"user", "role", "1"}},
		{"property show without id", []string{"property", "show"}},
		{"property add with args", []string{"property", "add", "extra"}},
		{"image add without url", []string{"property", "image", "add", "1"}},
		{"favorite add without property", []string{"favorite", "add", "1"}},
		{"visit add without date", []string{"visit", "add", "1", "2"}},
		{"visit assign without agent", []string{"visit", "assign", "1"}},
		{"login without email", []string{"login"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			if _, err := executeCommand(tt.args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRejectsNonNumericIDs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"property show", []string{"property", "show", "abc"}},
		{"user remove", []string{"user", "remove", "abc"}},
		{"visit show", []string{"visit", "show", "x"}},
		{"favorite list", []string{"favorite", "list", "-1"}},
		{"visit assign", []string{"visit", "assign", "1", "bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := testEnv(t)
			if _, err := executeCommand(append(tt.args, "--db", dbPath)...); err == nil {
				t.Fatal("expected error for non-numeric ID")
			}
		})
	}
}

func TestUnknownLookupTable(t *testing.T) {
	dbPath := testEnv(t)
	if _, err := executeCommand("lookup", "colors", "--db", dbPath); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestParseWhen(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2026-11-02 15:30", false},
		{"2026-11-02T15:30", false},
		{"2026-11-02T15:30:00Z", false},
		{"2026-11-02", false},
		{"tomorrow", true},
		{"02/11/2026", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := parseWhen(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseWhen(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}
