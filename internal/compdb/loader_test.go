package compdb

import "testing"

func TestLoadStringArgumentsShape(t *testing.T) {
	data := `[
		{"directory": "/w", "file": "main.c", "arguments": ["cc", "-c", "main.c", "-o", "main.o"]}
	]`
	set, err := LoadString(data)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 command, got %d", set.Len())
	}
	cmd, ok := set.Get(1)
	if !ok {
		t.Fatal("expected index 1 to exist")
	}
	if cmd.Directory != "/w" {
		t.Errorf("Directory = %q", cmd.Directory)
	}
	if cmd.File != "/w/main.c" {
		t.Errorf("File = %q", cmd.File)
	}
	if cmd.CompilerExecutable != "cc" {
		t.Errorf("CompilerExecutable = %q", cmd.CompilerExecutable)
	}
	wantArgv := []string{"-c", "/w/main.c", "-o", "main.o"}
	if len(cmd.Arguments) != len(wantArgv) {
		t.Fatalf("Arguments = %v, want %v", cmd.Arguments, wantArgv)
	}
	for i := range wantArgv {
		if cmd.Arguments[i] != wantArgv[i] {
			t.Errorf("Arguments[%d] = %q, want %q", i, cmd.Arguments[i], wantArgv[i])
		}
	}
}

func TestLoadStringCommandShape(t *testing.T) {
	data := `[
		{"directory": "/w", "file": "main.c", "command": "cc -c main.c -o main.o"}
	]`
	set, err := LoadString(data)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	cmd, _ := set.Get(1)
	if cmd.CompilerExecutable != "cc" {
		t.Errorf("CompilerExecutable = %q", cmd.CompilerExecutable)
	}
}

func TestLoadStringMixedShapesRejected(t *testing.T) {
	data := `[
		{"directory": "/w", "file": "a.c", "arguments": ["cc", "a.c"]},
		{"directory": "/w", "file": "b.c", "command": "cc b.c"}
	]`
	if _, err := LoadString(data); err == nil {
		t.Fatal("expected an error for mixed entry shapes")
	}
}

func TestLoadStringRejectsNonArrayTopLevel(t *testing.T) {
	if _, err := LoadString(`{"directory": "/w"}`); err == nil {
		t.Fatal("expected an error for a non-array top level document")
	}
}

func TestLoadStringRejectsMissingRequiredKeys(t *testing.T) {
	data := `[{"arguments": ["cc", "a.c"]}]`
	if _, err := LoadString(data); err == nil {
		t.Fatal("expected an error for missing directory/file")
	}
}

func TestLoadStringRejectsFileNotInArgv(t *testing.T) {
	data := `[
		{"directory": "/w", "file": "main.c", "arguments": ["cc", "other.c"]}
	]`
	if _, err := LoadString(data); err == nil {
		t.Fatal("expected an error when file does not appear in argv")
	}
}

func TestLoadStringRejectsAmbiguousFileOccurrence(t *testing.T) {
	data := `[
		{"directory": "/w", "file": "main.c", "arguments": ["cc", "main.c", "main.c"]}
	]`
	if _, err := LoadString(data); err == nil {
		t.Fatal("expected an error when file appears more than once in argv")
	}
}

func TestLoadStringEmptyDatabase(t *testing.T) {
	set, err := LoadString(`[]`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("expected an empty set, got %d entries", set.Len())
	}
}

func TestLoadStringBackslashWhitespaceEscapeRejected(t *testing.T) {
	data := `[
		{"directory": "/w", "file": "a b.c", "command": "cc a\\ b.c"}
	]`
	if _, err := LoadString(data); err == nil {
		t.Fatal("expected an error for a backslash-whitespace escape in \"command\"")
	}
}
