package diagfmt

import "testing"

func TestFormatDiagnosticsStopsAfterFatal(t *testing.T) {
	diags := []Diagnostic{
		{Severity: SeverityWarning, Spelling: "warning: unused variable 'x'", Category: "Semantic Issue"},
		{Severity: SeverityFatal, Spelling: "fatal error: 'foo.h' file not found"},
		{Severity: SeverityError, Spelling: "error: use of undeclared identifier 'y'", Category: "Parse Issue"},
	}

	set := FormatDiagnostics(diags, FormatOptions{})

	if len(set.Diags) != 2 {
		t.Fatalf("expected 2 rendered diagnostics, got %d", len(set.Diags))
	}
	if set.Info == nil {
		t.Fatal("expected an omission info line")
	}
	if got, want := set.Info.Lines[0], "NOTE: omitting 1 following diagnostics."; got != want {
		t.Errorf("info line = %q, want %q", got, want)
	}
}

func TestFormatDiagnosticsNoOmissionWhenFatalIsLast(t *testing.T) {
	diags := []Diagnostic{
		{Severity: SeverityFatal, Spelling: "fatal error: 'foo.h' file not found"},
	}
	set := FormatDiagnostics(diags, FormatOptions{})
	if set.Info != nil {
		t.Errorf("expected no info line, got %+v", set.Info)
	}
}

func TestFormatDiagnosticInclusionPrefixChildren(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityError,
		Category: "Parse Issue",
		Spelling: "error: unknown type name 'Foo'",
		Children: []Diagnostic{
			{Severity: SeverityNote, Spelling: "in file included from main.c:1:"},
			{Severity: SeverityNote, Spelling: "note: did you mean 'foo'?"},
		},
	}

	set := FormatDiagnostics([]Diagnostic{d}, FormatOptions{})
	lines := set.Diags[0].Lines

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "In file included from main.c:1:" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "error: unknown type name 'Foo' [Parse Issue]" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[2] != "  note: did you mean 'foo'?" {
		t.Errorf("line 2 = %q", lines[2])
	}
}
