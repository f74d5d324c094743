package diagfmt

import "testing"

func TestPrinterStateFiltersRepeats(t *testing.T) {
	p := NewPrinterState()

	set1 := FormattedDiagSet{
		Diags: []FormattedDiag{
			{Lines: []string{"warning: unused variable 'x'"}},
		},
		Info: &FormattedDiag{Lines: []string{"NOTE: omitting 1 following diagnostics."}},
	}
	kept1 := p.Filter(set1)
	if len(kept1.Diags) != 1 || kept1.Info == nil {
		t.Fatalf("first occurrence should be kept in full, got %+v", kept1)
	}

	set2 := FormattedDiagSet{
		Diags: []FormattedDiag{
			{Lines: []string{"warning: unused variable 'x'"}},
		},
	}
	kept2 := p.Filter(set2)
	if len(kept2.Diags) != 0 {
		t.Fatalf("repeat should be filtered, got %+v", kept2)
	}

	summary, ok := p.Summary()
	if !ok {
		t.Fatal("expected a summary after one omission")
	}
	if summary != "NOTE: omitted 1 repeated diagnostic from 1 command." {
		t.Errorf("summary = %q", summary)
	}
}

func TestPrinterStateSuppressesInfoWhenLastDiagSkipped(t *testing.T) {
	p := NewPrinterState()
	p.Filter(FormattedDiagSet{
		Diags: []FormattedDiag{{Lines: []string{"error: boom"}}},
	})

	set := FormattedDiagSet{
		Diags: []FormattedDiag{
			{Lines: []string{"warning: fresh one"}},
			{Lines: []string{"error: boom"}},
		},
		Info: &FormattedDiag{Lines: []string{"NOTE: omitting 3 following diagnostics."}},
	}
	kept := p.Filter(set)
	if len(kept.Diags) != 1 {
		t.Fatalf("expected 1 kept diagnostic, got %d", len(kept.Diags))
	}
	if kept.Info != nil {
		t.Error("info line describing the dropped last diagnostic should be suppressed")
	}
}

func TestNormalizeStripsInclusionPrefixLines(t *testing.T) {
	a := normalize([]string{"In file included from main.c:1:", "error: boom"})
	b := normalize([]string{"In file included from other.c:9:", "error: boom"})
	if a != b {
		t.Errorf("normalized forms should match regardless of inclusion-prefix line: %q vs %q", a, b)
	}
}
