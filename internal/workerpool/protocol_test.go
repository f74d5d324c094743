package workerpool

import (
	"bytes"
	"testing"

	"github.com/helixhorned/ljclang-go/internal/diagfmt"
	"github.com/helixhorned/ljclang-go/internal/inclgraph"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, kindDone, []byte("hello")); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}
	kind, payload, err := readFrame(&buf)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if kind != kindDone {
		t.Errorf("kind = %v, want kindDone", kind)
	}
	if string(payload) != "hello" {
		t.Errorf("payload = %q", payload)
	}
}

func TestEncodeDecodeDone(t *testing.T) {
	diags := diagfmt.FormattedDiagSet{
		Diags: []diagfmt.FormattedDiag{{Lines: []string{"warning: unused variable 'x'"}}},
	}
	g := inclgraph.New()
	g.AddInclusion("/w/a.h", "/w/main.c")

	payload, err := encodeDone(diags, g, true)
	if err != nil {
		t.Fatalf("encodeDone: %v", err)
	}

	gotDiags, gotGraph, hadAutoInclude, err := decodeDone(payload)
	if err != nil {
		t.Fatalf("decodeDone: %v", err)
	}
	if !hadAutoInclude {
		t.Error("expected hadAutoInclude to round-trip true")
	}
	if len(gotDiags.Diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(gotDiags.Diags))
	}
	if !gotGraph.Contains("/w/a.h") {
		t.Error("expected the graph to round-trip its nodes")
	}
}

func TestEncodeDecodeFail(t *testing.T) {
	payload := encodeFail(3, "boom")
	code, msg := decodeFail(payload)
	if code != 3 || msg != "boom" {
		t.Errorf("decodeFail = (%d, %q), want (3, \"boom\")", code, msg)
	}
}

func TestParseWorkerArgs(t *testing.T) {
	w, err := ParseWorkerArgs([]string{"/w/compile_commands.json", "5"})
	if err != nil {
		t.Fatalf("ParseWorkerArgs: %v", err)
	}
	if w.CompDBPath != "/w/compile_commands.json" || w.Index != 5 {
		t.Errorf("ParseWorkerArgs = %+v", w)
	}
}

func TestParseWorkerArgsRejectsWrongCount(t *testing.T) {
	if _, err := ParseWorkerArgs([]string{"only-one"}); err == nil {
		t.Fatal("expected an error for the wrong argument count")
	}
}
