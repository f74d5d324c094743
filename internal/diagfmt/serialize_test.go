package diagfmt

import (
	"reflect"
	"testing"
)

func TestSerializeRoundTrip(t *testing.T) {
	set := FormattedDiagSet{
		Diags: []FormattedDiag{
			{Lines: []string{"warning: unused variable 'x'", "  note: declared here"}},
			{Lines: []string{"error: boom"}},
		},
		Info:       &FormattedDiag{Lines: []string{"NOTE: omitting 1 following diagnostics."}},
		UsesColors: true,
	}

	data, err := Serialize(set)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.UsesColors != set.UsesColors {
		t.Errorf("UsesColors = %v, want %v", got.UsesColors, set.UsesColors)
	}
	if len(got.Diags) != len(set.Diags) {
		t.Fatalf("got %d diags, want %d", len(got.Diags), len(set.Diags))
	}
	for i := range set.Diags {
		if !reflect.DeepEqual(got.Diags[i].Lines, set.Diags[i].Lines) {
			t.Errorf("diag %d lines = %v, want %v", i, got.Diags[i].Lines, set.Diags[i].Lines)
		}
	}
	if got.Info == nil || got.Info.Lines[0] != set.Info.Lines[0] {
		t.Errorf("info = %+v, want %+v", got.Info, set.Info)
	}
}

func TestSerializeRoundTripNoInfo(t *testing.T) {
	set := FormattedDiagSet{
		Diags: []FormattedDiag{{Lines: []string{"note: nothing to see"}}},
	}
	data, err := Serialize(set)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Info != nil {
		t.Errorf("expected nil Info, got %+v", got.Info)
	}
}

func TestSerializeRejectsReservedBytes(t *testing.T) {
	set := FormattedDiagSet{
		Diags: []FormattedDiag{{Lines: []string{string([]byte{0xFE})}}},
	}
	if _, err := Serialize(set); err == nil {
		t.Fatal("expected an error for a line containing the reserved separator byte")
	}
}

func TestDeserializeEmptyPayload(t *testing.T) {
	if _, err := Deserialize(nil); err == nil {
		t.Fatal("expected an error for an empty payload")
	}
}
