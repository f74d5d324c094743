package diagfmt

import (
	"bytes"
	"fmt"
)

// Reserved separator octets (spec.md §4.C / §6). These cannot appear in
// well-formed UTF-8 text, so they are safe wire delimiters.
const (
	lineSep      byte = 0xFE // between lines within one formatted diagnostic
	diagSep      byte = 0x00 // between formatted diagnostics
	noInfoMarker byte = 0xFD // trailing marker meaning "no info line"
)

// Serialize encodes a FormattedDiagSet for transfer across a worker pipe.
// It fails if any line contains a reserved separator octet.
func Serialize(set FormattedDiagSet) ([]byte, error) {
	var buf bytes.Buffer

	if set.UsesColors {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	for _, d := range set.Diags {
		if err := validateLines(d.Lines); err != nil {
			return nil, err
		}
		buf.Write(joinLines(d.Lines))
		buf.WriteByte(diagSep)
	}

	if set.Info != nil {
		if err := validateLines(set.Info.Lines); err != nil {
			return nil, err
		}
		buf.Write(joinLines(set.Info.Lines))
	} else {
		buf.WriteByte(noInfoMarker)
	}

	return buf.Bytes(), nil
}

// Deserialize reconstructs a FormattedDiagSet from Serialize's wire format.
func Deserialize(data []byte) (FormattedDiagSet, error) {
	if len(data) == 0 {
		return FormattedDiagSet{}, fmt.Errorf("diagfmt: empty payload has no trailing info marker")
	}

	colors := data[0] == 1
	parts := bytes.Split(data[1:], []byte{diagSep})

	diagParts, infoPart := parts[:len(parts)-1], parts[len(parts)-1]

	set := FormattedDiagSet{UsesColors: colors}
	for _, part := range diagParts {
		set.Diags = append(set.Diags, FormattedDiag{Lines: splitLines(part), UsesColors: colors})
	}

	if len(infoPart) == 1 && infoPart[0] == noInfoMarker {
		return set, nil
	}
	set.Info = &FormattedDiag{Lines: splitLines(infoPart), UsesColors: colors}
	return set, nil
}

func joinLines(lines []string) []byte {
	var buf bytes.Buffer
	for i, l := range lines {
		if i > 0 {
			buf.WriteByte(lineSep)
		}
		buf.WriteString(l)
	}
	return buf.Bytes()
}

func splitLines(b []byte) []string {
	if len(b) == 0 {
		return []string{""}
	}
	chunks := bytes.Split(b, []byte{lineSep})
	lines := make([]string, len(chunks))
	for i, c := range chunks {
		lines[i] = string(c)
	}
	return lines
}

func validateLines(lines []string) error {
	for _, l := range lines {
		for i := 0; i < len(l); i++ {
			switch l[i] {
			case lineSep, diagSep, noInfoMarker:
				return fmt.Errorf("diagfmt: formatted line contains reserved separator byte 0x%02X", l[i])
			}
		}
	}
	return nil
}
