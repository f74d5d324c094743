package inclgraph

import (
	"bytes"
	"fmt"
)

// Wire format for sending one per-TU graph from a worker subprocess back
// to the driver over a pipe (component F): a NUL-separated list of node
// paths, a single 0xFD sentinel byte, then NUL-separated "to<0xFE>from"
// edge records. Reuses internal/diagfmt's reserved octets since the same
// non-UTF-8-producible bytes are safe here too.
const (
	recordSep byte = 0x00
	fieldSep  byte = 0xFE
	endNodes  byte = 0xFD
)

// Serialize encodes ig for transfer across a worker pipe.
func (ig *InclusionGraph) Serialize() ([]byte, error) {
	var buf bytes.Buffer

	names := ig.IterateFileNames()
	for _, p := range names {
		if err := checkClean(p); err != nil {
			return nil, err
		}
		buf.WriteString(p)
		buf.WriteByte(recordSep)
	}
	buf.WriteByte(endNodes)

	for _, included := range names {
		for _, includer := range ig.outEdgePaths(included) {
			buf.WriteString(included)
			buf.WriteByte(fieldSep)
			buf.WriteString(includer)
			buf.WriteByte(recordSep)
		}
	}

	return buf.Bytes(), nil
}

func checkClean(s string) error {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case recordSep, fieldSep, endNodes:
			return fmt.Errorf("inclgraph: path %q contains a reserved wire byte 0x%02X", s, s[i])
		}
	}
	return nil
}

// Deserialize reconstructs a graph from Serialize's wire format.
func Deserialize(data []byte) (*InclusionGraph, error) {
	idx := bytes.IndexByte(data, endNodes)
	if idx < 0 {
		return nil, fmt.Errorf("inclgraph: payload is missing the node-list sentinel")
	}

	g := New()
	nodePart, edgePart := data[:idx], data[idx+1:]

	for _, chunk := range bytes.Split(nodePart, []byte{recordSep}) {
		if len(chunk) == 0 {
			continue
		}
		g.getOrCreate(string(chunk))
	}

	for _, chunk := range bytes.Split(edgePart, []byte{recordSep}) {
		if len(chunk) == 0 {
			continue
		}
		fields := bytes.SplitN(chunk, []byte{fieldSep}, 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("inclgraph: malformed edge record %q", chunk)
		}
		g.AddInclusion(string(fields[0]), string(fields[1]))
	}

	return g, nil
}
