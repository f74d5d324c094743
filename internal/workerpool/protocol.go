// Package workerpool implements component F: running each compile
// command's parse either serially in-process (concurrency 0) or by
// spawning bounded-concurrency subprocess workers communicating over
// pipes, the rewrite this codebase's spec explicitly allows in place of
// a literal fork() per command. Grounded on syz-declextract's worker
// pool (one subprocess invocation per unit of work, fed through a
// bounded number of concurrent goroutines) and on x/sync/semaphore for
// the concurrency cap.
package workerpool

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/helixhorned/ljclang-go/internal/diagfmt"
	"github.com/helixhorned/ljclang-go/internal/inclgraph"
)

type frameKind byte

const (
	kindDone frameKind = 1
	kindFail frameKind = 2
)

// writeFrame writes one length-prefixed message to w: 1 byte kind,
// 4 bytes payload length (LE), then the payload.
func writeFrame(w io.Writer, kind frameKind, payload []byte) error {
	header := make([]byte, 5)
	header[0] = byte(kind)
	binary.LittleEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) (frameKind, []byte, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, fmt.Errorf("workerpool: reading frame header: %w", err)
	}
	n := binary.LittleEndian.Uint32(header[1:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("workerpool: reading frame payload: %w", err)
	}
	return frameKind(header[0]), payload, nil
}

// encodeDone packs a successful parse outcome: 1 byte hadAutoInclude,
// then length-prefixed diagfmt and inclgraph payloads.
func encodeDone(diags diagfmt.FormattedDiagSet, g *inclgraph.InclusionGraph, hadAutoInclude bool) ([]byte, error) {
	diagBytes, err := diagfmt.Serialize(diags)
	if err != nil {
		return nil, fmt.Errorf("workerpool: serializing diagnostics: %w", err)
	}
	graphBytes, err := g.Serialize()
	if err != nil {
		return nil, fmt.Errorf("workerpool: serializing inclusion graph: %w", err)
	}

	var buf bytes.Buffer
	if hadAutoInclude {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	writeLenPrefixed(&buf, diagBytes)
	writeLenPrefixed(&buf, graphBytes)
	return buf.Bytes(), nil
}

func decodeDone(payload []byte) (diagfmt.FormattedDiagSet, *inclgraph.InclusionGraph, bool, error) {
	if len(payload) < 1 {
		return diagfmt.FormattedDiagSet{}, nil, false, fmt.Errorf("workerpool: truncated done payload")
	}
	hadAutoInclude := payload[0] == 1
	rest := payload[1:]

	diagBytes, rest, err := readLenPrefixed(rest)
	if err != nil {
		return diagfmt.FormattedDiagSet{}, nil, false, err
	}
	graphBytes, _, err := readLenPrefixed(rest)
	if err != nil {
		return diagfmt.FormattedDiagSet{}, nil, false, err
	}

	diags, err := diagfmt.Deserialize(diagBytes)
	if err != nil {
		return diagfmt.FormattedDiagSet{}, nil, false, fmt.Errorf("workerpool: decoding diagnostics: %w", err)
	}
	g, err := inclgraph.Deserialize(graphBytes)
	if err != nil {
		return diagfmt.FormattedDiagSet{}, nil, false, fmt.Errorf("workerpool: decoding inclusion graph: %w", err)
	}
	return diags, g, hadAutoInclude, nil
}

// encodeFail packs a process-fatal failure: 1 byte exit code, then the
// error message.
func encodeFail(code int, message string) []byte {
	payload := make([]byte, 1, 1+len(message))
	payload[0] = byte(code)
	return append(payload, message...)
}

func decodeFail(payload []byte) (int, string) {
	if len(payload) == 0 {
		return 255, "workerpool: empty fail payload"
	}
	return int(payload[0]), string(payload[1:])
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(b)))
	buf.Write(lenBytes[:])
	buf.Write(b)
}

func readLenPrefixed(b []byte) (data, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("workerpool: truncated length prefix")
	}
	n := binary.LittleEndian.Uint32(b[:4])
	if uint32(len(b)-4) < n {
		return nil, nil, fmt.Errorf("workerpool: truncated payload (want %d bytes)", n)
	}
	return b[4 : 4+n], b[4+n:], nil
}
