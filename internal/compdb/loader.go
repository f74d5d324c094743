package compdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/helixhorned/ljclang-go/internal/werrors"
)

// entryShape distinguishes the two compile_commands.json entry formats
// spec.md §4.A allows. A single database must use exactly one shape
// throughout, decided by the first entry's keys.
type entryShape int

const (
	shapeUnknown entryShape = iota
	shapeArguments
	shapeCommand
)

// rawSchema describes the union of both accepted entry shapes so a
// structurally malformed database (wrong JSON kind, missing required
// keys, wrong value types) is rejected before any business-rule checks
// run, matching the loader's "operates on a JSON value model" design
// (spec.md §9): validation happens once, up front, against a schema.
var rawSchema = &jsonschema.Schema{
	Type: "array",
	Items: &jsonschema.Schema{
		Type:     "object",
		Required: []string{"directory", "file"},
		Properties: map[string]*jsonschema.Schema{
			"directory": {Type: "string"},
			"file":      {Type: "string"},
			"arguments": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"command":   {Type: "string"},
		},
	},
}

// Load reads and canonicalizes the compile_commands.json at path.
func Load(path string) (*CompileCommandSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, werrors.LoadError("reading compile database %s: %v", path, err)
	}
	return LoadString(string(data))
}

// LoadString canonicalizes an in-memory compile_commands.json document.
func LoadString(data string) (*CompileCommandSet, error) {
	var rawEntries []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &rawEntries); err != nil {
		return nil, werrors.LoadError("compile database is not a JSON array of objects: %v", err)
	}

	resolved, err := rawSchema.Resolve(nil)
	if err != nil {
		return nil, werrors.Internal("resolving compile database schema: %v", err)
	}
	var generic any
	if err := json.Unmarshal([]byte(data), &generic); err != nil {
		return nil, werrors.LoadError("compile database is not valid JSON: %v", err)
	}
	if err := resolved.Validate(generic); err != nil {
		return nil, werrors.LoadError("compile database entry is malformed: %v", err)
	}

	if len(rawEntries) == 0 {
		return NewCompileCommandSet(nil), nil
	}

	shape, err := detectShape(rawEntries[0])
	if err != nil {
		return nil, err
	}

	commands := make([]CompileCommand, 0, len(rawEntries))
	for i, raw := range rawEntries {
		thisShape, err := detectShape(raw)
		if err != nil {
			return nil, err
		}
		if thisShape != shape {
			return nil, werrors.LoadError("entry %d uses a different shape than entry 0 (mixed arguments/command databases are not supported)", i)
		}

		directory, file, compiler, argv, err := decodeEntry(raw, shape)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		cmd, err := canonicalize(directory, file, compiler, argv)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		commands = append(commands, cmd)
	}

	return NewCompileCommandSet(commands), nil
}

func detectShape(raw map[string]json.RawMessage) (entryShape, error) {
	_, hasArgs := raw["arguments"]
	_, hasCmd := raw["command"]
	switch {
	case hasArgs && !hasCmd:
		return shapeArguments, nil
	case hasCmd && !hasArgs:
		return shapeCommand, nil
	default:
		return shapeUnknown, werrors.LoadError("entry must have exactly one of \"arguments\" or \"command\"")
	}
}

func decodeEntry(raw map[string]json.RawMessage, shape entryShape) (directory, file, compiler string, argv []string, err error) {
	if err = jsonString(raw, "directory", &directory); err != nil {
		return
	}
	if err = jsonString(raw, "file", &file); err != nil {
		return
	}
	if directory == "" || file == "" {
		err = werrors.LoadError("entry is missing \"directory\" or \"file\"")
		return
	}

	switch shape {
	case shapeArguments:
		var args []string
		if err = json.Unmarshal(raw["arguments"], &args); err != nil {
			err = werrors.LoadError("\"arguments\" must be an array of strings: %v", err)
			return
		}
		if len(args) == 0 {
			err = werrors.LoadError("\"arguments\" must not be empty")
			return
		}
		compiler, argv = args[0], args[1:]
	case shapeCommand:
		var command string
		if err = jsonString(raw, "command", &command); err != nil {
			return
		}
		if strings.ContainsAny(command, "\\") {
			for i, r := range command {
				if r == '\\' && i+1 < len(command) && isWhitespaceByte(command[i+1]) {
					err = werrors.LoadError("\"command\" uses a backslash-whitespace escape sequence, which is not supported: %q", command)
					return
				}
			}
		}
		fields := strings.Fields(command)
		if len(fields) == 0 {
			err = werrors.LoadError("\"command\" must not be empty")
			return
		}
		compiler, argv = fields[0], fields[1:]
	}
	return
}

func isWhitespaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func jsonString(raw map[string]json.RawMessage, key string, out *string) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(v, out); err != nil {
		return werrors.LoadError("%q must be a string: %v", key, err)
	}
	return nil
}

// canonicalize resolves file to an absolute path and substitutes it for
// its original occurrence in argv, per spec.md §4.A. Exactly one
// occurrence of the original file string must exist in argv.
func canonicalize(directory, file, compiler string, argv []string) (CompileCommand, error) {
	if !filepath.IsAbs(directory) {
		return CompileCommand{}, werrors.LoadError("\"directory\" must be absolute: %q", directory)
	}

	originalFile := file
	absFile := file
	if !filepath.IsAbs(absFile) {
		absFile = filepath.Join(directory, absFile)
	}

	args := make([]string, len(argv))
	copy(args, argv)

	matches := 0
	for i, a := range args {
		if a == originalFile {
			args[i] = absFile
			matches++
		}
	}
	if matches != 1 {
		return CompileCommand{}, werrors.LoadError(
			"file %q must appear in argv exactly once, found %d occurrences", originalFile, matches)
	}

	return CompileCommand{
		Directory:          directory,
		File:               absFile,
		CompilerExecutable: compiler,
		Arguments:          args,
	}, nil
}
