// Package compdb loads a compile_commands.json compilation database and
// normalizes it into a canonical, immutable CompileCommandSet (component A
// of the watcher), plus the argument sanitizer (component B) that the TU
// parser wrapper uses before invoking the Clang front-end.
package compdb

// CompileCommand is one canonical entry: directory and file are absolute
// paths, arguments is argv[1..] with the original file occurrence replaced
// by its absolute form.
type CompileCommand struct {
	Directory          string
	File               string
	CompilerExecutable string
	Arguments          []string
}

// CompileCommandSet is an ordered, 1-indexed, immutable sequence of
// CompileCommand built once at startup and never mutated afterward.
type CompileCommandSet struct {
	commands []CompileCommand
}

// NewCompileCommandSet wraps an already-canonicalized slice.
func NewCompileCommandSet(commands []CompileCommand) *CompileCommandSet {
	return &CompileCommandSet{commands: commands}
}

// Len returns the number of commands in the set.
func (s *CompileCommandSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.commands)
}

// Get returns the command at the given 1-indexed position.
func (s *CompileCommandSet) Get(index int) (CompileCommand, bool) {
	if s == nil || index < 1 || index > len(s.commands) {
		return CompileCommand{}, false
	}
	return s.commands[index-1], true
}

// AllIndexes returns the full 1..N index range for this set, in order.
func (s *CompileCommandSet) AllIndexes() []int {
	if s == nil {
		return nil
	}
	idx := make([]int, len(s.commands))
	for i := range idx {
		idx[i] = i + 1
	}
	return idx
}
