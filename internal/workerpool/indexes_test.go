package workerpool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helixhorned/ljclang-go/internal/compdb"
)

func TestIndexesOfDefaultsToAllCommands(t *testing.T) {
	cmds := compdb.NewCompileCommandSet([]compdb.CompileCommand{{}, {}, {}})
	got := indexesOf(cmds, Options{})
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestIndexesOfHonorsExplicitSubset(t *testing.T) {
	cmds := compdb.NewCompileCommandSet([]compdb.CompileCommand{{}, {}, {}})
	got := indexesOf(cmds, Options{Indexes: []int{2}})
	require.Equal(t, []int{2}, got)
}
