package scanpath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToRelativeConvertsUnderRoot(t *testing.T) {
	require.Equal(t, "src/main.go", ToRelative("/home/user/project/src/main.go", "/home/user/project"))
}

func TestToRelativeFallsBackOutsideRoot(t *testing.T) {
	require.Equal(t, "/other/file.go", ToRelative("/other/file.go", "/home/user/project"))
}

func TestToRelativeLeavesAlreadyRelativeUnchanged(t *testing.T) {
	require.Equal(t, "src/main.go", ToRelative("src/main.go", "/home/user/project"))
}

func TestToAbsoluteJoinsUnderRoot(t *testing.T) {
	require.Equal(t, "/home/user/project/src/main.go", ToAbsolute("src/main.go", "/home/user/project"))
}

func TestToAbsoluteLeavesAlreadyAbsoluteUnchanged(t *testing.T) {
	require.Equal(t, "/abs/path.go", ToAbsolute("/abs/path.go", "/home/user/project"))
}

func TestMatcherExcludeWinsOverInclude(t *testing.T) {
	m := NewMatcher("/root", []string{"**/*.go"}, []string{"**/vendor/**"})
	require.False(t, m.Accept("/root/vendor/lib.go"))
	require.True(t, m.Accept("/root/src/main.go"))
}

func TestMatcherEmptyIncludeAcceptsEverythingNotExcluded(t *testing.T) {
	m := NewMatcher("/root", nil, []string{"**/*.log"})
	require.True(t, m.Accept("/root/src/main.go"))
	require.False(t, m.Accept("/root/debug.log"))
}

func TestMatcherMatchesRelativeFormWhenRawPatternMisses(t *testing.T) {
	m := NewMatcher("/root/project", []string{"src/**"}, nil)
	require.True(t, m.Accept("/root/project/src/main.go"))
	require.False(t, m.Accept("/root/project/other/main.go"))
}

func TestMatcherWithNoRootOnlyMatchesRawPath(t *testing.T) {
	m := NewMatcher("", []string{"src/**"}, nil)
	require.False(t, m.Accept("/root/project/src/main.go"))
	require.True(t, m.Accept("src/main.go"))
}
