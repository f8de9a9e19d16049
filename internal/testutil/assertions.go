package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertRendered checks that the print output contains the line for a tree of
// the given type and color at (x, y).
func AssertRendered(t *testing.T, result *HarnessResult, x, y float64, treeType, color string) {
	t.Helper()

	expected := fmt.Sprintf("at (%g,%g) rendering %s %s", x, y, color, treeType)
	require.True(t,
		strings.Contains(result.LogOutput, expected),
		"expected render line %q was not found in output", expected,
	)
}

// AssertHeader checks the print output header for n placements of k types.
func AssertHeader(t *testing.T, result *HarnessResult, n, k int) {
	t.Helper()

	expected := fmt.Sprintf("Rendering forest: %d placements, %d payload types", n, k)
	require.Contains(t, result.LogOutput, expected)
}
