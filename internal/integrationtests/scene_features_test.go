package integration_tests

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/forestgrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestScene_LocalsAndCountAcrossFiles(t *testing.T) {
	files := map[string]string{
		"locals.hcl": `
			locals {
				spacing = 10
				origin  = 5
				row     = local.origin * 2
			}
		`,
		"rows/north.hcl": `
			placement "oak" "green" {
				count = 3
				x     = local.origin + count.index * local.spacing
				y     = local.row
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	testutil.AssertHeader(t, result, 3, 1)
	testutil.AssertRendered(t, result, 5, 10, "oak", "green")
	testutil.AssertRendered(t, result, 15, 10, "oak", "green")
	testutil.AssertRendered(t, result, 25, 10, "oak", "green")
}

func TestScene_MultipleOutputs(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "render.jsonl")
	sceneHCL := `
		locals {
			file = "` + filepath.ToSlash(jsonPath) + `"
		}
		placement "maple" "red" {
			count = 2
			x     = count.index
			y     = 7
		}
		output "print" {
			header = false
			prefix = "> "
		}
		output "jsonl" {
			path = local.file
		}
	`

	result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": sceneHCL})

	require.NoError(t, result.Err)
	require.Contains(t, result.LogOutput, "> at (0,7) rendering red maple")
	require.Contains(t, result.LogOutput, "> at (1,7) rendering red maple")
	require.NotContains(t, result.LogOutput, "Rendering forest:")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "maple", first["category"])
	require.Equal(t, 7.0, first["y"])
}

func TestScene_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "negative literal count",
			files:   map[string]string{"main.hcl": "placement \"oak\" \"green\" {\n  count = -1\n  x = 0\n  y = 0\n}\n"},
			wantErr: "must not be negative",
		},
		{
			name:    "missing y",
			files:   map[string]string{"main.hcl": "placement \"oak\" \"green\" {\n  x = 0\n}\n"},
			wantErr: "Missing required argument",
		},
		{
			name: "conflicting kinds",
			files: map[string]string{
				"a.hcl": `kind = "tree"`,
				"b.hcl": `kind = "shrub"`,
			},
			wantErr: "conflicting scene kinds",
		},
		{
			name:    "unregistered kind",
			files:   map[string]string{"main.hcl": `kind = "shrub"`},
			wantErr: "scene kind 'shrub' is not registered",
		},
		{
			name:    "unknown output",
			files:   map[string]string{"main.hcl": `output "kafka" {}`},
			wantErr: "no sink registered for this type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := testutil.RunIntegrationTest(t, tc.files)

			require.Error(t, result.Err)
			require.Contains(t, result.Err.Error(), tc.wantErr)
		})
	}
}

func TestScene_JSONLogs(t *testing.T) {
	sceneHCL := `
		placement "oak" "green" {
			x = 1
			y = 2
		}
	`
	result := testutil.RunIntegrationTestWithContext(t.Context(), t,
		map[string]string{"main.hcl": sceneHCL},
		testutil.Options{LogFormat: "json"},
	)

	require.NoError(t, result.Err)
	require.Contains(t, result.LogOutput, `"msg":"Creating new tree type."`)
	testutil.AssertRendered(t, result, 1, 2, "oak", "green")
}
