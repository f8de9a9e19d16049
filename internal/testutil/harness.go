package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/forestgrid/internal/app"
	"github.com/specialistvlad/forestgrid/internal/hcl"
	"github.com/specialistvlad/forestgrid/internal/registry"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// LogOutput holds everything the app wrote: logs and print output alike.
	LogOutput string
	Err       error
	App       *app.App
	// SceneDir is the directory the scene files were written to.
	SceneDir string
}

// Options tweak the app configuration used by the harness.
type Options struct {
	CacheSize int
	Workers   int
	LogFormat string
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, Options{}, modules...)
}

// RunIntegrationTestWithContext writes files into a fresh scene directory,
// builds an app around it and runs it with ctx. Relative names such as
// "rows/north.hcl" create the matching subdirectories. An empty modules list
// runs with the built-in modules.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, opts Options, modules ...registry.Module) *HarnessResult {
	t.Helper()

	// 1. Write all scene files to a temporary directory.
	sceneDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(sceneDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	// 2. Configure the app against the scene directory.
	cfg, err := app.NewConfig(app.Config{
		ScenePath: sceneDir,
		LogLevel:  "debug",
		LogFormat: opts.LogFormat,
		CacheSize: opts.CacheSize,
		Workers:   opts.Workers,
	})
	require.NoError(t, err)

	logBuffer := &app.SafeBuffer{}
	testApp := app.NewApp(logBuffer, cfg, hcl.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("FORESTGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	// 3. Run the app and capture the outcome.
	runErr := testApp.Run(ctx)

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
		SceneDir:  sceneDir,
	}
}
