package hcl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/forestgrid/internal/config"
	"github.com/specialistvlad/forestgrid/internal/ctxlog"
	"github.com/specialistvlad/forestgrid/internal/fsutil"
	"github.com/specialistvlad/forestgrid/internal/model"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL scene loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the scene loading process: discover files, parse each one,
// merge the declarations, then evaluate them into the format-agnostic model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Scene, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	scene := config.NewScene()
	if len(hclFiles) == 0 {
		logger.Warn("No .hcl scene files found, returning empty scene.", "paths", paths)
		return scene, nil
	}

	parser := hclparse.NewParser()
	files := make([]*model.File, 0, len(hclFiles))
	for _, path := range hclFiles {
		file, err := model.ParseFile(path, parser)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	kind, err := mergeKind(files)
	if err != nil {
		return nil, err
	}
	if kind != "" {
		scene.Kind = kind
	}

	locals, err := mergeLocals(files)
	if err != nil {
		return nil, err
	}
	evalCtx, diags := evalLocals(locals)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate locals: %w", diags)
	}
	logger.Debug("Locals evaluated.", "count", len(locals))

	for _, file := range files {
		for _, p := range file.Placements {
			expanded, err := expandPlacement(p, evalCtx)
			if err != nil {
				return nil, err
			}
			scene.Placements = append(scene.Placements, expanded...)
		}
		for _, out := range file.Outputs {
			scene.Outputs = append(scene.Outputs, l.translateOutput(out, evalCtx))
		}
	}

	logger.Debug("HCL loading complete.", "kind", scene.Kind, "placements", len(scene.Placements), "outputs", len(scene.Outputs))
	return scene, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found, without duplicates, keeping the order of paths.
func (l *Loader) findAllHCLFiles(ctx context.Context, paths []string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Scene path does not exist, skipping.", "path", path)
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, f := range files {
			if _, wasSeen := seen[f]; !wasSeen {
				allFiles = append(allFiles, f)
				seen[f] = struct{}{}
			}
		}
	}
	return allFiles, nil
}

// translateOutput converts an output block into the agnostic model. Its body is
// decoded lazily, with locals in scope, by whichever sink handles the type.
func (l *Loader) translateOutput(out *model.Output, evalCtx *hcl.EvalContext) *config.Output {
	body := out.Body
	return config.NewOutput(out.Type, out.DeclRange.String(), func(target any) error {
		if diags := gohcl.DecodeBody(body, evalCtx, target); diags.HasErrors() {
			return diags
		}
		return nil
	})
}

// mergeKind returns the kind the files agree on, or "" when none sets it.
func mergeKind(files []*model.File) (string, error) {
	kind, from := "", ""
	for _, file := range files {
		if file.Kind == "" {
			continue
		}
		if kind != "" && file.Kind != kind {
			return "", fmt.Errorf("conflicting scene kinds: %q in %s and %q in %s",
				kind, from, file.Kind, file.FSInformation.FilePath)
		}
		kind, from = file.Kind, file.FSInformation.FilePath
	}
	return kind, nil
}

// mergeLocals flattens the locals of every file into one scope.
func mergeLocals(files []*model.File) (hcl.Attributes, error) {
	merged := make(hcl.Attributes)
	for _, file := range files {
		for name, attr := range file.Locals {
			if prev, exists := merged[name]; exists {
				return nil, fmt.Errorf("local value %q is defined twice: %s and %s",
					name, prev.NameRange.String(), attr.NameRange.String())
			}
			merged[name] = attr
		}
	}
	return merged, nil
}
