// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines File, the parsed content of a single scene file.
//
// Why per-file?
//
// A scene may be spread over many files and directories. Each file is parsed
// and statically validated on its own; merging (kind agreement, local name
// clashes) and evaluation happen in the loader, which sees all files at once.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// File is everything declared in one scene file.
type File struct {
	FSInformation *FSInfo

	// Kind is empty when the file does not set it.
	Kind       string
	Locals     hcl.Attributes
	Placements []*Placement
	Outputs    []*Output
}

// hclSceneFile represents the top-level structure of a scene file for decoding.
type hclSceneFile struct {
	Kind       *string              `hcl:"kind,optional"`
	Locals     []*hclLocalsBlock    `hcl:"locals,block"`
	Placements []*hclPlacementBlock `hcl:"placement,block"`
	Outputs    []*hclOutputBlock    `hcl:"output,block"`
}

// ParseFile parses and statically validates a single HCL scene file.
func ParseFile(filePath string, parser *hclparse.Parser) (*File, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsed hclSceneFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	file := &File{FSInformation: NewFSInfo(filePath)}
	if parsed.Kind != nil {
		file.Kind = *parsed.Kind
	}

	locals, diags := parseLocals(parsed.Locals)
	if diags.HasErrors() {
		return nil, fmt.Errorf("error parsing locals in file %s: %w", filePath, diags)
	}
	file.Locals = locals

	for _, block := range parsed.Placements {
		placement, diags := newPlacementFromHCL(block, filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("error parsing placement %q %q in file %s: %w", block.Category, block.Variant, filePath, diags)
		}
		file.Placements = append(file.Placements, placement)
	}

	for _, block := range parsed.Outputs {
		output, diags := newOutputFromHCL(block, filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("error parsing output in file %s: %w", filePath, diags)
		}
		file.Outputs = append(file.Outputs, output)
	}

	return file, nil
}
