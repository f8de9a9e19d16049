// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the model for an `output` block.
//
// Outputs select where rendered records go. The body belongs to whichever
// sink module handles the output type, so it is kept undecoded here and
// handed over as-is.
package model

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Output is the parsed form of an `output` block.
type Output struct {
	Type          string
	Body          hcl.Body
	FSInformation *FSInfo
	DeclRange     hcl.Range
}

// hclOutputBlock is the decoding target for an `output` block.
type hclOutputBlock struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

func newOutputFromHCL(block *hclOutputBlock, filePath string) (*Output, hcl.Diagnostics) {
	declRange := block.Body.MissingItemRange()
	if strings.TrimSpace(block.Type) == "" {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid output label",
			Detail:   "The type label of an output block must not be empty.",
			Subject:  declRange.Ptr(),
		}}
	}

	return &Output{
		Type:          block.Type,
		Body:          block.Body,
		FSInformation: NewFSInfo(filePath),
		DeclRange:     declRange,
	}, nil
}
