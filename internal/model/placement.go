// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the model for a `placement` block.
//
// A placement block names the shared intrinsic state through its two labels
// (category and variant) and the extrinsic state through its x and y
// attributes. Keeping x, y and count as expressions lets one block describe a
// whole row of trees:
//
//	placement "oak" "green" {
//	  count = 3
//	  x     = 10 + count.index * local.spacing
//	  y     = 20
//	}
package model

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Placement is the parsed form of a `placement` block.
type Placement struct {
	Category      string
	Variant       string
	FSInformation *FSInfo
	DeclRange     hcl.Range

	// Count is nil when the block has no count attribute.
	Count hcl.Expression
	X     hcl.Expression
	Y     hcl.Expression
}

// Expressions returns all HCL expressions defined in the block.
func (p *Placement) Expressions() []hcl.Expression {
	if p == nil {
		return nil
	}
	exprs := []hcl.Expression{p.X, p.Y}
	if p.Count != nil {
		exprs = append(exprs, p.Count)
	}
	return exprs
}

// hclPlacementBlock is the decoding target for a `placement` block.
type hclPlacementBlock struct {
	Category string   `hcl:"category,label"`
	Variant  string   `hcl:"variant,label"`
	Body     hcl.Body `hcl:",remain"`
}

var placementSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "count"},
		{Name: "x", Required: true},
		{Name: "y", Required: true},
	},
}

// newPlacementFromHCL validates a decoded block and converts it into a Placement.
func newPlacementFromHCL(block *hclPlacementBlock, filePath string) (*Placement, hcl.Diagnostics) {
	content, diags := block.Body.Content(placementSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	declRange := block.Body.MissingItemRange()

	labels := []struct{ name, value string }{
		{"category", block.Category},
		{"variant", block.Variant},
	}
	for _, label := range labels {
		if strings.TrimSpace(label.value) == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid placement label",
				Detail:   "The " + label.name + " label of a placement block must not be empty.",
				Subject:  declRange.Ptr(),
			})
		}
	}

	count, countDiags := parseCount(content.Attributes)
	diags = append(diags, countDiags...)
	if diags.HasErrors() {
		return nil, diags
	}

	return &Placement{
		Category:      block.Category,
		Variant:       block.Variant,
		FSInformation: NewFSInfo(filePath),
		DeclRange:     declRange,
		Count:         count,
		X:             content.Attributes["x"].Expr,
		Y:             content.Attributes["y"].Expr,
	}, diags
}
