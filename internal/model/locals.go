// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file provides a struct to recognize the HCL `locals` block.
//
// Locals are only collected here. They may reference each other, so they are
// evaluated by the loader once every file of the scene has been parsed.
package model

import "github.com/hashicorp/hcl/v2"

// hclLocalsBlock lets the decoder accept `locals` blocks.
type hclLocalsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// parseLocals flattens all `locals` blocks of a file into one attribute map.
func parseLocals(blocks []*hclLocalsBlock) (hcl.Attributes, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	locals := make(hcl.Attributes)

	for _, block := range blocks {
		attrs, attrDiags := block.Body.JustAttributes()
		diags = append(diags, attrDiags...)
		for name, attr := range attrs {
			if prev, exists := locals[name]; exists {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate local value",
					Detail:   "A local value named \"" + name + "\" was already defined at " + prev.NameRange.String() + ".",
					Subject:  attr.NameRange.Ptr(),
				})
				continue
			}
			locals[name] = attr
		}
	}

	return locals, diags
}
