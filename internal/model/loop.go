// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file centralizes the static validation of the `count` attribute.
//
// A placement block is repeated `count` times, with `count.index` available
// to its x and y expressions. A literal count can be checked right away; a
// count that references locals is checked again by the loader after
// evaluation.
package model

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// MaxCount is the largest number of copies a single placement block may
// expand to.
const MaxCount = 1_000_000

// parseCount finds the "count" attribute and performs static type validation on it.
func parseCount(attrs hcl.Attributes) (hcl.Expression, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	countAttr, exists := attrs["count"]
	if !exists {
		return nil, diags
	}

	// If the expression is a literal value, we can validate it right now.
	if len(countAttr.Expr.Variables()) == 0 {
		val, valDiags := countAttr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return countAttr.Expr, diags
		}
		diags = append(diags, ValidateCount(val, countAttr.Expr.Range())...)
	}

	return countAttr.Expr, diags
}

// ValidateCount checks that val is a known, whole number in [0, MaxCount].
func ValidateCount(val cty.Value, rng hcl.Range) hcl.Diagnostics {
	invalid := func(detail string) hcl.Diagnostics {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid count value",
			Detail:   detail,
			Subject:  rng.Ptr(),
		}}
	}

	if val.IsNull() {
		return invalid("The 'count' attribute must not be null.")
	}
	if !val.IsKnown() || val.Type() != cty.Number {
		return invalid("The 'count' attribute must be a number.")
	}

	bf := val.AsBigFloat()
	if !bf.IsInt() {
		return invalid("The 'count' attribute must be a whole number.")
	}
	if bf.Sign() < 0 {
		return invalid("The 'count' attribute must not be negative.")
	}
	if bf.Cmp(big.NewFloat(MaxCount)) > 0 {
		return invalid(fmt.Sprintf("The 'count' attribute must not exceed %d.", MaxCount))
	}
	return nil
}
