package hcl

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/forestgrid/internal/config"
	"github.com/specialistvlad/forestgrid/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// evalLocals resolves locals that may reference each other and returns an
// evaluation context exposing them as `local.<name>`.
//
// Each pass evaluates every local whose references are already resolved; a
// pass that makes no progress means a cycle or a reference to an unknown local.
func evalLocals(attrs hcl.Attributes) (*hcl.EvalContext, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	values := make(map[string]cty.Value, len(attrs))

	pending := make([]string, 0, len(attrs))
	for name := range attrs {
		pending = append(pending, name)
	}
	sort.Strings(pending)

	for _, name := range pending {
		for _, traversal := range attrs[name].Expr.Variables() {
			if traversal.RootName() != "local" {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unsupported reference in local value",
					Detail:   "Local values may only reference other local values.",
					Subject:  traversal.SourceRange().Ptr(),
				})
			}
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	for len(pending) > 0 {
		var next []string
		for _, name := range pending {
			attr := attrs[name]
			if !localsResolved(attr.Expr, values) {
				next = append(next, name)
				continue
			}
			val, valDiags := attr.Expr.Value(localsContext(values))
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				return nil, diags
			}
			values[name] = val
		}

		if len(next) == len(pending) {
			for _, name := range next {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unresolvable local value",
					Detail:   fmt.Sprintf("Local value %q references an undefined local value or takes part in a reference cycle.", name),
					Subject:  attrs[name].NameRange.Ptr(),
				})
			}
			return nil, diags
		}
		pending = next
	}

	return localsContext(values), diags
}

// localsResolved reports whether every `local.<name>` used by expr has a value.
func localsResolved(expr hcl.Expression, values map[string]cty.Value) bool {
	for _, traversal := range expr.Variables() {
		if len(traversal) < 2 {
			return false
		}
		attr, ok := traversal[1].(hcl.TraverseAttr)
		if !ok {
			return false
		}
		if _, ok := values[attr.Name]; !ok {
			return false
		}
	}
	return true
}

func localsContext(values map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"local": cty.ObjectVal(values),
		},
	}
}

// checkReferences reports every variable in the block whose root is neither
// `local` nor `count`, before anything is evaluated.
func checkReferences(p *model.Placement) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, expr := range p.Expressions() {
		for _, traversal := range expr.Variables() {
			switch traversal.RootName() {
			case "local", "count":
			default:
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unsupported reference in placement",
					Detail:   fmt.Sprintf("%q is not available here; placements may reference local values and count.index.", traversal.RootName()),
					Subject:  traversal.SourceRange().Ptr(),
				})
			}
		}
	}
	return diags
}

// expandPlacement evaluates a placement block once per count index.
func expandPlacement(p *model.Placement, evalCtx *hcl.EvalContext) ([]*config.Placement, error) {
	if diags := checkReferences(p); diags.HasErrors() {
		return nil, fmt.Errorf("invalid placement %q %q in %s: %w",
			p.Category, p.Variant, p.FSInformation.FilePath, diags)
	}

	count, diags := evalCount(p.Count, evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate count of placement %q %q in %s: %w",
			p.Category, p.Variant, p.FSInformation.FilePath, diags)
	}

	var placements []*config.Placement
	for i := 0; i < count; i++ {
		iterCtx := evalCtx.NewChild()
		iterCtx.Variables = map[string]cty.Value{
			"count": cty.ObjectVal(map[string]cty.Value{
				"index": cty.NumberIntVal(int64(i)),
			}),
		}

		x, xDiags := evalNumber(p.X, iterCtx, "x")
		y, yDiags := evalNumber(p.Y, iterCtx, "y")
		diags = append(append(diags, xDiags...), yDiags...)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate placement %q %q (count.index %d) in %s: %w",
				p.Category, p.Variant, i, p.FSInformation.FilePath, diags)
		}

		placements = append(placements, &config.Placement{
			Category: p.Category,
			Variant:  p.Variant,
			X:        x,
			Y:        y,
			Source:   p.DeclRange.String(),
		})
	}
	return placements, nil
}

// evalCount returns 1 when expr is absent or null.
func evalCount(expr hcl.Expression, evalCtx *hcl.EvalContext) (int, hcl.Diagnostics) {
	if expr == nil {
		return 1, nil
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return 0, diags
	}
	if val.IsNull() {
		return 1, diags
	}
	if diags = append(diags, model.ValidateCount(val, expr.Range())...); diags.HasErrors() {
		return 0, diags
	}

	var count int
	if err := gocty.FromCtyValue(val, &count); err != nil {
		return 0, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid count value",
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		})
	}
	return count, diags
}

// evalNumber evaluates expr and converts the result to a float64.
func evalNumber(expr hcl.Expression, evalCtx *hcl.EvalContext, name string) (float64, hcl.Diagnostics) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return 0, diags
	}

	invalid := func(detail string) hcl.Diagnostics {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid " + name + " value",
			Detail:   detail,
			Subject:  expr.Range().Ptr(),
		})
	}

	if val.IsNull() {
		return 0, invalid("The '" + name + "' attribute must not be null.")
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, invalid("The '" + name + "' attribute must be a number: " + err.Error())
	}

	var f float64
	if err := gocty.FromCtyValue(num, &f); err != nil {
		return 0, invalid(err.Error())
	}
	return f, diags
}
