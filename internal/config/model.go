package config

import "fmt"

// DefaultKind is the payload kind used when a scene does not name one.
const DefaultKind = "tree"

// Scene is the unified, format-agnostic representation of everything the
// user declared: which payload kind to share, where each occurrence goes, and
// where the rendered output is sent.
type Scene struct {
	Kind       string
	Placements []*Placement
	Outputs    []*Output
}

// NewScene returns an empty scene of the default kind.
func NewScene() *Scene {
	return &Scene{Kind: DefaultKind}
}

// Placement is one fully evaluated occurrence. Count expansion has already
// happened, so a single `placement` block may yield many of these.
type Placement struct {
	Category string
	Variant  string
	X        float64
	Y        float64

	// Source points back at the declaration, e.g. "forest.hcl:12,1-24".
	Source string
}

// String renders the placement for log output.
func (p *Placement) String() string {
	return fmt.Sprintf("%s/%s@(%g,%g)", p.Category, p.Variant, p.X, p.Y)
}

// Output is the format-agnostic representation of an `output` block. The
// block's arguments stay in their source format until a sink module decodes
// them into its own input struct.
type Output struct {
	Type   string
	Source string
	decode func(target any) error
}

// NewOutput builds an Output whose arguments are decoded by decode.
func NewOutput(outputType, source string, decode func(target any) error) *Output {
	return &Output{Type: outputType, Source: source, decode: decode}
}

// DefaultOutput builds an argument-less Output of the given type.
func DefaultOutput(outputType string) *Output {
	return &Output{Type: outputType, Source: "default"}
}

// Decode populates target, a pointer to a module's input struct, from the
// output's arguments. An Output without arguments leaves target untouched.
func (o *Output) Decode(target any) error {
	if o.decode == nil {
		return nil
	}
	if err := o.decode(target); err != nil {
		return fmt.Errorf("output %q (%s): %w", o.Type, o.Source, err)
	}
	return nil
}
