package flyweight

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies the intrinsic state shared by a payload. Two keys are equal
// when both parts are equal, so Key can be used directly as a map key.
type Key struct {
	Category string
	Variant  string
}

// NewKey is a small convenience for building a Key.
func NewKey(category, variant string) Key {
	return Key{Category: category, Variant: variant}
}

// String renders the key as "category/variant".
func (k Key) String() string {
	return k.Category + "/" + k.Variant
}

// Validate reports an *InvalidKeyError if either part is empty.
func (k Key) Validate() error {
	if strings.TrimSpace(k.Category) == "" {
		return &InvalidKeyError{Key: k, Reason: "category must not be empty"}
	}
	if strings.TrimSpace(k.Variant) == "" {
		return &InvalidKeyError{Key: k, Reason: "variant must not be empty"}
	}
	return nil
}

// flightKey is an unambiguous encoding of k for singleflight, where
// "a/b"+"c" and "a"+"b/c" must not collide.
func (k Key) flightKey() string {
	return strconv.Itoa(len(k.Category)) + ":" + k.Category + k.Variant
}

// less orders keys by category, then variant.
func (k Key) less(other Key) bool {
	if k.Category != other.Category {
		return k.Category < other.Category
	}
	return k.Variant < other.Variant
}

// Position is the extrinsic placement of one occurrence of a payload.
type Position struct {
	X float64
	Y float64
}

// String renders the position as "(x,y)" without trailing zeros.
func (p Position) String() string {
	return fmt.Sprintf("(%s,%s)",
		strconv.FormatFloat(p.X, 'f', -1, 64),
		strconv.FormatFloat(p.Y, 'f', -1, 64))
}
