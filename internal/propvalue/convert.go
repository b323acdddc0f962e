package propvalue

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Null is the value carried by placeholders for absent props.
var Null = cty.NullVal(cty.DynamicPseudoType)

// Equal is semantic equality. Nulls are equal to each other regardless of
// type and the zero cty.Value is treated as null.
func Equal(a, b cty.Value) bool {
	aNull := a == cty.NilVal || a.IsNull()
	bNull := b == cty.NilVal || b.IsNull()
	if aNull || bNull {
		return aNull == bNull
	}
	if !a.Type().Equals(b.Type()) {
		return false
	}
	return a.RawEquals(b)
}

// IsNull reports whether v carries no value.
func IsNull(v cty.Value) bool {
	return v == cty.NilVal || v.IsNull()
}

// ParseBool parses "true" or "false" ignoring case and surrounding space.
func ParseBool(s string) (bool, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, "true"):
		return true, true
	case strings.EqualFold(s, "false"):
		return false, true
	default:
		return false, false
	}
}

// ToBool interprets v as a boolean. Strings parse case-insensitively.
func ToBool(v cty.Value) (bool, bool) {
	if IsNull(v) || !v.IsKnown() {
		return false, false
	}
	switch v.Type() {
	case cty.Bool:
		return v.True(), true
	case cty.String:
		return ParseBool(v.AsString())
	default:
		return false, false
	}
}

// ToNumber interprets v as a number. Strings are trimmed before parsing.
func ToNumber(v cty.Value) (cty.Value, bool) {
	if IsNull(v) || !v.IsKnown() {
		return cty.NilVal, false
	}
	if v.Type() == cty.String {
		v = cty.StringVal(strings.TrimSpace(v.AsString()))
	}
	n, err := convert.Convert(v, cty.Number)
	if err != nil {
		return cty.NilVal, false
	}
	return n, true
}

// ToInt interprets v as a whole number.
func ToInt(v cty.Value) (int64, bool) {
	n, ok := ToNumber(v)
	if !ok {
		return 0, false
	}
	var i int64
	if err := gocty.FromCtyValue(n, &i); err != nil {
		return 0, false
	}
	return i, true
}

// ToString renders v as text. Lists are joined with ", ".
func ToString(v cty.Value) string {
	if IsNull(v) || !v.IsKnown() {
		return ""
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case ty == cty.Number:
		return formatNumber(v.AsBigFloat())
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			parts = append(parts, ToString(el))
		}
		return strings.Join(parts, ", ")
	default:
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return fmt.Sprintf("%#v", v)
		}
		return s.AsString()
	}
}

// Coerce converts v to ty, treating strings for booleans case-insensitively.
func Coerce(v cty.Value, ty cty.Type) (cty.Value, error) {
	if ty == cty.Bool && !IsNull(v) && v.Type() == cty.String {
		b, ok := ParseBool(v.AsString())
		if !ok {
			return cty.NilVal, fmt.Errorf("cannot interpret %q as a boolean", v.AsString())
		}
		return cty.BoolVal(b), nil
	}
	if ty == cty.Number {
		n, ok := ToNumber(v)
		if !ok {
			return cty.NilVal, fmt.Errorf("cannot interpret %s as a number", ToString(v))
		}
		return n, nil
	}
	if ty == cty.String {
		return cty.StringVal(ToString(v)), nil
	}
	out, err := convert.Convert(v, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot convert to %s: %w", ty.FriendlyName(), err)
	}
	return out, nil
}

// Native converts v to plain Go values for encoding: string, int64 or
// float64, bool, []any, or nil for null.
func Native(v cty.Value) any {
	if IsNull(v) || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			out = append(out, Native(el))
		}
		return out
	default:
		return ToString(v)
	}
}

func formatNumber(f *big.Float) string {
	if f.IsInt() {
		return f.Text('f', 0)
	}
	return f.Text('g', -1)
}
