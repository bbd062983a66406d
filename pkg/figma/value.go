package figma

import (
	"encoding/json"
	"strconv"
)

// ValueKind tags the JSON scalar a StyleValue was decoded from.
type ValueKind uint8

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindOther
)

// StyleValue is a loosely typed style field. Figma documents numbers for
// fontSize and fontWeight, but hand-edited or third-party files sometimes
// carry strings, so the original scalar is preserved instead of coerced.
//
// The zero value is the absent marker.
type StyleValue struct {
	kind ValueKind
	text string
	num  float64
}

// StringValue returns a string StyleValue.
func StringValue(s string) StyleValue {
	return StyleValue{kind: KindString, text: s}
}

// NumberValue returns a numeric StyleValue rendered in its shortest form (16, 16.5).
func NumberValue(f float64) StyleValue {
	return StyleValue{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64), num: f}
}

func numberLiteral(n json.Number) StyleValue {
	f, err := n.Float64()
	if err != nil {
		return StyleValue{kind: KindOther, text: n.String()}
	}
	return StyleValue{kind: KindNumber, text: n.String(), num: f}
}

// Kind reports the JSON scalar kind.
func (v StyleValue) Kind() ValueKind { return v.kind }

// IsAbsent reports whether the field was missing (or null) in the source.
func (v StyleValue) IsAbsent() bool { return v.kind == KindAbsent }

// Float returns the numeric value and whether the value is a number.
func (v StyleValue) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// String returns the textual form of the value. Numbers keep the literal
// they were decoded from, so 16 and 16.0 stay distinct; absent is "".
func (v StyleValue) String() string { return v.text }

// Equal reports value equality: both values must be of the same kind, and
// numbers compare numerically.
func (v StyleValue) Equal(o StyleValue) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindNumber {
		return v.num == o.num
	}
	return v.text == o.text
}

// MarshalJSON writes the value back as the scalar it came from; absent is null.
func (v StyleValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindAbsent:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.text)
	default:
		return []byte(v.text), nil
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v StyleValue) MarshalYAML() (any, error) {
	switch v.kind {
	case KindAbsent:
		return nil, nil
	case KindNumber:
		return v.num, nil
	case KindBool:
		return v.text == "true", nil
	default:
		return v.text, nil
	}
}

func styleValueFrom(raw any) StyleValue {
	switch x := raw.(type) {
	case nil:
		return StyleValue{}
	case string:
		return StringValue(x)
	case json.Number:
		return numberLiteral(x)
	case bool:
		return StyleValue{kind: KindBool, text: strconv.FormatBool(x)}
	}

	if f, ok := toFloat(raw); ok {
		return NumberValue(f)
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return StyleValue{}
	}
	return StyleValue{kind: KindOther, text: string(b)}
}
