// Package record models the loosely shaped JSON documents returned by the
// inference service. Objects keep their keys in document order, which the
// field resolver depends on when it flattens nested keys.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	String
	Number
	Bool
	List
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case List:
		return "list"
	case ObjectKind:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one node of a record tree. The zero Value is null.
type Value struct {
	kind Kind
	str  string // string contents, or the number literal as written
	b    bool
	list []Value
	obj  *Object
}

func NullValue() Value            { return Value{} }
func StringValue(s string) Value  { return Value{kind: String, str: s} }
func BoolValue(b bool) Value      { return Value{kind: Bool, b: b} }
func ListValue(vs ...Value) Value { return Value{kind: List, list: vs} }

// NumberValue wraps a JSON number literal. The literal is kept verbatim so
// "28" and "28.0" render the way upstream wrote them.
func NumberValue(literal string) Value { return Value{kind: Number, str: literal} }

// ObjectValue wraps o. A nil object becomes an empty one.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: ObjectKind, obj: o}
}

func (v Value) Kind() Kind { return v.kind }

// Str returns the contents of a string value.
func (v Value) Str() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.str, true
}

// Object returns the object held by v, if any.
func (v Value) Object() (*Object, bool) {
	if v.kind != ObjectKind {
		return nil, false
	}
	return v.obj, true
}

// Items returns the elements of a list value.
func (v Value) Items() []Value {
	if v.kind != List {
		return nil
	}
	return v.list
}

// IsEmpty reports whether v is null, an empty string, an empty list or an
// empty object. Zero and false are not empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case Null:
		return true
	case String:
		return v.str == ""
	case List:
		return len(v.list) == 0
	case ObjectKind:
		return v.obj == nil || v.obj.Len() == 0
	}
	return false
}

// Text renders v in its natural string form. Lists are joined with ", ",
// objects are rendered as compact JSON and null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case String, Number:
		return v.str
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case List:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.Text()
		}
		return strings.Join(parts, ", ")
	case ObjectKind:
		var buf bytes.Buffer
		_ = v.encode(&buf)
		return buf.String()
	}
	return ""
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case List:
		out := make([]Value, len(v.list))
		for i, item := range v.list {
			out[i] = item.Clone()
		}
		return Value{kind: List, list: out}
	case ObjectKind:
		return ObjectValue(v.obj.Clone())
	}
	return v
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case String:
		return encodeString(buf, v.str)
	case Number:
		buf.WriteString(v.str)
	case Bool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case List:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectKind:
		return v.obj.encode(buf)
	default:
		return fmt.Errorf("encode value: unknown kind %d", v.kind)
	}
	return nil
}

// encodeString writes s as a JSON string, leaving non-ASCII text and HTML
// characters unescaped.
func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode string: %w", err)
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
