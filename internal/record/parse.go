package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// ErrInvalidJSON is returned by Parse for input that is not a single JSON
// document.
var ErrInvalidJSON = errors.New("invalid JSON")

// Parse decodes a JSON document into a Value, keeping object keys in the
// order they appear. Duplicate keys keep their first position and their last
// value.
func Parse(data []byte) (Value, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !json.Valid(data) {
		return Value{}, ErrInvalidJSON
	}
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, fmt.Errorf("parse record: %w", err)
	}
	return build(raw, typ)
}

// ParseObject is Parse restricted to documents whose root is an object.
func ParseObject(data []byte) (*Object, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.Object()
	if !ok {
		return nil, fmt.Errorf("parse record: root is %s, not object", v.Kind())
	}
	return obj, nil
}

func build(raw []byte, typ jsonparser.ValueType) (Value, error) {
	switch typ {
	case jsonparser.Null:
		return NullValue(), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, fmt.Errorf("parse string: %w", err)
		}
		return StringValue(s), nil
	case jsonparser.Number:
		return NumberValue(string(raw)), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, fmt.Errorf("parse bool: %w", err)
		}
		return BoolValue(b), nil
	case jsonparser.Array:
		return buildList(raw)
	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(raw, func(key, val []byte, vt jsonparser.ValueType, _ int) error {
			child, err := build(val, vt)
			if err != nil {
				return err
			}
			obj.Set(string(key), child)
			return nil
		})
		if err != nil {
			return Value{}, fmt.Errorf("parse object: %w", err)
		}
		return ObjectValue(obj), nil
	}
	return Value{}, fmt.Errorf("parse record: unexpected value type %s", typ)
}

func buildList(raw []byte) (Value, error) {
	if inner := bytes.TrimSpace(raw[1 : len(raw)-1]); len(inner) == 0 {
		return ListValue(), nil
	}
	items := make([]Value, 0)
	var itemErr error
	_, err := jsonparser.ArrayEach(raw, func(val []byte, vt jsonparser.ValueType, _ int, err error) {
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = err
			return
		}
		child, err := build(val, vt)
		if err != nil {
			itemErr = err
			return
		}
		items = append(items, child)
	})
	if err == nil {
		err = itemErr
	}
	if err != nil {
		return Value{}, fmt.Errorf("parse list: %w", err)
	}
	return ListValue(items...), nil
}
