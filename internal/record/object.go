package record

import (
	"bytes"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that remembers key insertion order. Setting an
// existing key replaces its value in place.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

func NewObject() *Object {
	return &Object{m: orderedmap.New[string, Value]()}
}

func (o *Object) Len() int {
	if o == nil || o.m == nil {
		return 0
	}
	return o.m.Len()
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.m == nil {
		return Value{}, false
	}
	return o.m.Get(key)
}

// Has reports whether key is present, whatever its value.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

func (o *Object) Set(key string, v Value) {
	if o.m == nil {
		o.m = orderedmap.New[string, Value]()
	}
	o.m.Set(key, v)
}

// SetString is shorthand for Set(key, StringValue(s)).
func (o *Object) SetString(key, s string) {
	o.Set(key, StringValue(s))
}

func (o *Object) Delete(key string) {
	if o.m != nil {
		o.m.Delete(key)
	}
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil || o.m == nil {
		return nil
	}
	keys := make([]string, 0, o.m.Len())
	for p := o.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Each calls fn for every entry in insertion order until fn returns false.
func (o *Object) Each(fn func(key string, v Value) bool) {
	if o == nil || o.m == nil {
		return
	}
	for p := o.m.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	out := NewObject()
	o.Each(func(k string, v Value) bool {
		out.m.Set(k, v.Clone())
		return true
	})
	return out
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	obj, ok := v.Object()
	if !ok {
		return fmt.Errorf("decode object: got %s", v.Kind())
	}
	o.m = obj.m
	return nil
}

func (o *Object) encode(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	first := true
	var err error
	o.Each(func(k string, v Value) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err = encodeString(buf, k); err != nil {
			return false
		}
		buf.WriteByte(':')
		err = v.encode(buf)
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}
