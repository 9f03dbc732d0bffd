package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Kind identifies which case of the raw definition variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	List
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a raw or resolved variable value. The zero Value is null.
//
// Numbers keep their literal text so that values copied verbatim (private
// variables, replay records) serialize exactly as they were read.
type Value struct {
	kind Kind
	b    bool
	s    string
	list []Value
	m    *Object
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// NumberValue wraps a numeric literal such as "1", "-3" or "2.5e3".
func NumberValue(lit string) Value { return Value{kind: Number, s: lit} }

// IntValue wraps an integer.
func IntValue(n int64) Value { return NumberValue(strconv.FormatInt(n, 10)) }

// ListValue wraps a sequence of values.
func ListValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: List, list: items}
}

// MapValue wraps an ordered mapping. A nil map becomes an empty one.
func MapValue(m *Object) Value {
	if m == nil {
		m = NewObject()
	}
	return Value{kind: Map, m: m}
}

func (v Value) Kind() Kind          { return v.kind }
func (v Value) IsNull() bool        { return v.kind == Null }
func (v Value) Bool() bool          { return v.b }
func (v Value) Str() string         { return v.s }
func (v Value) Number() json.Number { return json.Number(v.s) }
func (v Value) List() []Value       { return v.list }

// Object returns the mapping held by a Map value, or nil.
func (v Value) Object() *Object { return v.m }

// Text coerces a scalar to the text handed to the template engine.
// Containers are rendered as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case Null:
		return ""
	case Bool:
		return strconv.FormatBool(v.b)
	case Number, String:
		return v.s
	default:
		data, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func (v Value) String() string {
	if v.kind == String {
		return v.s
	}
	if v.kind == Null {
		return "null"
	}
	return v.Text()
}

// Interface converts the value to plain Go data for template scopes:
// nil, bool, json.Number, string, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		return json.Number(v.s)
	case String:
		return v.s
	case List:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case Map:
		return v.m.Interface()
	default:
		return nil
	}
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case List:
		out := make([]Value, len(v.list))
		for i, item := range v.list {
			out[i] = item.Clone()
		}
		return Value{kind: List, list: out}
	case Map:
		return Value{kind: Map, m: v.m.Clone()}
	default:
		return v
	}
}

// Equal reports structural equality. Mapping order is significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == o.b
	case Number, String:
		return v.s == o.s
	case List:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case Map:
		return v.m.Equal(o.m)
	}
	return false
}

// FromInterface converts plain Go data into a Value. Go maps have no order,
// so their keys are sorted; use *Object to keep a specific order.
func FromInterface(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case *Object:
		return MapValue(t), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return NumberValue(t.String()), nil
	case int:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case int32:
		return IntValue(int64(t)), nil
	case uint64:
		return NumberValue(strconv.FormatUint(t, 10)), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Value{}, fmt.Errorf("unsupported number %v", t)
		}
		return NumberValue(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromInterface(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return ListValue(items...), nil
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = StringValue(item)
		}
		return ListValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			v, err := FromInterface(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			obj.Set(k, v)
		}
		return MapValue(obj), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

// MarshalJSON implements json.Marshaler. Strings are written without HTML
// escaping and mapping keys in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		buf.WriteString(v.s)
	case String:
		return writeString(buf, v.s)
	case List:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Map:
		return v.m.writeJSON(buf)
	default:
		return fmt.Errorf("marshal value: unknown kind %d", v.kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Objects are decoded by the
// ordered map, which keeps key order; everything else by encoding/json.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty JSON value")
	}
	switch data[0] {
	case '{':
		obj := NewObject()
		if err := obj.UnmarshalJSON(data); err != nil {
			return err
		}
		*v = MapValue(obj)
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = ListValue(items...)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case 'n':
		if string(data) != "null" {
			return fmt.Errorf("invalid JSON value %q", data)
		}
		*v = NullValue()
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberValue(n.String())
	}
	return nil
}

// ParseJSON decodes a single JSON document into a Value.
func ParseJSON(data []byte) (Value, error) {
	if !json.Valid(data) {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return Value{}, err
		}
		return Value{}, errors.New("invalid JSON document")
	}
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return Value{}, err
	}
	return v, nil
}

// Object is an insertion-ordered mapping from variable name to Value.
type Object struct {
	om *orderedmap.OrderedMap[string, Value]
}

// NewObject returns an empty mapping.
func NewObject() *Object {
	return &Object{om: orderedmap.New[string, Value]()}
}

// Len returns the number of entries. A nil Object is empty.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.om.Len()
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	return o.om.Get(key)
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores value under key. Existing keys keep their position.
func (o *Object) Set(key string, value Value) {
	o.om.Set(key, value)
}

// Delete removes key.
func (o *Object) Delete(key string) {
	o.om.Delete(key)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, o.om.Len())
	for pair := o.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every entry in insertion order, stopping at the first error.
func (o *Object) Each(fn func(key string, value Value) error) error {
	if o == nil {
		return nil
	}
	for pair := o.om.Oldest(); pair != nil; pair = pair.Next() {
		if err := fn(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	out := NewObject()
	_ = o.Each(func(k string, v Value) error {
		out.Set(k, v.Clone())
		return nil
	})
	return out
}

// Equal reports whether both mappings hold equal entries in the same order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	a, b := o.Keys(), other.Keys()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
		av, _ := o.Get(a[i])
		bv, _ := other.Get(b[i])
		if !av.Equal(bv) {
			return false
		}
	}
	return true
}

// Interface converts the mapping to a plain map[string]any.
func (o *Object) Interface() map[string]any {
	out := make(map[string]any, o.Len())
	_ = o.Each(func(k string, v Value) error {
		out[k] = v.Interface()
		return nil
	})
	return out
}

// MarshalJSON implements json.Marshaler, writing keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Object) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	first := true
	err := o.Each(func(k string, v Value) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		return v.writeJSON(buf)
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping key order.
func (o *Object) UnmarshalJSON(data []byte) error {
	o.om = orderedmap.New[string, Value]()
	return o.om.UnmarshalJSON(data)
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping key order.
func (o *Object) UnmarshalYAML(node *yaml.Node) error {
	o.om = orderedmap.New[string, Value]()
	return o.om.UnmarshalYAML(node)
}
