package valueobjects

import (
	"encoding/json"
	"fmt"
	"sort"
)

// MetaKind discriminates the variants a MetaValue can hold
type MetaKind int

const (
	MetaString MetaKind = iota
	MetaNumber
	MetaBool
	MetaMap
)

// MetaValue is a tagged union over the value shapes allowed in node
// metadata: string, number, bool, or a nested map. It replaces the
// fully dynamic dictionaries of earlier iterations while keeping the
// metadata vocabulary open-ended.
type MetaValue struct {
	kind MetaKind
	str  string
	num  float64
	b    bool
	m    map[string]MetaValue
}

// Metadata is an open-ended tag map attached to every node
type Metadata map[string]MetaValue

// StringValue creates a string MetaValue
func StringValue(s string) MetaValue {
	return MetaValue{kind: MetaString, str: s}
}

// NumberValue creates a numeric MetaValue
func NumberValue(n float64) MetaValue {
	return MetaValue{kind: MetaNumber, num: n}
}

// BoolValue creates a boolean MetaValue
func BoolValue(b bool) MetaValue {
	return MetaValue{kind: MetaBool, b: b}
}

// MapValue creates a nested-map MetaValue
func MapValue(m map[string]MetaValue) MetaValue {
	return MetaValue{kind: MetaMap, m: m}
}

// Kind returns the variant tag
func (v MetaValue) Kind() MetaKind {
	return v.kind
}

// AsString returns the string variant
func (v MetaValue) AsString() (string, bool) {
	return v.str, v.kind == MetaString
}

// AsNumber returns the numeric variant
func (v MetaValue) AsNumber() (float64, bool) {
	return v.num, v.kind == MetaNumber
}

// AsBool returns the boolean variant
func (v MetaValue) AsBool() (bool, bool) {
	return v.b, v.kind == MetaBool
}

// AsMap returns the nested-map variant
func (v MetaValue) AsMap() (map[string]MetaValue, bool) {
	return v.m, v.kind == MetaMap
}

// Equals compares two MetaValues structurally
func (v MetaValue) Equals(other MetaValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case MetaString:
		return v.str == other.str
	case MetaNumber:
		return v.num == other.num
	case MetaBool:
		return v.b == other.b
	case MetaMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, val := range v.m {
			ov, ok := other.m[k]
			if !ok || !val.Equals(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON implements json.Marshaler
func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case MetaString:
		return json.Marshal(v.str)
	case MetaNumber:
		return json.Marshal(v.num)
	case MetaBool:
		return json.Marshal(v.b)
	case MetaMap:
		return json.Marshal(v.m)
	}
	return nil, fmt.Errorf("unknown meta value kind %d", v.kind)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := MetaValueFrom(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MetaValueFrom converts a decoded JSON/YAML value into a MetaValue
func MetaValueFrom(raw interface{}) (MetaValue, error) {
	switch t := raw.(type) {
	case string:
		return StringValue(t), nil
	case float64:
		return NumberValue(t), nil
	case int:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case bool:
		return BoolValue(t), nil
	case map[string]interface{}:
		m := make(map[string]MetaValue, len(t))
		for k, val := range t {
			mv, err := MetaValueFrom(val)
			if err != nil {
				return MetaValue{}, fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = mv
		}
		return MapValue(m), nil
	case nil:
		return StringValue(""), nil
	}
	return MetaValue{}, fmt.Errorf("unsupported metadata value type %T", raw)
}

// MetadataFrom converts a decoded JSON map into Metadata
func MetadataFrom(raw map[string]interface{}) (Metadata, error) {
	if raw == nil {
		return Metadata{}, nil
	}
	md := make(Metadata, len(raw))
	for k, val := range raw {
		mv, err := MetaValueFrom(val)
		if err != nil {
			return nil, err
		}
		md[k] = mv
	}
	return md, nil
}

// ToInterface converts a MetaValue back to a plain JSON-shaped value
func (v MetaValue) ToInterface() interface{} {
	switch v.kind {
	case MetaString:
		return v.str
	case MetaNumber:
		return v.num
	case MetaBool:
		return v.b
	case MetaMap:
		out := make(map[string]interface{}, len(v.m))
		for k, val := range v.m {
			out[k] = val.ToInterface()
		}
		return out
	}
	return nil
}

// ToInterfaceMap converts Metadata back to a plain JSON-shaped map
func (md Metadata) ToInterfaceMap() map[string]interface{} {
	out := make(map[string]interface{}, len(md))
	for k, v := range md {
		out[k] = v.ToInterface()
	}
	return out
}

// Clone returns a deep copy of the metadata map
func (md Metadata) Clone() Metadata {
	out := make(Metadata, len(md))
	for k, v := range md {
		out[k] = v.clone()
	}
	return out
}

func (v MetaValue) clone() MetaValue {
	if v.kind != MetaMap {
		return v
	}
	m := make(map[string]MetaValue, len(v.m))
	for k, val := range v.m {
		m[k] = val.clone()
	}
	return MapValue(m)
}

// Keys returns the metadata keys in sorted order
func (md Metadata) Keys() []string {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Number reads a numeric metadata entry, with ok=false when missing or
// not a number
func (md Metadata) Number(key string) (float64, bool) {
	v, ok := md[key]
	if !ok {
		return 0, false
	}
	return v.AsNumber()
}
