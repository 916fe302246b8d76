package projection

import (
	"encoding/json"
	"math"
)

// find returns the value of the first field with key, or nil.
func find(fields []Field, key string) *FieldValue {
	for i := range fields {
		if fields[i].Key == key {
			return fields[i].Value
		}
	}
	return nil
}

func asString(v *FieldValue) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.Value.(string)
	return s, ok
}

func asNumber(v *FieldValue) (float64, bool) {
	if v == nil {
		return 0, false
	}

	var f float64
	switch n := v.Value.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// StringField returns the string scalar of the first field named key.
func StringField(row *Row, key string) (string, bool) {
	if row == nil {
		return "", false
	}
	return asString(find(row.Fields, key))
}

// NumberField returns the numeric scalar of the first field named key.
func NumberField(row *Row, key string) (float64, bool) {
	if row == nil {
		return 0, false
	}
	return asNumber(find(row.Fields, key))
}

// ImageURL scans fields for the first image-tagged value and returns its thumbnail URL,
// falling back to the full URL. Later image fields are not consulted.
func ImageURL(fields []Field) (string, bool) {
	for _, f := range fields {
		if f.Value == nil || f.Value.Type != TypeImage {
			continue
		}
		if f.Value.ThumbnailURL != "" {
			return f.Value.ThumbnailURL, true
		}
		if f.Value.URL != "" {
			return f.Value.URL, true
		}
		return "", false
	}
	return "", false
}

// fieldIndex maps each key to its first value so a row is scanned once per projection.
type fieldIndex map[string]*FieldValue

func indexFields(fields []Field) fieldIndex {
	idx := make(fieldIndex, len(fields))
	for i := range fields {
		if _, seen := idx[fields[i].Key]; !seen {
			idx[fields[i].Key] = fields[i].Value
		}
	}
	return idx
}

func (idx fieldIndex) str(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	return asString(idx[key])
}

func (idx fieldIndex) num(key string) (float64, bool) {
	if key == "" {
		return 0, false
	}
	return asNumber(idx[key])
}
