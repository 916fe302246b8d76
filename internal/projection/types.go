package projection

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Field value type tags.
const (
	TypeText   = "text"
	TypeString = "string"
	TypeNumber = "number"
	TypeInt    = "int"
	TypeEmail  = "email"
	TypePhone  = "phone"
	TypeEnum   = "enum"
	TypeDate   = "date"
	TypeImage  = "image"
)

// FieldValue is the tagged value carried by a [Field].
//
// Scalar variants set Value; the image variant sets URL and ThumbnailURL instead.
type FieldValue struct {
	Type         string `json:"type"`
	Value        any    `json:"value,omitempty"`
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// UnmarshalJSON accepts any JSON shape. Values that are not objects decode to an empty
// [FieldValue] so a malformed field degrades to "no value" instead of failing the whole row.
func (v *FieldValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		*v = FieldValue{}
		return nil
	}

	type plain FieldValue
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*v = FieldValue{}
		return nil
	}
	*v = FieldValue(p)
	return nil
}

// Field is a keyed value attached to a [Row].
type Field struct {
	Key   string      `json:"key"`
	Value *FieldValue `json:"value"`
}

// Row is one listable entity in an object list.
type Row struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	Link     string  `json:"link,omitempty"`
	State    string  `json:"state,omitempty"`
	Fields   []Field `json:"fields"`
}

// ColumnDefinition declares a field key and the semantic type it carries for a list or view.
type ColumnDefinition struct {
	Key             string   `json:"key"`
	Label           string   `json:"label"`
	Type            string   `json:"type"`
	Sortable        bool     `json:"sortable"`
	DefaultVisible  bool     `json:"default_visible"`
	Nullable        bool     `json:"nullable"`
	AvailableValues []string `json:"available_values,omitempty"`
}

// ObjectList is a result set: ordered columns plus the rows they describe.
type ObjectList struct {
	Columns []ColumnDefinition `json:"columns"`
	Rows    []Row              `json:"rows"`
}

// SocialHandle is a non-empty social field resolved for display.
//
// Icon is empty when the key has no entry in the icon map; callers render a plain badge then.
type SocialHandle struct {
	Key    string `json:"key"`
	Icon   string `json:"icon,omitempty"`
	Handle string `json:"handle"`
}

// DisplayRecord is the flattened, render-ready projection of a [Row].
type DisplayRecord struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Subtitle      string         `json:"subtitle,omitempty"`
	Link          string         `json:"link,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	Initials      string         `json:"initials"`
	ColorClass    string         `json:"color_class"`
	Email         string         `json:"email,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	City          string         `json:"city,omitempty"`
	Age           *int           `json:"age,omitempty"`
	Gender        string         `json:"gender,omitempty"`
	SocialHandles []SocialHandle `json:"social_handles,omitempty"`
}

// Demographics joins gender, age and city with ", ", skipping missing parts.
func (d DisplayRecord) Demographics() string {
	var parts []string
	if d.Gender != "" {
		parts = append(parts, d.Gender)
	}
	if d.Age != nil && *d.Age > 0 {
		parts = append(parts, strconv.Itoa(*d.Age))
	}
	if d.City != "" {
		parts = append(parts, d.City)
	}
	return strings.Join(parts, ", ")
}
