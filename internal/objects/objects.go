// Package objects describes listable entities as column definitions and object-list rows,
// the input of the card projection.
package objects

import (
	"strings"
	"time"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/projection"
)

// Column keys of the roster object.
const (
	ColumnName         = "name"
	ColumnEmail        = "email"
	ColumnPhone        = "phone"
	ColumnGender       = "gender"
	ColumnAge          = projection.KeyAge
	ColumnCity         = projection.KeyCity
	ColumnState        = "state"
	ColumnProfilePhoto = "profile_photo"
	ColumnBirthdate    = projection.KeyBirthdate
)

// RosterStates lists the values of the state enum column.
var RosterStates = []string{string(models.RosterProspect), string(models.RosterInvited), string(models.RosterActive)}

// RosterObject converts [models.Roster] members into object-list rows.
type RosterObject struct {
	mediaBaseURL string
	now          func() time.Time
}

// NewRosterObject builds image URLs against the media service at mediaBaseURL.
func NewRosterObject(mediaBaseURL string) *RosterObject {
	return &RosterObject{mediaBaseURL: strings.TrimRight(mediaBaseURL, "/"), now: time.Now}
}

// WithClock replaces the source of "today" used for the age column.
func (o *RosterObject) WithClock(now func() time.Time) *RosterObject {
	if now != nil {
		o.now = now
	}
	return o
}

// Columns returns the roster column definitions in display order.
func (o *RosterObject) Columns() []projection.ColumnDefinition {
	return []projection.ColumnDefinition{
		{Key: ColumnName, Label: "Name", Type: projection.TypeString, Sortable: true, DefaultVisible: true},
		{Key: ColumnEmail, Label: "Email", Type: projection.TypeEmail, Sortable: true, DefaultVisible: true, Nullable: true},
		{Key: ColumnPhone, Label: "Phone", Type: projection.TypePhone, Sortable: true, DefaultVisible: true, Nullable: true},
		{Key: ColumnGender, Label: "Gender", Type: projection.TypeString, Sortable: true, DefaultVisible: true, Nullable: true},
		{Key: ColumnAge, Label: "Age", Type: projection.TypeInt, DefaultVisible: true, Nullable: true},
		{Key: ColumnCity, Label: "City", Type: projection.TypeString, DefaultVisible: true, Nullable: true},
		{Key: projection.KeyInstagram, Label: "Instagram", Type: projection.TypeString, Sortable: true, DefaultVisible: true, Nullable: true},
		{Key: ColumnState, Label: "Status", Type: projection.TypeEnum, Sortable: true, DefaultVisible: true, AvailableValues: RosterStates},
		{Key: ColumnProfilePhoto, Label: "Profile Photo", Type: projection.TypeImage, DefaultVisible: true, Nullable: true},
		{Key: projection.KeyFacebook, Label: "Facebook", Type: projection.TypeString, Sortable: true, DefaultVisible: true, Nullable: true},
		{Key: projection.KeyTikTok, Label: "TikTok", Type: projection.TypeString, Sortable: true, DefaultVisible: true, Nullable: true},
		{Key: projection.KeyYouTube, Label: "YouTube", Type: projection.TypeString, Sortable: true, DefaultVisible: true, Nullable: true},
		{Key: ColumnBirthdate, Label: "Birthdate", Type: projection.TypeDate, Sortable: true, Nullable: true},
	}
}

// Row converts a roster member. Nullable columns without a value carry a nil [projection.FieldValue].
func (o *RosterObject) Row(r *models.Roster) projection.Row {
	var age *projection.FieldValue
	if r.Birthdate != "" {
		if years, ok := projection.Age(r.Birthdate, o.now()); ok {
			age = &projection.FieldValue{Type: projection.TypeInt, Value: years}
		}
	}

	return projection.Row{
		ID:       r.ID(),
		Title:    r.Name,
		Subtitle: r.InstagramHandle,
		Link:     "/roster/" + r.ID(),
		State:    string(r.State),
		Fields: []projection.Field{
			{Key: ColumnName, Value: scalar(projection.TypeString, r.Name)},
			{Key: ColumnEmail, Value: optional(projection.TypeEmail, r.Email)},
			{Key: ColumnPhone, Value: optional(projection.TypePhone, r.Phone)},
			{Key: ColumnGender, Value: optional(projection.TypeString, r.Gender)},
			{Key: ColumnAge, Value: age},
			{Key: ColumnCity, Value: optional(projection.TypeString, r.City())},
			{Key: projection.KeyInstagram, Value: optional(projection.TypeString, r.InstagramHandle)},
			{Key: ColumnState, Value: scalar(projection.TypeEnum, string(r.State))},
			{Key: ColumnProfilePhoto, Value: o.image(r.ProfilePhotoID)},
			{Key: projection.KeyFacebook, Value: optional(projection.TypeString, r.FacebookHandle)},
			{Key: projection.KeyTikTok, Value: optional(projection.TypeString, r.TikTokHandle)},
			{Key: projection.KeyYouTube, Value: optional(projection.TypeString, r.YouTubeChannel)},
			{Key: ColumnBirthdate, Value: optional(projection.TypeDate, r.Birthdate)},
		},
	}
}

// List converts members into an object list, preserving order.
func (o *RosterObject) List(members []*models.Roster) projection.ObjectList {
	rows := make([]projection.Row, 0, len(members))
	for _, m := range members {
		rows = append(rows, o.Row(m))
	}
	return projection.ObjectList{Columns: o.Columns(), Rows: rows}
}

// MediaURLs returns the view and thumbnail URLs of a stored media item.
func (o *RosterObject) MediaURLs(mediaID string) (view, thumbnail string) {
	base := o.mediaBaseURL + "/api/media/" + mediaID
	return base + "/view", base + "/thumbnail"
}

func (o *RosterObject) image(mediaID string) *projection.FieldValue {
	if mediaID == "" {
		return nil
	}
	view, thumb := o.MediaURLs(mediaID)
	return &projection.FieldValue{Type: projection.TypeImage, URL: view, ThumbnailURL: thumb}
}

func scalar(kind string, v any) *projection.FieldValue {
	return &projection.FieldValue{Type: kind, Value: v}
}

func optional(kind, s string) *projection.FieldValue {
	if s == "" {
		return nil
	}
	return scalar(kind, s)
}
