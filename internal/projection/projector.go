package projection

import (
	"math"
	"slices"
	"time"

	"github.com/desertthunder/rosterx/internal/shared"
)

// Role keys resolved by exact key match.
const (
	KeyCity      = "city"
	KeyAge       = "age"
	KeyGender    = "gender"
	KeyBirthdate = "birthdate"

	KeyInstagram = "instagram_handle"
	KeyFacebook  = "facebook_handle"
	KeyTikTok    = "tiktok_handle"
	KeyYouTube   = "youtube_channel"
)

// SocialKeys lists the field keys rendered as social handles, in fallback order.
var SocialKeys = []string{KeyInstagram, KeyFacebook, KeyTikTok, KeyYouTube}

// DefaultSocialIcons maps social field keys to platform icon identifiers.
func DefaultSocialIcons() map[string]string {
	return map[string]string{
		KeyInstagram: "instagram",
		KeyFacebook:  "facebook",
		KeyTikTok:    "tiktok",
		KeyYouTube:   "youtube",
	}
}

// Projector maps rows of one result set to [DisplayRecord]s.
//
// Column roles are resolved once in [NewProjector]; a Projector holds no per-row state and is
// safe for concurrent use.
type Projector struct {
	email     string
	phone     string
	city      string
	age       string
	gender    string
	birthdate string
	socials   []string
	icons     map[string]string
	now       func() time.Time
}

// NewProjector resolves column roles: the first column typed "email" or "phone" supplies contact
// details, and city/age/gender/birthdate plus the social keys are matched by key.
// A nil icons map falls back to [DefaultSocialIcons].
func NewProjector(columns []ColumnDefinition, icons map[string]string) *Projector {
	if icons == nil {
		icons = DefaultSocialIcons()
	}

	p := &Projector{icons: icons, now: time.Now}
	for _, col := range columns {
		switch {
		case col.Type == TypeEmail && p.email == "":
			p.email = col.Key
		case col.Type == TypePhone && p.phone == "":
			p.phone = col.Key
		}

		switch col.Key {
		case KeyCity:
			p.city = col.Key
		case KeyAge:
			p.age = col.Key
		case KeyGender:
			p.gender = col.Key
		case KeyBirthdate:
			p.birthdate = col.Key
		}

		if slices.Contains(SocialKeys, col.Key) && !slices.Contains(p.socials, col.Key) {
			p.socials = append(p.socials, col.Key)
		}
	}
	return p
}

// WithClock replaces the source of "today" used for birthdate ages.
func (p *Projector) WithClock(now func() time.Time) *Projector {
	if now != nil {
		p.now = now
	}
	return p
}

// Project builds the display record for a single row.
func (p *Projector) Project(row Row) DisplayRecord {
	idx := indexFields(row.Fields)

	rec := DisplayRecord{
		ID:         row.ID,
		Title:      row.Title,
		Subtitle:   row.Subtitle,
		Link:       row.Link,
		Initials:   Initials(row.Title),
		ColorClass: ColorClass(row.Title),
	}

	if url, ok := ImageURL(row.Fields); ok {
		rec.ImageURL = url
	}
	if email, ok := idx.str(p.email); ok {
		rec.Email = email
	}
	if phone, ok := idx.str(p.phone); ok && phone != "" {
		rec.Phone = shared.FormatPhoneNumber(phone)
	}
	if city, ok := idx.str(p.city); ok {
		rec.City = city
	}
	if gender, ok := idx.str(p.gender); ok {
		rec.Gender = gender
	}
	rec.Age = p.resolveAge(idx)

	for _, key := range p.socials {
		handle, ok := idx.str(key)
		if !ok || handle == "" {
			continue
		}
		rec.SocialHandles = append(rec.SocialHandles, SocialHandle{Key: key, Icon: p.icons[key], Handle: handle})
	}

	return rec
}

// ProjectAll projects every row, preserving order.
func (p *Projector) ProjectAll(rows []Row) []DisplayRecord {
	records := make([]DisplayRecord, len(rows))
	for i, row := range rows {
		records[i] = p.Project(row)
	}
	return records
}

// Project is a one-shot [Projector.Project] for callers holding a single row.
func Project(row Row, columns []ColumnDefinition, icons map[string]string) DisplayRecord {
	return NewProjector(columns, icons).Project(row)
}

// resolveAge prefers a numeric age field and falls back to the birthdate.
func (p *Projector) resolveAge(idx fieldIndex) *int {
	if n, ok := idx.num(p.age); ok && n >= 0 && n <= math.MaxInt32 {
		age := int(n)
		return &age
	}
	if b, ok := idx.str(p.birthdate); ok {
		if age, ok := Age(b, p.now()); ok {
			return &age
		}
	}
	return nil
}
