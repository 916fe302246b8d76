package roster

import (
	"time"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/projection"
)

// View is the detail representation of a roster member.
type View struct {
	ID              string          `json:"id"`
	TeamID          string          `json:"team_id"`
	Name            string          `json:"name"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Birthdate       string          `json:"birthdate,omitempty"`
	Gender          string          `json:"gender,omitempty"`
	Address         *models.Address `json:"address,omitempty"`
	InstagramHandle string          `json:"instagram_handle,omitempty"`
	FacebookHandle  string          `json:"facebook_handle,omitempty"`
	TikTokHandle    string          `json:"tiktok_handle,omitempty"`
	YouTubeChannel  string          `json:"youtube_channel,omitempty"`
	ProfilePhotoID  string          `json:"profile_photo_id,omitempty"`
	State           string          `json:"state"`
	RosterUserID    string          `json:"roster_user_id,omitempty"`
	City            string          `json:"city,omitempty"`
	Age             *int            `json:"age,omitempty"`
	Actions         []Action        `json:"actions"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewView builds the view of member as of today. City comes from the address and age from the birthdate.
func NewView(member *models.Roster, today time.Time) View {
	v := View{
		ID:              member.ID(),
		TeamID:          member.TeamID,
		Name:            member.Name,
		Email:           member.Email,
		Phone:           member.Phone,
		Birthdate:       member.Birthdate,
		Gender:          member.Gender,
		Address:         member.Address,
		InstagramHandle: member.InstagramHandle,
		FacebookHandle:  member.FacebookHandle,
		TikTokHandle:    member.TikTokHandle,
		YouTubeChannel:  member.YouTubeChannel,
		ProfilePhotoID:  member.ProfilePhotoID,
		State:           string(member.State),
		RosterUserID:    member.RosterUserID,
		City:            member.City(),
		Actions:         AvailableActions(member),
		CreatedAt:       member.CreatedAt(),
		UpdatedAt:       member.UpdatedAt(),
	}
	if age, ok := projection.Age(member.Birthdate, today); ok {
		v.Age = &age
	}
	return v
}

// CreateInput holds the fields of a new roster member.
type CreateInput struct {
	Name            string          `json:"name"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Birthdate       string          `json:"birthdate,omitempty"`
	Gender          string          `json:"gender,omitempty"`
	Address         *models.Address `json:"address,omitempty"`
	InstagramHandle string          `json:"instagram_handle,omitempty"`
	FacebookHandle  string          `json:"facebook_handle,omitempty"`
	TikTokHandle    string          `json:"tiktok_handle,omitempty"`
	YouTubeChannel  string          `json:"youtube_channel,omitempty"`
	ProfilePhotoID  string          `json:"profile_photo_id,omitempty"`
}

// UpdateInput is a partial update: nil fields are left unchanged and an empty string clears a field.
type UpdateInput struct {
	Name            *string         `json:"name,omitempty"`
	Email           *string         `json:"email,omitempty"`
	Phone           *string         `json:"phone,omitempty"`
	Birthdate       *string         `json:"birthdate,omitempty"`
	Gender          *string         `json:"gender,omitempty"`
	Address         *models.Address `json:"address,omitempty"`
	InstagramHandle *string         `json:"instagram_handle,omitempty"`
	FacebookHandle  *string         `json:"facebook_handle,omitempty"`
	TikTokHandle    *string         `json:"tiktok_handle,omitempty"`
	YouTubeChannel  *string         `json:"youtube_channel,omitempty"`
	ProfilePhotoID  *string         `json:"profile_photo_id,omitempty"`
}

// IsZero reports whether the update changes nothing.
func (in UpdateInput) IsZero() bool {
	return in == UpdateInput{}
}

func (in UpdateInput) apply(member *models.Roster) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&member.Name, in.Name)
	set(&member.Email, in.Email)
	set(&member.Phone, in.Phone)
	set(&member.Birthdate, in.Birthdate)
	set(&member.Gender, in.Gender)
	set(&member.InstagramHandle, in.InstagramHandle)
	set(&member.FacebookHandle, in.FacebookHandle)
	set(&member.TikTokHandle, in.TikTokHandle)
	set(&member.YouTubeChannel, in.YouTubeChannel)
	set(&member.ProfilePhotoID, in.ProfilePhotoID)

	if in.Address == nil {
		return
	}
	if member.Address == nil {
		addr := *in.Address
		member.Address = &addr
		return
	}
	mergeAddress(member.Address, in.Address)
}

// mergeAddress copies the non-empty fields of src onto dst.
func mergeAddress(dst, src *models.Address) {
	for _, f := range []struct{ dst, src *string }{
		{&dst.Address1, &src.Address1},
		{&dst.Address2, &src.Address2},
		{&dst.City, &src.City},
		{&dst.State, &src.State},
		{&dst.Zip, &src.Zip},
		{&dst.Country, &src.Country},
		{&dst.AddressType, &src.AddressType},
	} {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}

// Result is the outcome message of an action.
type Result struct {
	Message   string `json:"message"`
	CreatedID string `json:"created_id,omitempty"`
}

// Query filters a card listing.
type Query struct {
	Search string
	State  string
	Limit  int
	Offset int
}

// Cards is an object list together with its projected display records.
type Cards struct {
	List    projection.ObjectList      `json:"list"`
	Records []projection.DisplayRecord `json:"records"`
}
