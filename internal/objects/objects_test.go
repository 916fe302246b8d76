package objects

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/projection"
)

func fixedNow() time.Time { return time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC) }

func member() *models.Roster {
	r := models.NewRoster(1, "team-1", "owner-1", "Alex Johnson")
	r.SetID("r-1")
	r.Email = "alex@example.com"
	r.Phone = "5551234567"
	r.Birthdate = "2000-01-15"
	r.Gender = "Female"
	r.InstagramHandle = "@alexj"
	r.TikTokHandle = "@alexj.tt"
	r.ProfilePhotoID = "m-9"
	r.Address = &models.Address{City: "Austin"}
	return r
}

func TestRosterObject(t *testing.T) {
	obj := NewRosterObject("http://media.local/").WithClock(fixedNow)

	t.Run("Columns order and types", func(t *testing.T) {
		cols := obj.Columns()
		keys := make([]string, len(cols))
		for i, c := range cols {
			keys[i] = c.Key
		}
		assert.Equal(t, []string{
			"name", "email", "phone", "gender", "age", "city", "instagram_handle", "state",
			"profile_photo", "facebook_handle", "tiktok_handle", "youtube_channel", "birthdate",
		}, keys)
		assert.Equal(t, projection.TypeEmail, cols[1].Type)
		assert.Equal(t, projection.TypePhone, cols[2].Type)
		assert.Equal(t, []string{"prospect", "invited", "active"}, cols[7].AvailableValues)
	})

	t.Run("Row", func(t *testing.T) {
		row := obj.Row(member())

		assert.Equal(t, "r-1", row.ID)
		assert.Equal(t, "Alex Johnson", row.Title)
		assert.Equal(t, "@alexj", row.Subtitle)
		assert.Equal(t, "/roster/r-1", row.Link)
		assert.Equal(t, "prospect", row.State)

		age, ok := projection.NumberField(&row, "age")
		require.True(t, ok)
		assert.Equal(t, float64(25), age)

		city, ok := projection.StringField(&row, "city")
		require.True(t, ok)
		assert.Equal(t, "Austin", city)

		url, ok := projection.ImageURL(row.Fields)
		require.True(t, ok)
		assert.Equal(t, "http://media.local/api/media/m-9/thumbnail", url)

		_, ok = projection.StringField(&row, "facebook_handle")
		assert.False(t, ok)
	})

	t.Run("Projects into a card", func(t *testing.T) {
		list := obj.List([]*models.Roster{member()})
		require.Len(t, list.Rows, 1)

		rec := projection.NewProjector(list.Columns, nil).WithClock(fixedNow).Project(list.Rows[0])
		assert.Equal(t, "AJ", rec.Initials)
		assert.Equal(t, "(555) 123-4567", rec.Phone)
		assert.Equal(t, "Female, 25, Austin", rec.Demographics())
		require.Len(t, rec.SocialHandles, 2)
		assert.Equal(t, "instagram", rec.SocialHandles[0].Icon)
		assert.Equal(t, "tiktok", rec.SocialHandles[1].Icon)
	})

	t.Run("Sparse member", func(t *testing.T) {
		r := models.NewRoster(2, "team-1", "owner-1", "Madonna")
		r.SetID("r-2")

		row := obj.Row(r)
		_, ok := projection.ImageURL(row.Fields)
		assert.False(t, ok)

		rec := projection.NewProjector(obj.Columns(), nil).Project(row)
		assert.Nil(t, rec.Age)
		assert.Empty(t, rec.Email)
		assert.Empty(t, rec.SocialHandles)
		assert.Empty(t, rec.Demographics())
	})

	t.Run("JSON round trip keeps nullable fields empty", func(t *testing.T) {
		b, err := json.Marshal(obj.List([]*models.Roster{member()}))
		require.NoError(t, err)

		var decoded projection.ObjectList
		require.NoError(t, json.Unmarshal(b, &decoded))

		rec := projection.NewProjector(decoded.Columns, nil).WithClock(fixedNow).Project(decoded.Rows[0])
		require.NotNil(t, rec.Age)
		assert.Equal(t, 25, *rec.Age)
		assert.Equal(t, "alex@example.com", rec.Email)
	})
}
