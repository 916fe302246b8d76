package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/rosterx/internal/projection"
	"github.com/desertthunder/rosterx/internal/roster"
)

type stubService struct {
	cards   *roster.Cards
	view    *roster.View
	result  *roster.Result
	err     error
	deleted []string
	invited []string
}

func (s *stubService) Cards(context.Context, roster.Actor, roster.Query) (*roster.Cards, error) {
	return s.cards, s.err
}

func (s *stubService) Detail(context.Context, roster.Actor, string) (*roster.View, error) {
	return s.view, s.err
}

func (s *stubService) Delete(_ context.Context, _ roster.Actor, id string) (*roster.Result, error) {
	s.deleted = append(s.deleted, id)
	return s.result, s.err
}

func (s *stubService) InviteMember(_ context.Context, _ roster.Actor, id string) (*roster.Result, error) {
	s.invited = append(s.invited, id)
	return s.result, s.err
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds the resulting message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func newStub() *stubService {
	age := 30
	return &stubService{
		cards: &roster.Cards{Records: []projection.DisplayRecord{
			{ID: "r1", Title: "Jane Doe", Initials: "JD", ColorClass: "bg-red-500", Email: "jane@example.com", Age: &age, City: "Austin"},
		}},
		view: &roster.View{
			ID: "r1", Name: "Jane Doe", Email: "jane@example.com", State: "prospect",
			Actions: roster.AvailableActions(nil),
		},
		result: &roster.Result{Message: "Portal invitation sent to jane@example.com. It will expire in 72 hours."},
	}
}

func TestCardItem(t *testing.T) {
	age := 28
	item := cardItem{record: projection.DisplayRecord{
		Title: "Jane Doe", Initials: "JD", ColorClass: "bg-teal-500",
		Gender: "female", Age: &age, City: "Austin", Email: "jane@example.com",
		SocialHandles: []projection.SocialHandle{{Key: "instagram_handle", Icon: "instagram", Handle: "@jane"}},
	}}

	assert.Contains(t, item.Title(), "Jane Doe")
	assert.Contains(t, item.Title(), "JD")
	assert.Equal(t, "female, 28, Austin • jane@example.com • instagram:@jane", item.Description())
	assert.Equal(t, "No details", cardItem{}.Description())
}

func TestAvatarColor(t *testing.T) {
	for _, class := range projection.Palette {
		assert.NotEmpty(t, string(AvatarColor(class)), class)
	}
	assert.Equal(t, AvatarColor("bg-blue-500"), AvatarColor("bg-unknown"))
}

func TestModel(t *testing.T) {
	t.Run("loads cards", func(t *testing.T) {
		svc := newStub()
		m := NewModel(context.Background(), svc, roster.Actor{UserID: "u", TeamID: "t"}, roster.Query{})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		run(t, m, m.Init())

		assert.Equal(t, CardListView, m.view)
		assert.Len(t, m.cardList.Items(), 1)
		assert.Contains(t, m.View(), "Jane Doe")
	})

	t.Run("fetch error", func(t *testing.T) {
		svc := newStub()
		svc.err = errors.New("db down")
		m := NewModel(context.Background(), svc, roster.Actor{}, roster.Query{})
		run(t, m, m.Init())

		assert.Contains(t, m.View(), "db down")
	})

	t.Run("invite flow", func(t *testing.T) {
		svc := newStub()
		svc.view.Actions = []roster.Action{
			{Key: roster.ActionInviteMember, Label: "Invite to Portal"},
			{Key: roster.ActionDelete, Label: "Delete", ConfirmationMessage: "Are you sure?"},
		}
		m := NewModel(context.Background(), svc, roster.Actor{}, roster.Query{})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		run(t, m, m.Init())

		_, cmd := m.Update(keyMsg("enter"))
		run(t, m, cmd)
		require.Equal(t, DetailView, m.view)
		assert.Contains(t, m.View(), "Invite to Portal")

		m.Update(keyMsg("i"))
		require.Equal(t, ConfirmView, m.view)
		assert.Contains(t, m.View(), "Invite to Portal for Jane Doe?")

		_, cmd = m.Update(keyMsg("y"))
		run(t, m, cmd)
		assert.Equal(t, ResultView, m.view)
		assert.Equal(t, []string{"r1"}, svc.invited)
		assert.Contains(t, m.View(), "Portal invitation sent")
	})

	t.Run("unavailable action is ignored", func(t *testing.T) {
		svc := newStub()
		svc.view.Actions = []roster.Action{{Key: roster.ActionDelete, Label: "Delete"}}
		m := NewModel(context.Background(), svc, roster.Actor{}, roster.Query{})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		run(t, m, m.Init())
		_, cmd := m.Update(keyMsg("enter"))
		run(t, m, cmd)

		m.Update(keyMsg("i"))
		assert.Equal(t, DetailView, m.view)
	})

	t.Run("cancel delete", func(t *testing.T) {
		svc := newStub()
		svc.view.Actions = []roster.Action{{Key: roster.ActionDelete, Label: "Delete", ConfirmationMessage: "Are you sure?"}}
		m := NewModel(context.Background(), svc, roster.Actor{}, roster.Query{})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		run(t, m, m.Init())
		_, cmd := m.Update(keyMsg("enter"))
		run(t, m, cmd)

		m.Update(keyMsg("d"))
		require.Equal(t, ConfirmView, m.view)
		assert.Contains(t, m.View(), "Are you sure?")

		m.Update(keyMsg("n"))
		assert.Equal(t, DetailView, m.view)
		assert.Empty(t, svc.deleted)
	})
}
