package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/rosterx/internal/roster"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CardListView ViewState = iota
	DetailView
	ConfirmView
	ResultView
)

// RosterService is the subset of [roster.Service] the browser drives.
type RosterService interface {
	Cards(ctx context.Context, actor roster.Actor, q roster.Query) (*roster.Cards, error)
	Detail(ctx context.Context, actor roster.Actor, id string) (*roster.View, error)
	Delete(ctx context.Context, actor roster.Actor, id string) (*roster.Result, error)
	InviteMember(ctx context.Context, actor roster.Actor, id string) (*roster.Result, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	service  RosterService
	actor    roster.Actor
	query    roster.Query
	width    int
	height   int
	cardList list.Model
	cards    *roster.Cards
	selected *roster.View
	pending  *roster.Action
	result   *roster.Result
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model browsing the actor's roster.
func NewModel(ctx context.Context, service RosterService, actor roster.Actor, q roster.Query) *Model {
	return &Model{
		ctx:      ctx,
		view:     CardListView,
		service:  service,
		actor:    actor,
		query:    q,
		cardList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by fetching the roster cards.
func (m *Model) Init() tea.Cmd {
	return m.fetchCards()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cardList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CardListView:
			return m.handleCardListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgCardsFetched:
		data := msg.data.(cardsPayload)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.cards = data.cards
		cmd := m.cardList.SetItems(cardItems(data.cards.Records))
		m.cardList.Title = fmt.Sprintf("Roster (%d)", len(data.cards.Records))
		return m, cmd

	case MsgDetailFetched:
		data := msg.data.(detailPayload)
		if data.err != nil {
			m.err = data.err
			m.view = CardListView
			return m, nil
		}
		m.err = nil
		m.selected = data.view
		m.view = DetailView
		return m, nil

	case MsgActionComplete:
		data := msg.data.(actionPayload)
		m.result = data.result
		m.err = data.err
		m.pending = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case CardListView:
		return m.renderCardList()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleCardListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.cardList.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchCards()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.cardList.SelectedItem().(cardItem); ok {
			return m, m.fetchDetail(item.record.ID)
		}
		return m, nil
	}
	return m.updateList(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CardListView
		m.selected = nil
	case key.Matches(msg, m.keys.invite):
		m.confirm(roster.ActionInviteMember)
	case key.Matches(msg, m.keys.remove):
		m.confirm(roster.ActionDelete)
	}
	return m, nil
}

func hasAction(v *roster.View, k roster.ActionKey) bool {
	for _, a := range v.Actions {
		if a.Key == k {
			return true
		}
	}
	return false
}

// confirm moves to the confirmation view when the selected member offers the action.
func (m *Model) confirm(k roster.ActionKey) {
	if m.selected == nil {
		return
	}
	for _, a := range m.selected.Actions {
		if a.Key == k {
			m.pending = &a
			m.view = ConfirmView
			return
		}
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.pending = nil
		m.view = DetailView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		return m, m.runAction()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = CardListView
		m.selected = nil
		m.result = nil
		m.err = nil
		return m, m.fetchCards()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != CardListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.cardList, cmd = m.cardList.Update(msg)
	return m, cmd
}

func (m *Model) fetchCards() tea.Cmd {
	return func() tea.Msg {
		cards, err := m.service.Cards(m.ctx, m.actor, m.query)
		return cardsFetchedMsg(cards, err)
	}
}

func (m *Model) fetchDetail(id string) tea.Cmd {
	return func() tea.Msg {
		view, err := m.service.Detail(m.ctx, m.actor, id)
		return detailFetchedMsg(view, err)
	}
}

func (m *Model) runAction() tea.Cmd {
	if m.pending == nil || m.selected == nil {
		return nil
	}
	k, id := m.pending.Key, m.selected.ID

	return func() tea.Msg {
		var (
			result *roster.Result
			err    error
		)
		switch k {
		case roster.ActionDelete:
			result, err = m.service.Delete(m.ctx, m.actor, id)
		case roster.ActionInviteMember:
			result, err = m.service.InviteMember(m.ctx, m.actor, id)
		default:
			err = fmt.Errorf("action %q is not supported here", k)
		}
		return actionCompleteMsg(k, result, err)
	}
}

func (m *Model) renderCardList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.cardList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	v := m.selected
	if v == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(v.Name))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render(label), value)
	}
	row("State", v.State)
	row("Email", v.Email)
	row("Phone", v.Phone)
	row("Gender", v.Gender)
	if v.Age != nil {
		row("Age", fmt.Sprint(*v.Age))
	}
	row("City", v.City)
	row("Instagram", v.InstagramHandle)
	row("Facebook", v.FacebookHandle)
	row("TikTok", v.TikTokHandle)
	row("YouTube", v.YouTubeChannel)

	labels := make([]string, len(v.Actions))
	for i, a := range v.Actions {
		labels[i] = a.Label
	}
	b.WriteString("\n")
	b.WriteString(styles.help.Render("Actions: " + strings.Join(labels, ", ")))

	helpKeys := []key.Binding{m.keys.back, m.keys.remove, m.keys.quit}
	if hasAction(v, roster.ActionInviteMember) {
		helpKeys = []key.Binding{m.keys.back, m.keys.invite, m.keys.remove, m.keys.quit}
	}
	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	if m.pending == nil || m.selected == nil {
		return ""
	}

	prompt := m.pending.ConfirmationMessage
	if prompt == "" {
		prompt = fmt.Sprintf("%s for %s?", m.pending.Label, m.selected.Name)
	}
	title := styles.warn.Render(prompt)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n\n%s", title, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Action failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", styles.ok.Render("✓ "+m.result.Message), helpView)
}
