package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/rosterx/internal/roster"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCardsFetched MsgKind = iota
	MsgDetailFetched
	MsgActionComplete
)

type cardsPayload struct {
	cards *roster.Cards
	err   error
}

type detailPayload struct {
	view *roster.View
	err  error
}

type actionPayload struct {
	key    roster.ActionKey
	result *roster.Result
	err    error
}

// cardsFetchedMsg is the constructor for [MsgCardsFetched]
func cardsFetchedMsg(cards *roster.Cards, err error) Msg {
	return Msg{kind: MsgCardsFetched, data: cardsPayload{cards, err}}
}

// detailFetchedMsg is the constructor for [MsgDetailFetched]
func detailFetchedMsg(view *roster.View, err error) Msg {
	return Msg{kind: MsgDetailFetched, data: detailPayload{view, err}}
}

// actionCompleteMsg is the constructor for [MsgActionComplete]
func actionCompleteMsg(key roster.ActionKey, result *roster.Result, err error) Msg {
	return Msg{kind: MsgActionComplete, data: actionPayload{key, result, err}}
}
