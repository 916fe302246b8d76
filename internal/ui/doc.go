// Package ui implements an interactive terminal roster browser using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over one team's roster:
//  1. [CardListView] : Browse and filter roster cards (avatar, demographics, socials)
//  2. [DetailView] : Inspect a member and the actions available to it
//  3. [ConfirmView] : Confirm a delete or a portal invitation
//  4. [ResultView] : Display the action's outcome message
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Service calls run as commands so the UI never blocks on the database or the mailer.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
