package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/rosterx/internal/projection"
)

var _ list.Item = cardItem{}

// cardItem wraps [projection.DisplayRecord] to implement [list.Item].
type cardItem struct {
	record projection.DisplayRecord
}

func (i cardItem) FilterValue() string { return i.record.Title + " " + i.record.Email }
func (i cardItem) Title() string       { return Avatar(i.record) + " " + i.record.Title }
func (i cardItem) Description() string {
	var parts []string
	if d := i.record.Demographics(); d != "" {
		parts = append(parts, d)
	}
	if i.record.Email != "" {
		parts = append(parts, i.record.Email)
	}
	if s := socials(i.record); s != "" {
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "No details"
	}
	return strings.Join(parts, " • ")
}

func socials(rec projection.DisplayRecord) string {
	handles := make([]string, len(rec.SocialHandles))
	for i, h := range rec.SocialHandles {
		label := h.Icon
		if label == "" {
			label = h.Key
		}
		handles[i] = fmt.Sprintf("%s:@%s", label, strings.TrimPrefix(h.Handle, "@"))
	}
	return strings.Join(handles, " ")
}

func cardItems(records []projection.DisplayRecord) []list.Item {
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = cardItem{record: rec}
	}
	return items
}
