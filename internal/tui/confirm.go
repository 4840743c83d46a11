package tui

import (
	"strings"

	"github.com/joaosp7/items-manager/internal/model"
)

type itemDeletedMsg struct{}

type deleteFailedMsg struct {
	err error
}

// confirmModel is the delete confirmation dialog. It tracks its own
// in-flight flag so confirm/cancel stay disabled for the whole request;
// on failure the dialog stays open with the error so the user can retry.
type confirmModel struct {
	item     model.Item
	deleting bool
	err      string
}

func newConfirm(item model.Item) confirmModel {
	return confirmModel{item: item}
}

func (c confirmModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Confirm deletion"))
	b.WriteString("\n\n")
	b.WriteString("Delete item " + accentStyle.Render("\""+c.item.Name+"\"") + "?\n")
	b.WriteString(mutedStyle.Render("This action cannot be undone."))
	b.WriteString("\n\n")

	switch {
	case c.deleting:
		b.WriteString(mutedStyle.Render("Deleting..."))
	case c.err != "":
		b.WriteString(errorStyle.Render("✖ " + c.err))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter retry · esc cancel"))
	default:
		b.WriteString(helpStyle.Render("enter delete · esc cancel"))
	}

	return dangerBoxStyle.Render(b.String())
}
