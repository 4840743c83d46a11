package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joaosp7/items-manager/internal/model"
)

type itemSavedMsg struct{}

type saveFailedMsg struct {
	err error
}

const (
	fieldName = iota
	fieldStatus
	fieldDesc
)

// formModel is the shared create/edit form. Editing pre-populates the
// fields; create starts blank. Nothing here talks to the network: the root
// controller runs the mutation and feeds the result back as a message.
type formModel struct {
	name      textinput.Model
	desc      textarea.Model
	statusIdx int
	focus     int

	editing *model.Item // nil when creating

	nameErr   string
	submitErr string
	saving    bool
}

func newForm(editing *model.Item) formModel {
	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "Item name..."
	name.CharLimit = 200
	name.Focus()

	desc := textarea.New()
	desc.Placeholder = "Description (optional)"
	desc.SetHeight(4)
	desc.CharLimit = 2000

	f := formModel{name: name, desc: desc, editing: editing}
	if editing != nil {
		f.name.SetValue(editing.Name)
		f.name.CursorEnd()
		f.desc.SetValue(editing.Description)
		for i, s := range model.All() {
			if s == editing.Status {
				f.statusIdx = i
			}
		}
	}
	return f
}

func (f formModel) title() string {
	if f.editing != nil {
		return "Edit item"
	}
	return "New item"
}

func (f formModel) status() model.Status {
	return model.All()[f.statusIdx]
}

// data assembles the submission payload from the current inputs.
func (f formModel) data() model.FormData {
	return model.FormData{
		Name:        strings.TrimSpace(f.name.Value()),
		Status:      f.status(),
		Description: f.desc.Value(),
	}
}

// validate runs the client-side rules; on failure the error renders inline
// and no request is made.
func (f *formModel) validate() bool {
	if err := model.ValidateName(f.name.Value()); err != nil {
		f.nameErr = err.Error()
		return false
	}
	f.nameErr = ""
	return true
}

func (f *formModel) setFocus(field int) {
	f.focus = field
	f.name.Blur()
	f.desc.Blur()
	switch field {
	case fieldName:
		f.name.Focus()
	case fieldDesc:
		f.desc.Focus()
	}
}

func (f *formModel) cycleFocus(backwards bool) {
	next := f.focus + 1
	if backwards {
		next = f.focus - 1
	}
	f.setFocus(((next % 3) + 3) % 3)
}

// update handles keys while the form is open. Submission itself is the
// root controller's job; it watches for enter/ctrl+s before delegating.
func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	if f.saving {
		return f, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			f.cycleFocus(false)
			return f, nil
		case "shift+tab":
			f.cycleFocus(true)
			return f, nil
		case "left", "right":
			if f.focus == fieldStatus {
				n := len(model.All())
				if key.String() == "left" {
					f.statusIdx = (f.statusIdx - 1 + n) % n
				} else {
					f.statusIdx = (f.statusIdx + 1) % n
				}
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldName:
		f.name, cmd = f.name.Update(msg)
		if f.nameErr != "" && model.ValidateName(f.name.Value()) == nil {
			f.nameErr = ""
		}
	case fieldDesc:
		f.desc, cmd = f.desc.Update(msg)
	}
	return f, cmd
}

func (f formModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(f.title()))
	b.WriteString("\n\n")

	if f.submitErr != "" {
		b.WriteString(errorStyle.Render("✖ " + f.submitErr))
		b.WriteString("\n\n")
	}

	b.WriteString(f.label("Name *", fieldName))
	b.WriteString("\n")
	b.WriteString(f.name.View())
	if f.nameErr != "" {
		b.WriteString("\n" + errorStyle.Render(f.nameErr))
	}
	b.WriteString("\n\n")

	b.WriteString(f.label("Status", fieldStatus))
	b.WriteString("\n")
	b.WriteString(f.statusSelector())
	b.WriteString("\n\n")

	b.WriteString(f.label("Description", fieldDesc))
	b.WriteString("\n")
	b.WriteString(f.desc.View())
	b.WriteString("\n\n")

	if f.saving {
		b.WriteString(mutedStyle.Render("Saving..."))
	} else {
		b.WriteString(helpStyle.Render("enter save · tab next field · ←/→ status · esc cancel"))
	}

	return boxStyle.Render(b.String())
}

func (f formModel) label(text string, field int) string {
	if f.focus == field {
		return accentStyle.Render(text)
	}
	return mutedStyle.Render(text)
}

func (f formModel) statusSelector() string {
	parts := make([]string, 0, len(model.All()))
	for i, s := range model.All() {
		label := s.Label()
		if i == f.statusIdx {
			label = selectedStyle.Render(fmt.Sprintf(" %s ", label))
		} else {
			label = mutedStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}
