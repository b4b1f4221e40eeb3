package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/procs/internal/session"
	"github.com/mesh-intelligence/procs/pkg/types"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	if err := m.ctrl.Advisory(); err != nil {
		b.WriteString(m.styles.Warning.Render("Environment Compatibility Issue: "+types.Message(err)) + "\n\n")
	}

	switch st := m.ctrl.State(); {
	case st == session.AwaitingRoleAndLocation:
		m.viewIdentify(&b)
	case st == session.Collecting:
		m.viewQuestions(&b)
	case st.Complete():
		m.viewDone(&b)
	}

	if err := m.ctrl.Err(); err != nil {
		b.WriteString("\n" + m.styles.Error.Render("Error: "+types.Message(err)) + "\n")
	}
	return b.String()
}

func (m *Model) directoryLine() string {
	if dir := m.ctrl.Directory(); dir != nil {
		return "Selected: " + dir.Name()
	}
	return "No directory selected"
}

func (m *Model) viewIdentify(b *strings.Builder) {
	b.WriteString(m.styles.Title.Render("PROCS Assessment") + "\n")
	b.WriteString(m.userInput.View() + "\n")
	b.WriteString(m.folderInput.View() + "\n")
	b.WriteString(m.styles.Muted.Render(m.directoryLine()) + "\n\n")

	b.WriteString(m.styles.Heading.Render("Select your role:") + "\n")
	for i, in := range m.roles {
		line := "  " + in.Title
		if i == m.roleIdx {
			line = m.styles.Selected.Render("> ") + m.roleStyle(in.Role).Render(in.Title)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.styles.Muted.Render("tab: next field  left/right: role  enter: continue  esc: quit") + "\n")
}

func (m *Model) roleStyle(role types.Role) lipgloss.Style {
	if s, ok := m.styles.Roles[role.String()]; ok {
		return s
	}
	return m.styles.Heading
}

func (m *Model) viewQuestions(b *strings.Builder) {
	in := m.ctrl.Instrument()
	resp := m.ctrl.Responses()
	b.WriteString(m.styles.Title.Render(in.Title) + "\n")
	b.WriteString(fmt.Sprintf("User ID: %s    %s\n", m.ctrl.UserID(), m.directoryLine()))
	if m.editingFolder {
		b.WriteString(m.folderInput.View() + "\n")
		b.WriteString(m.styles.Muted.Render("enter: select folder  esc: cancel") + "\n")
		return
	}
	b.WriteString(m.styles.Muted.Render(in.Instructions) + "\n\n")

	if m.question >= len(in.Questions) {
		b.WriteString(m.styles.Heading.Render("Review") + "\n")
		for i, q := range in.Questions {
			v, ok := resp.Answer(q.ID)
			label := "(unanswered)"
			if ok {
				label = v.Label()
			}
			b.WriteString(fmt.Sprintf("%2d. %-45s %s\n", i+1, q.Item(), label))
		}
		b.WriteString("\n" + m.styles.Muted.Render("enter: save PROCS responses  up: go back  ctrl+f: change folder") + "\n")
		return
	}

	q := in.Questions[m.question]
	b.WriteString(fmt.Sprintf("Question %d of %d (%d answered)\n", m.question+1, len(in.Questions), resp.Answered()))
	b.WriteString(q.Stem() + " " + m.styles.Item.Render(q.Item()) + "\n\n")
	for i, l := range types.LikertScale {
		line := fmt.Sprintf("  %d. %s", i+1, l.Label())
		if i == m.cursor {
			line = m.styles.Selected.Render(fmt.Sprintf("> %d. %s", i+1, l.Label()))
		}
		if v, ok := resp.Answer(q.ID); ok && v == l {
			line += " *"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.styles.Muted.Render("1-6 or left/right+enter: answer  up/down: move  ctrl+f: change folder") + "\n")
}

func (m *Model) viewDone(b *strings.Builder) {
	b.WriteString(m.styles.Success.Render("Thank You!") + "\n")
	if m.ctrl.State() == session.AlreadyComplete {
		b.WriteString(fmt.Sprintf("PROCS responses for user ID %s were already saved.\n", m.completed))
	} else {
		b.WriteString(fmt.Sprintf("Your PROCS responses have been saved successfully for user ID: %s\n", m.completed))
	}
	b.WriteString(m.directoryLine() + "\n\n")
	b.WriteString(m.styles.Muted.Render("r: complete another assessment  q: quit") + "\n")
}
