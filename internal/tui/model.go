// Package tui is the terminal front end for the questionnaire. It drives a
// session.Controller with a bubbletea program.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/procs/internal/session"
	"github.com/mesh-intelligence/procs/pkg/types"
)

// Focus targets on the identify screen.
const (
	focusUser = iota
	focusFolder
	focusRole
	focusCount
)

// Model is the bubbletea model for one respondent at a time.
type Model struct {
	ctx    context.Context
	ctrl   *session.Controller
	roles  []types.Instrument
	styles Styles

	userInput   textinput.Model
	folderInput textinput.Model
	focus       int
	roleIdx     int

	// question is the index of the question on screen; len(questions)
	// is the review screen.
	question int
	cursor   int

	editingFolder bool
	completed     string
	quitting      bool
}

// Options seeds the identify screen.
type Options struct {
	UserID string
	Folder string
	Role   types.Role
	Roles  []types.Instrument
}

// New returns a model driving ctrl.
func New(ctx context.Context, ctrl *session.Controller, opts Options) *Model {
	user := textinput.New()
	user.Prompt = "User ID: "
	user.Placeholder = "Enter user ID"
	user.SetValue(opts.UserID)
	user.Focus()

	folder := textinput.New()
	folder.Prompt = "Save Location: "
	folder.Placeholder = "Folder path"
	folder.SetValue(opts.Folder)

	m := &Model{
		ctx:         ctx,
		ctrl:        ctrl,
		roles:       opts.Roles,
		styles:      DefaultStyles(),
		userInput:   user,
		folderInput: folder,
	}
	for i, in := range m.roles {
		if in.Role == opts.Role {
			m.roleIdx = i
		}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Completed returns the user ID of the last completed respondent.
func (m *Model) Completed() string { return m.completed }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateInputs(msg)
	}
	if key.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch st := m.ctrl.State(); {
	case st == session.AwaitingRoleAndLocation:
		return m, m.updateIdentify(key)
	case st == session.Collecting:
		return m, m.updateQuestions(key)
	case st.Complete():
		return m, m.updateDone(key)
	}
	return m, nil
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.userInput, cmd = m.userInput.Update(msg)
	cmds = append(cmds, cmd)
	m.folderInput, cmd = m.folderInput.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (m *Model) setFocus(f int) tea.Cmd {
	m.focus = (f + focusCount) % focusCount
	m.userInput.Blur()
	m.folderInput.Blur()
	switch m.focus {
	case focusUser:
		return m.userInput.Focus()
	case focusFolder:
		return m.folderInput.Focus()
	}
	return nil
}

func (m *Model) updateIdentify(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		m.quitting = true
		return tea.Quit
	case "tab", "down":
		return m.setFocus(m.focus + 1)
	case "shift+tab", "up":
		return m.setFocus(m.focus - 1)
	case "enter":
		return m.begin()
	}

	if m.focus == focusRole {
		if len(m.roles) == 0 {
			return nil
		}
		switch key.String() {
		case "left", "h":
			m.roleIdx = (m.roleIdx - 1 + len(m.roles)) % len(m.roles)
		case "right", "l":
			m.roleIdx = (m.roleIdx + 1) % len(m.roles)
		}
		return nil
	}

	var cmd tea.Cmd
	if m.focus == focusUser {
		m.userInput, cmd = m.userInput.Update(key)
	} else {
		m.folderInput, cmd = m.folderInput.Update(key)
	}
	return cmd
}

// begin applies the identify screen to the controller and runs the
// existence check.
func (m *Model) begin() tea.Cmd {
	if folder := m.folderInput.Value(); strings.TrimSpace(folder) != "" {
		if err := m.ctrl.SelectDirectory(m.ctx, folder); err != nil {
			return nil
		}
	}
	if err := m.ctrl.SetUserID(m.userInput.Value()); err != nil {
		return nil
	}
	if len(m.roles) > 0 {
		if err := m.ctrl.SetRole(m.roles[m.roleIdx].Role); err != nil {
			return nil
		}
	}
	if err := m.ctrl.Begin(m.ctx); err != nil {
		return nil
	}
	m.question, m.cursor = 0, 0
	if m.ctrl.State().Complete() {
		m.completed = m.ctrl.UserID()
	}
	return nil
}

func (m *Model) updateQuestions(key tea.KeyMsg) tea.Cmd {
	if m.editingFolder {
		switch key.String() {
		case "esc":
			m.editingFolder = false
			m.folderInput.Blur()
		case "enter":
			if err := m.ctrl.SelectDirectory(m.ctx, m.folderInput.Value()); err == nil {
				m.editingFolder = false
				m.folderInput.Blur()
			}
		default:
			var cmd tea.Cmd
			m.folderInput, cmd = m.folderInput.Update(key)
			return cmd
		}
		return nil
	}

	questions := m.ctrl.Instrument().Questions
	switch k := key.String(); k {
	case "ctrl+f":
		m.editingFolder = true
		return m.folderInput.Focus()
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(types.LikertScale)-1 {
			m.cursor++
		}
	case "up", "shift+tab", "b":
		if m.question > 0 {
			m.question--
			m.syncCursor()
		}
	case "down", "tab":
		if m.question < len(questions) {
			m.question++
			m.syncCursor()
		}
	case "1", "2", "3", "4", "5", "6":
		if m.question < len(questions) {
			m.cursor = int(k[0] - '1')
			m.answer(questions[m.question].ID)
		}
	case "enter":
		if m.question < len(questions) {
			m.answer(questions[m.question].ID)
			return nil
		}
		if err := m.ctrl.Submit(m.ctx); err != nil {
			m.jumpToMissing()
			return nil
		}
		m.completed = m.ctrl.UserID()
	}
	return nil
}

// answer records the cursor's token for id and advances.
func (m *Model) answer(id string) {
	if err := m.ctrl.Answer(id, types.LikertScale[m.cursor]); err != nil {
		return
	}
	m.question++
	m.syncCursor()
}

// syncCursor moves the cursor to the current question's saved answer.
func (m *Model) syncCursor() {
	questions := m.ctrl.Instrument().Questions
	if m.question >= len(questions) {
		return
	}
	if v, ok := m.ctrl.Responses().Answer(questions[m.question].ID); ok {
		m.cursor = v.Rank() - 1
	}
}

func (m *Model) jumpToMissing() {
	missing := m.ctrl.Responses().Missing()
	if len(missing) == 0 {
		return
	}
	for i, q := range m.ctrl.Instrument().Questions {
		if q.ID == missing[0] {
			m.question = i
			m.syncCursor()
			return
		}
	}
}

func (m *Model) updateDone(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "r", "enter":
		if err := m.ctrl.Restart(); err != nil {
			return nil
		}
		m.userInput.SetValue("")
		return m.setFocus(focusUser)
	case "q", "esc":
		m.quitting = true
		return tea.Quit
	}
	return nil
}

// Run starts the program and blocks until the respondent quits.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
