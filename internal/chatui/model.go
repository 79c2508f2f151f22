// Package chatui is a local transport adapter: a terminal chat front-end
// that feeds typed input into the conversation engine and renders its
// replies. It carries no invariants of its own; everything it does is
// normalize input to engine events and display engine output.
package chatui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumenlimitless/xenon/internal/engine"
)

// localChatID stands in for the chat identifier a real messaging transport
// would provide.
const localChatID int64 = 1

// speaker tags a transcript line.
type speaker int

const (
	speakerUser speaker = iota
	speakerBot
	speakerSystem
)

// line is one transcript entry. Prompt lines belong to the latest engine
// prompt and are pruned when a reply asks for the previous prompt to be
// deleted.
type line struct {
	who    speaker
	text   string
	prompt bool
}

// repliesMsg delivers engine output back into the bubbletea loop.
type repliesMsg struct {
	replies []engine.Reply
}

// dispatchErrMsg is a failed unit of work; the event is dropped and the
// error shown, the process keeps running.
type dispatchErrMsg struct {
	err error
}

// Model is the bubbletea model for the chat session.
type Model struct {
	eng     *engine.Engine
	userID  int64
	profile engine.Profile

	viewport viewport.Model
	input    textinput.Model
	lines    []line
	buttons  []engine.Button

	width  int
	height int
	ready  bool
}

// New creates a chat session for one simulated user.
func New(eng *engine.Engine, userID int64, profile engine.Profile) Model {
	input := textinput.New()
	input.Placeholder = "Type a message or /help"
	input.Focus()
	input.CharLimit = 512

	return Model{
		eng:     eng,
		userID:  userID,
		profile: profile,
		input:   input,
		lines: []line{
			{who: speakerSystem, text: "Connected. Type /start to create an account."},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case repliesMsg:
		m.applyReplies(msg.replies)
		return m, nil

	case dispatchErrMsg:
		m.lines = append(m.lines, line{who: speakerSystem, text: "error: " + msg.err.Error()})
		m.refreshViewport()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit turns the typed input into an engine event.
func (m Model) submit() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return m, nil
	}
	m.input.Reset()
	m.lines = append(m.lines, line{who: speakerUser, text: raw})

	ev, ok := m.normalize(raw)
	if !ok {
		m.refreshViewport()
		return m, nil
	}

	m.refreshViewport()
	return m, m.dispatch(ev)
}

// normalize maps raw input to an event: slash commands, button numbers, or
// free text. Unknown commands and tokens are dropped as no-ops with a
// system line.
func (m *Model) normalize(raw string) (engine.Event, bool) {
	if word, isCmd := strings.CutPrefix(raw, "/"); isCmd {
		name, known := engine.LookupCommand(word)
		if !known {
			m.lines = append(m.lines, line{who: speakerSystem, text: "unknown command: /" + word})
			return nil, false
		}
		return engine.Command{Name: name, User: m.userID, Chat: localChatID, From: m.profile}, true
	}

	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(m.buttons) {
		action, valid := engine.ParseCallback(m.buttons[n-1].Token)
		if !valid {
			return nil, false
		}
		return engine.Callback{User: m.userID, Chat: localChatID, Action: action}, true
	}

	return engine.Text{User: m.userID, Chat: localChatID, Body: raw}, true
}

// dispatch runs the unit of work off the UI goroutine.
func (m Model) dispatch(ev engine.Event) tea.Cmd {
	eng := m.eng
	return func() tea.Msg {
		replies, err := eng.Dispatch(context.Background(), ev)
		if err != nil {
			return dispatchErrMsg{err: err}
		}
		return repliesMsg{replies: replies}
	}
}

// applyReplies renders engine output into the transcript and records the
// new button set.
func (m *Model) applyReplies(replies []engine.Reply) {
	for _, r := range replies {
		if r.DeletePrompt {
			m.prunePrompt()
		}

		if r.Text != "" {
			m.lines = append(m.lines, line{who: speakerBot, text: r.Text, prompt: true})
		}

		m.buttons = m.buttons[:0]
		for _, row := range r.Buttons {
			m.buttons = append(m.buttons, row...)
		}
		for i, b := range m.buttons {
			m.lines = append(m.lines, line{
				who:    speakerBot,
				text:   fmt.Sprintf("  [%d] %s", i+1, b.Label),
				prompt: true,
			})
		}
	}
	m.refreshViewport()
}

// prunePrompt drops the lines of the previous prompt block, keeping the
// transcript clean during multi-step flows.
func (m *Model) prunePrompt() {
	kept := m.lines[:0]
	for _, l := range m.lines {
		if !l.prompt {
			kept = append(kept, l)
		}
	}
	m.lines = kept
}

// refreshViewport re-renders the transcript.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, l := range m.lines {
		switch l.who {
		case speakerUser:
			b.WriteString(userStyle.Render("you: ") + l.text)
		case speakerBot:
			if strings.HasPrefix(l.text, "  [") {
				b.WriteString(buttonStyle.Render(l.text))
			} else {
				b.WriteString(botStyle.Render("shop: " + l.text))
			}
		case speakerSystem:
			b.WriteString(systemStyle.Render(l.text))
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	title := titleStyle.Render("xenon storefront")
	help := helpStyle.Render("enter: send • type a button number to press it • esc: quit")
	return title + "\n" + m.viewport.View() + "\n" + inputBoxStyle.Render(m.input.View()) + "\n" + help
}
