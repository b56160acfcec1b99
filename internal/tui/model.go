package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nao1215/scamscan/internal/followup"
	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/scan"
	"github.com/nao1215/scamscan/internal/session"
)

const (
	defaultWidth = 80
	maxWidth     = 110

	// eventBuffer covers the progress steps plus the final outcome.
	eventBuffer = 16

	// maxMessageLength caps the text area.
	maxMessageLength = 4000
)

// focus is the area receiving key presses.
type focus int

const (
	focusInput focus = iota
	focusFollowup
)

// progressMsg carries one progress line of the running submission.
type progressMsg string

// scanDoneMsg ends a scan or a refinement.
type scanDoneMsg struct {
	report *scan.Report
	err    error
	refine bool
}

// Model is the bubbletea model of the interactive front end.
type Model struct {
	ctx     context.Context
	session *session.Session

	input   textarea.Model
	spinner spinner.Model
	styles  styles

	focus    focus
	cursor   int
	busy     bool
	refining bool
	progress []string
	events   chan tea.Msg

	report *scan.Report
	err    error
	notice string

	width int
}

// New creates a Model over sess. A report already held by the session,
// e.g. from an initial state, is shown right away.
func New(ctx context.Context, sess *session.Session) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste the suspicious message here..."
	ta.CharLimit = maxMessageLength
	ta.ShowLineNumbers = false
	ta.SetWidth(defaultWidth - 4)
	ta.SetHeight(4)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		session: sess,
		input:   ta,
		spinner: sp,
		styles:  newStyles(),
		width:   defaultWidth,
		report:  sess.Current(),
	}
	if m.followupOpen() {
		m.setFocus(focusFollowup)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(msg.Width, maxWidth)
		m.input.SetWidth(max(20, m.width-4))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case progressMsg:
		m.progress = append(m.progress, string(msg))
		return m, waitForEvent(m.events)

	case scanDoneMsg:
		return m.finish(msg), nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey dispatches a key press by focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+s", "alt+enter":
		return m.submit()
	case "tab":
		if m.followupOpen() {
			if m.focus == focusInput {
				m.setFocus(focusFollowup)
			} else {
				m.setFocus(focusInput)
			}
		}
		return m, nil
	}

	if m.focus == focusFollowup {
		return m.handleFollowupKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleFollowupKey handles the keys of the follow-up panel.
func (m Model) handleFollowupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.setFocus(focusInput)
		return m, nil
	}

	aw, ok := m.session.FollowupState().(followup.AwaitingAnswers)
	if !ok || len(aw.Questions) == 0 {
		return m, nil
	}
	m.cursor = min(m.cursor, len(aw.Questions)-1)

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(aw.Questions)-1 {
			m.cursor++
		}
	case "y":
		m.err = m.session.SelectAnswer(aw.Questions[m.cursor].ID, model.AnswerYes)
	case "n":
		m.err = m.session.SelectAnswer(aw.Questions[m.cursor].ID, model.AnswerNo)
	case "backspace", "delete":
		m.err = m.session.ClearAnswer(aw.Questions[m.cursor].ID)
	case "r", "enter":
		return m.refine()
	}
	return m, nil
}

// submit starts a scan of the text area. It is a no-op while busy.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	message := strings.TrimSpace(m.input.Value())
	if message == "" {
		m.notice = "Enter a message to scan."
		return m, nil
	}

	m.start(false)
	return m, tea.Batch(
		m.spinner.Tick,
		runScan(m.ctx, m.session, message, m.events),
		waitForEvent(m.events),
	)
}

// refine resubmits the message with the selected answers.
func (m Model) refine() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	m.start(true)
	return m, tea.Batch(
		m.spinner.Tick,
		runRefine(m.ctx, m.session, m.events),
		waitForEvent(m.events),
	)
}

// start resets the transient state for a new submission.
func (m *Model) start(refine bool) {
	m.busy = true
	m.refining = refine
	m.progress = nil
	m.err = nil
	m.notice = ""
	m.events = make(chan tea.Msg, eventBuffer)
}

// finish applies the outcome of a submission. A failure keeps the report
// on display.
func (m Model) finish(msg scanDoneMsg) Model {
	m.busy = false
	m.refining = false
	m.events = nil

	if msg.err != nil {
		m.err = msg.err
		return m
	}

	m.report = msg.report
	m.cursor = 0
	if m.followupOpen() {
		m.setFocus(focusFollowup)
	} else {
		m.setFocus(focusInput)
	}
	return m
}

// setFocus moves the key focus.
func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
		return
	}
	m.input.Blur()
}

// followupOpen reports whether the follow-up panel is shown.
func (m Model) followupOpen() bool {
	switch m.session.FollowupState().(type) {
	case followup.AwaitingAnswers, followup.Submitting:
		return true
	default:
		return false
	}
}

// Busy reports whether a submission is running.
func (m Model) Busy() bool {
	return m.busy
}

// Report returns the report on display.
func (m Model) Report() *scan.Report {
	return m.report
}

// Err returns the error of the last action, if any.
func (m Model) Err() error {
	return m.err
}

// runScan runs a scan and sends its progress and outcome to events.
func runScan(ctx context.Context, sess *session.Session, message string, events chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		defer close(events)
		report, err := sess.Scan(ctx, message, progressSink(ctx, events))
		send(ctx, events, scanDoneMsg{report: report, err: err})
		return nil
	}
}

// runRefine runs a refinement and sends its progress and outcome to events.
func runRefine(ctx context.Context, sess *session.Session, events chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		defer close(events)
		report, err := sess.Refine(ctx, progressSink(ctx, events))
		send(ctx, events, scanDoneMsg{report: report, err: err, refine: true})
		return nil
	}
}

// progressSink forwards progress lines to events.
func progressSink(ctx context.Context, events chan<- tea.Msg) func(string) {
	return func(line string) {
		send(ctx, events, progressMsg(line))
	}
}

// send delivers msg unless ctx is done first.
func send(ctx context.Context, events chan<- tea.Msg, msg tea.Msg) {
	select {
	case events <- msg:
	case <-ctx.Done():
	}
}

// waitForEvent returns the next message of a submission.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
