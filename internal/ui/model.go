package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/logging"
	"github.com/faizmokh/gaji/internal/report"
	"github.com/faizmokh/gaji/internal/tracker"
)

const dateLayout = "2006-01-02"

// Model owns Bubble Tea state for the form. The session is only touched from
// Update while no store command is in flight; View reads the snapshot fields.
type Model struct {
	ctx     context.Context
	session *tracker.Session
	logger  *slog.Logger

	weeks    []ledger.WeekRecord
	selected string
	cursor   int
	summary  ledger.Summary
	history  []ledger.HistoryRow
	bonus    int
	dirty    bool

	inputs    [ledger.DaysInWeek]textinput.Model
	focus     int
	dateInput textinput.Model
	pathInput textinput.Model

	mode        mode
	busy        bool
	showHistory bool
	attachment  *Attachment

	keys       keyMap
	help       help.Model
	statusLine string
	errorLine  string
}

type mode uint8

const (
	modeNormal mode = iota
	modeEdit
	modeAddWeek
	modeAttach
	modeConfirmDelete
)

type loadedMsg struct {
	err error
}

type weekAddedMsg struct {
	week ledger.WeekRecord
	err  error
}

type savedMsg struct {
	result tracker.SaveResult
	err    error
}

type deletedMsg struct {
	weekID string
	err    error
}

// NewModel seeds a Bubble Tea model around session.
func NewModel(ctx context.Context, session *tracker.Session, logger *slog.Logger) Model {
	m := Model{
		ctx:        ctx,
		session:    session,
		logger:     logging.Component(logger, logging.ComponentUI),
		cursor:     -1,
		bonus:      ledger.BaseBonus,
		keys:       defaultKeyMap(),
		help:       help.New(),
		busy:       true,
		statusLine: "Loading weeks...",
	}
	for i := range m.inputs {
		m.inputs[i] = newInput("0", 8)
	}
	m.dateInput = newInput(dateLayout, len(dateLayout))
	m.pathInput = newInput("path/to/image.png", 0)
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = limit
	ti.Width = 20
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Init loads the ledger.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case loadedMsg:
		return m.handleLoaded(msg)
	case weekAddedMsg:
		return m.handleWeekAdded(msg)
	case savedMsg:
		return m.handleSaved(msg)
	case deletedMsg:
		return m.handleDeleted(msg)
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch m.mode {
	case modeEdit:
		return m.handleEditKey(msg)
	case modeAddWeek, modeAttach:
		return m.handlePromptKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Add):
		return m.beginAddWeek()
	case key.Matches(msg, m.keys.Delete):
		return m.beginDelete()
	case key.Matches(msg, m.keys.History):
		m.showHistory = !m.showHistory
		return m, nil
	case key.Matches(msg, m.keys.Attach):
		m.mode = modeAttach
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		m.clearNotice()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.busy = true
		m.statusLine = "Reloading..."
		m.errorLine = ""
		return m, m.loadCmd()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.blurInputs()
		m.mode = modeNormal
		return m, nil
	case tea.KeyEnter, tea.KeyCtrlS:
		return m.save()
	}
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.focusDay((m.focus + 1) % ledger.DaysInWeek)
	case key.Matches(msg, m.keys.Prev):
		return m.focusDay((m.focus + ledger.DaysInWeek - 1) % ledger.DaysInWeek)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.session.SetDistance(ledger.Day(m.focus), parseDistance(m.inputs[m.focus].Value()))
	m.refresh()
	return m, cmd
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.cancelPrompt("Cancelled.")
	case tea.KeyEnter:
		if m.mode == modeAddWeek {
			return m.submitAddWeek()
		}
		return m.submitAttachment()
	}

	var cmd tea.Cmd
	if m.mode == modeAddWeek {
		m.dateInput, cmd = m.dateInput.Update(msg)
	} else {
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		weekID := m.selected
		m.mode = modeNormal
		m.busy = true
		m.statusLine = "Deleting week..."
		m.errorLine = ""
		return m, m.deleteCmd(weekID)
	case "n", "N", "esc":
		return m.cancelPrompt("Delete cancelled.")
	}
	return m, nil
}

func (m Model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	if len(m.weeks) == 0 {
		return m, nil
	}
	next := m.cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(m.weeks) {
		next = len(m.weeks) - 1
	}
	if next == m.cursor {
		return m, nil
	}
	if err := m.session.Select(m.weeks[next].WeekID); err != nil {
		m.errorLine = err.Error()
		return m, nil
	}
	m.clearNotice()
	m.refresh()
	m.syncInputs()
	return m, nil
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	if m.selected == "" {
		m.errorLine = tracker.ErrNoSelection.Error()
		return m, nil
	}
	m.mode = modeEdit
	m.clearNotice()
	return m.focusDay(0)
}

func (m Model) focusDay(index int) (tea.Model, tea.Cmd) {
	m.blurInputs()
	m.focus = index
	cmd := m.inputs[index].Focus()
	m.inputs[index].CursorEnd()
	return m, cmd
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m Model) beginAddWeek() (tea.Model, tea.Cmd) {
	m.mode = modeAddWeek
	m.dateInput.SetValue(time.Now().Format(dateLayout))
	m.dateInput.CursorEnd()
	m.clearNotice()
	cmd := m.dateInput.Focus()
	return m, cmd
}

func (m Model) beginDelete() (tea.Model, tea.Cmd) {
	if m.selected == "" {
		m.errorLine = tracker.ErrNoSelection.Error()
		return m, nil
	}
	m.mode = modeConfirmDelete
	m.clearNotice()
	return m, nil
}

func (m Model) submitAddWeek() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.dateInput.Value())
	var date time.Time
	if value != "" {
		parsed, err := time.ParseInLocation(dateLayout, value, time.Local)
		if err != nil {
			m.errorLine = fmt.Sprintf("Invalid date %q (expected YYYY-MM-DD)", value)
			return m, nil
		}
		date = parsed
	}
	m.dateInput.Blur()
	m.mode = modeNormal
	m.busy = true
	m.statusLine = "Adding week..."
	m.errorLine = ""
	return m, m.addWeekCmd(date)
}

func (m Model) submitAttachment() (tea.Model, tea.Cmd) {
	att, err := InspectAttachment(m.pathInput.Value())
	if err != nil {
		m.logger.Debug("attachment rejected", logging.FieldError, err)
		m.errorLine = err.Error()
		return m, nil
	}
	m.pathInput.Blur()
	m.mode = modeNormal
	m.attachment = &att
	m.statusLine = "Attached " + att.Name + "."
	m.errorLine = ""
	return m, nil
}

func (m Model) cancelPrompt(message string) (tea.Model, tea.Cmd) {
	m.dateInput.Blur()
	m.pathInput.Blur()
	m.mode = modeNormal
	m.statusLine = message
	m.errorLine = ""
	return m, nil
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if m.selected == "" {
		m.errorLine = tracker.ErrNoSelection.Error()
		return m, nil
	}
	m.busy = true
	m.statusLine = "Saving..."
	m.errorLine = ""
	return m, m.saveCmd()
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.refresh()
	m.syncInputs()
	if msg.err != nil {
		m.logger.Warn("load failed", logging.FieldError, msg.err)
		m.errorLine = "Loading failed; check that the backend is running."
		m.statusLine = ""
		return m, nil
	}
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Loaded %d week%s.", len(m.weeks), plural(len(m.weeks)))
	return m, nil
}

func (m Model) handleWeekAdded(msg weekAddedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.statusLine = ""
		switch {
		case errors.Is(msg.err, tracker.ErrDateRequired):
			m.errorLine = "Choose a date for the new week."
		case errors.Is(msg.err, ledger.ErrDuplicateWeek):
			m.errorLine = "That week already exists."
		default:
			m.errorLine = "Adding the week failed; check that the backend is running."
		}
		return m, nil
	}
	m.refresh()
	m.syncInputs()
	m.errorLine = ""
	m.statusLine = "Added " + ledger.RangeLabel(msg.week.WeekID) + "."
	return m, nil
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.refresh()
	if msg.err != nil {
		m.statusLine = ""
		if msg.result.Changed {
			m.errorLine = "Week saved but the bonus could not be updated."
		} else {
			m.errorLine = "Save failed; check that the backend is running."
		}
		return m, nil
	}
	m.errorLine = ""
	switch {
	case !msg.result.Changed:
		m.statusLine = "Nothing to save."
	case msg.result.BonusChanged:
		m.statusLine = fmt.Sprintf("Saved. Next week's bonus is now %d.", msg.result.Bonus)
	default:
		m.statusLine = "Saved."
	}
	return m, nil
}

func (m Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.errorLine = "Delete failed; check that the backend is running."
		m.statusLine = ""
		return m, nil
	}
	m.refresh()
	m.syncInputs()
	m.errorLine = ""
	m.statusLine = "Deleted " + ledger.RangeLabel(msg.weekID) + "."
	return m, nil
}

// refresh copies the session state the view needs.
func (m *Model) refresh() {
	m.weeks = m.session.Weeks()
	m.selected = m.session.Selected()
	m.cursor = -1
	for i, w := range m.weeks {
		if w.WeekID == m.selected {
			m.cursor = i
			break
		}
	}
	m.summary = m.session.Summary()
	m.history = m.session.History()
	m.bonus = m.session.Bonus()
	m.dirty = m.session.Dirty()
}

// syncInputs loads the draft into the day inputs.
func (m *Model) syncInputs() {
	draft := m.session.Draft()
	for i := range m.inputs {
		value := ""
		if d := draft.Distance(ledger.Day(i)); d != 0 {
			value = report.FormatDistance(d)
		}
		m.inputs[i].SetValue(value)
		m.inputs[i].CursorEnd()
	}
	if m.selected == "" && m.mode == modeEdit {
		m.blurInputs()
		m.mode = modeNormal
	}
}

func (m *Model) clearNotice() {
	m.statusLine = ""
	m.errorLine = ""
}

func (m Model) loadCmd() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: session.Load(ctx)}
	}
}

func (m Model) addWeekCmd(date time.Time) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		week, err := session.AddWeek(ctx, date)
		return weekAddedMsg{week: week, err: err}
	}
}

func (m Model) saveCmd() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		result, err := session.Save(ctx)
		return savedMsg{result: result, err: err}
	}
}

func (m Model) deleteCmd(weekID string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return deletedMsg{weekID: weekID, err: session.DeleteWeek(ctx, weekID)}
	}
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("gaji"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  next week's bonus: %d", m.bonus)))
	b.WriteString("\n\n")

	b.WriteString(m.viewWeeks())
	if m.selected != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			panelStyle.Render(m.viewDays()),
			" ",
			panelStyle.Render(m.viewSummary()),
		))
		b.WriteString("\n")
	}
	if m.showHistory {
		b.WriteString("\n")
		b.WriteString(m.viewHistory())
	}
	if m.attachment != nil {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Attachment: "))
		b.WriteString(m.attachment.String())
		b.WriteString("\n")
	}

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.errorLine))
		b.WriteString("\n")
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.statusLine))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAddWeek:
		b.WriteString("\nNew week containing date (Enter to add, Esc to cancel):\n> ")
		b.WriteString(m.dateInput.View())
		b.WriteString("\n")
	case modeAttach:
		b.WriteString("\nImage file (Enter to attach, Esc to cancel):\n> ")
		b.WriteString(m.pathInput.View())
		b.WriteString("\n")
	case modeConfirmDelete:
		b.WriteString(fmt.Sprintf("\nDelete %s? (y/n)\n", ledger.RangeLabel(m.selected)))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewWeeks() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Weeks"))
	b.WriteString("\n")
	if m.busy && len(m.weeks) == 0 {
		b.WriteString(mutedStyle.Render("  Loading..."))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.weeks) == 0 {
		b.WriteString(mutedStyle.Render("  (no weeks yet, press a to add one)"))
		b.WriteString("\n")
		return b.String()
	}
	for i, w := range m.weeks {
		line := "  " + ledger.RangeLabel(w.WeekID)
		if i == m.cursor {
			line = cursorStyle.Render("> " + ledger.RangeLabel(w.WeekID))
			if m.dirty {
				line += " " + dirtyMarker
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewDays() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Distances"))
	b.WriteString("\n")
	for i, info := range ledger.Days {
		marker := "  "
		if m.mode == modeEdit && m.focus == i {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(labelStyle.Render(info.Label))
		b.WriteString(m.inputs[i].View())
		if note := ledger.TargetNote(ledger.Day(i), m.summary.Week.Distance(ledger.Day(i))); note != "" {
			style := missedStyle
			if note == "target met" {
				style = metStyle
			}
			b.WriteString(" ")
			b.WriteString(style.Render(note))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewSummary() string {
	s := m.summary
	rows := [][2]string{
		{"Week total", report.FormatDistance(s.Total)},
		{"Wage", ledger.FormatMoney(s.Wage)},
		{"Attendance bonus", strconv.Itoa(s.Bonus)},
		{"Next week's bonus", strconv.Itoa(s.NextBonus)},
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render("Result"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(row[1])
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Total income"))
	b.WriteString(incomeStyle.Render(ledger.FormatMoney(s.Income)))
	return b.String()
}

func (m Model) viewHistory() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Attendance bonus history"))
	b.WriteString("\n")
	if len(m.history) == 0 {
		b.WriteString(mutedStyle.Render("  (no weeks)"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(historyHeader.Render(fmt.Sprintf("%-8s %-25s %6s %6s %6s", "Week", "Dates", "Sat", "Sun", "Bonus")))
	b.WriteString("\n")
	for _, row := range m.history {
		b.WriteString(fmt.Sprintf("%-8s %-25s %6s %6s %6d",
			"#"+strconv.Itoa(row.Position),
			ledger.RangeLabel(row.Week.WeekID),
			report.FormatDistance(row.Week.Distance(ledger.Saturday)),
			report.FormatDistance(row.Week.Distance(ledger.Sunday)),
			row.Bonus,
		))
		b.WriteString("\n")
	}
	return b.String()
}

// parseDistance reads a day input. Anything that is not a number counts as 0.
func parseDistance(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
