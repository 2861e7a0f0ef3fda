package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/store"
	"github.com/faizmokh/gaji/internal/tracker"
)

type offlineStore struct {
	store.Store
}

func (offlineStore) SaveWeek(context.Context, ledger.WeekRecord) (ledger.WeekRecord, error) {
	return ledger.WeekRecord{}, errors.New("connection refused")
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends keys in order and returns the command produced by the last one.
func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyPress(k))
		m = next.(Model)
	}
	return m, cmd
}

// run executes an async command and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func loadedModel(t *testing.T, st store.Store) Model {
	t.Helper()
	m := NewModel(context.Background(), tracker.NewSession(st, nil), nil)
	return run(t, m, m.Init())
}

func TestInitLoadsWeeks(t *testing.T) {
	m := loadedModel(t, store.NewMemory(
		ledger.NewWeek("week-2025-11-03"),
		ledger.NewWeek("week-2025-11-10"),
	))

	assert.False(t, m.busy)
	assert.Equal(t, "Loaded 2 weeks.", m.statusLine)
	view := m.View()
	assert.Contains(t, view, "2025-11-03 - 2025-11-09")
	assert.Contains(t, view, "2025-11-10 - 2025-11-16")
	assert.Equal(t, -1, m.cursor)
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	m := NewModel(context.Background(), tracker.NewSession(store.NewMemory(ledger.NewWeek("week-2025-11-10")), nil), nil)
	m, cmd := press(m, "j", "a")
	assert.Nil(t, cmd)
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, -1, m.cursor)
}

func TestEditAndSaveQualifyingWeek(t *testing.T) {
	mem := store.NewMemory(ledger.NewWeek("week-2025-11-10"))
	m := loadedModel(t, mem)

	m, _ = press(m, "j")
	require.Equal(t, "week-2025-11-10", m.selected)

	m, _ = press(m, "enter", "1", "0")
	require.Equal(t, modeEdit, m.mode)
	m, _ = press(m, "tab", "tab", "tab", "tab", "tab", "6", "tab", "5")
	assert.True(t, m.dirty)
	assert.Equal(t, "10", m.inputs[ledger.Monday].Value())
	assert.Equal(t, 21.0, m.summary.Total)

	m, cmd := press(m, "enter")
	assert.True(t, m.busy)
	m = run(t, m, cmd)

	assert.False(t, m.dirty)
	assert.Equal(t, 22, m.bonus)
	assert.Equal(t, "Saved. Next week's bonus is now 22.", m.statusLine)
	view := m.View()
	assert.Contains(t, view, "139.86")
	assert.Contains(t, view, "159.86")
	assert.Contains(t, view, "target met")

	snap, err := mem.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 22, snap.Bonus)
}

func TestSaveUnchangedWeek(t *testing.T) {
	m := loadedModel(t, store.NewMemory(ledger.NewWeek("week-2025-11-10")))
	m, _ = press(m, "j")
	m, cmd := press(m, "s")
	m = run(t, m, cmd)
	assert.Equal(t, "Nothing to save.", m.statusLine)
}

func TestSaveWithoutSelection(t *testing.T) {
	m := loadedModel(t, store.NewMemory())
	m, cmd := press(m, "s")
	assert.Nil(t, cmd)
	assert.Equal(t, tracker.ErrNoSelection.Error(), m.errorLine)
}

func TestSaveFailureShowsNotice(t *testing.T) {
	m := loadedModel(t, offlineStore{Store: store.NewMemory(ledger.NewWeek("week-2025-11-10"))})
	m, _ = press(m, "j", "enter", "7")
	m, cmd := press(m, "enter")
	m = run(t, m, cmd)

	assert.Equal(t, "Save failed; check that the backend is running.", m.errorLine)
	assert.True(t, m.dirty)
}

func TestAddWeek(t *testing.T) {
	m := loadedModel(t, store.NewMemory())

	m, _ = press(m, "a")
	require.Equal(t, modeAddWeek, m.mode)
	m.dateInput.SetValue("2025-11-12")
	m, cmd := press(m, "enter")
	m = run(t, m, cmd)

	assert.Equal(t, "week-2025-11-10", m.selected)
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, "Added 2025-11-10 - 2025-11-16.", m.statusLine)

	m, _ = press(m, "a")
	m.dateInput.SetValue("2025-11-16")
	m, cmd = press(m, "enter")
	m = run(t, m, cmd)
	assert.Equal(t, "That week already exists.", m.errorLine)
	assert.Len(t, m.weeks, 1)
}

func TestAddWeekValidation(t *testing.T) {
	m := loadedModel(t, store.NewMemory())

	m, _ = press(m, "a")
	m.dateInput.SetValue("2025-13-01")
	m, cmd := press(m, "enter")
	assert.Nil(t, cmd)
	assert.Contains(t, m.errorLine, "Invalid date")
	assert.Equal(t, modeAddWeek, m.mode)

	m.dateInput.SetValue("")
	m, cmd = press(m, "enter")
	m = run(t, m, cmd)
	assert.Equal(t, "Choose a date for the new week.", m.errorLine)
}

func TestDeleteSelectedWeek(t *testing.T) {
	m := loadedModel(t, store.NewMemory(
		ledger.NewWeek("week-2025-11-03"),
		ledger.NewWeek("week-2025-11-10"),
	))
	m, _ = press(m, "j", "j")
	require.Equal(t, "week-2025-11-10", m.selected)

	m, _ = press(m, "d")
	require.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Delete 2025-11-10 - 2025-11-16?")

	m, cmd := press(m, "y")
	m = run(t, m, cmd)
	assert.Len(t, m.weeks, 1)
	assert.Equal(t, "week-2025-11-03", m.selected)
	assert.Equal(t, "Deleted 2025-11-10 - 2025-11-16.", m.statusLine)
}

func TestDeleteCancelled(t *testing.T) {
	m := loadedModel(t, store.NewMemory(ledger.NewWeek("week-2025-11-10")))
	m, _ = press(m, "j", "d", "n")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "Delete cancelled.", m.statusLine)
	assert.Len(t, m.weeks, 1)
}

func TestHistoryToggle(t *testing.T) {
	q := ledger.NewWeek("week-2025-11-03").WithDistance(ledger.Saturday, 5).WithDistance(ledger.Sunday, 5)
	m := loadedModel(t, store.NewMemory(q, ledger.NewWeek("week-2025-11-10")))

	assert.NotContains(t, m.View(), "Attendance bonus history")
	m, _ = press(m, "H")
	view := m.View()
	assert.Contains(t, view, "Attendance bonus history")
	assert.Contains(t, view, "#2")
}

func TestAttachImage(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "ride.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("just some text"), 0o644))

	m := loadedModel(t, store.NewMemory())

	m, _ = press(m, "i")
	m.pathInput.SetValue(txt)
	m, _ = press(m, "enter")
	assert.Contains(t, m.errorLine, "not an image")
	assert.Nil(t, m.attachment)

	m.pathInput.SetValue(png)
	m, _ = press(m, "enter")
	require.NotNil(t, m.attachment)
	assert.Equal(t, "ride.png", m.attachment.Name)
	assert.Contains(t, m.View(), "image/png")
}

func TestInspectAttachmentMissingFile(t *testing.T) {
	_, err := InspectAttachment(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseDistance(t *testing.T) {
	tests := map[string]float64{
		"":     0,
		"12.5": 12.5,
		" 7 ":  7,
		"abc":  0,
		"NaN":  0,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseDistance(input), input)
	}
}
