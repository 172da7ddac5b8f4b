package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/kanban-go/internal/board"
	"github.com/nibzard/kanban-go/internal/session"
	"github.com/nibzard/kanban-go/internal/storage"
)

func newTestModel(t *testing.T, seed map[board.List][]string) (*Model, *session.Session, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	sess, report := session.Open(context.Background(), store, nil)
	if !report.OK() {
		t.Fatalf("Open: %v", report.Err())
	}
	for _, l := range board.Lists {
		for _, text := range seed[l] {
			if err := sess.Update(func(b *board.Board) error {
				return b.EditText(b.CreateTask(l), text)
			}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
	}
	return NewModel(context.Background(), sess), sess, store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the model and runs any command they return,
// feeding resulting messages back.
func press(t *testing.T, m *Model, keys ...tea.KeyMsg) tea.Cmd {
	t.Helper()
	var last tea.Cmd
	for _, k := range keys {
		_, last = m.Update(k)
	}
	return last
}

func typeText(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		m.Update(runes(string(r)))
	}
}

func listTexts(sess *session.Session, l board.List) []string {
	var out []string
	sess.View(func(b *board.Board) {
		for _, task := range b.GetList(l) {
			out = append(out, task.Text)
		}
	})
	return out
}

func equal(a, b []string) bool {
	return strings.Join(a, "|") == strings.Join(b, "|")
}

func TestAddTask(t *testing.T) {
	m, sess, _ := newTestModel(t, nil)

	press(t, m, runes("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode = %v, want modeAdd", m.mode)
	}
	typeText(t, m, "write tests")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeBrowse {
		t.Errorf("mode = %v, want modeBrowse", m.mode)
	}
	if got := listTexts(sess, board.Todo); !equal(got, []string{"write tests"}) {
		t.Errorf("todo = %v, want [write tests]", got)
	}
	if got := len(m.columns[board.Todo]); got != 1 {
		t.Errorf("cached todo column has %d tasks, want 1", got)
	}
	if !sess.Dirty() {
		t.Error("session not dirty after add")
	}
}

func TestAddCancel(t *testing.T) {
	m, sess, _ := newTestModel(t, nil)

	press(t, m, runes("a"))
	typeText(t, m, "nope")
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if got := listTexts(sess, board.Todo); len(got) != 0 {
		t.Errorf("todo = %v, want empty", got)
	}
	if sess.Dirty() {
		t.Error("cancelled add made session dirty")
	}
}

func TestAddInFocusedList(t *testing.T) {
	m, sess, _ := newTestModel(t, nil)

	press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, runes("a"))
	typeText(t, m, "x")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := listTexts(sess, board.Done); !equal(got, []string{"x"}) {
		t.Errorf("done = %v, want [x]", got)
	}
}

func TestEditTask(t *testing.T) {
	m, sess, _ := newTestModel(t, map[board.List][]string{board.Todo: {"old"}})

	press(t, m, runes("e"))
	if m.input.Value() != "old" {
		t.Fatalf("input = %q, want prefilled old", m.input.Value())
	}
	m.input.SetValue("new")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := listTexts(sess, board.Todo); !equal(got, []string{"new"}) {
		t.Errorf("todo = %v, want [new]", got)
	}
}

func TestInputTextKeptAsTyped(t *testing.T) {
	m, sess, _ := newTestModel(t, map[board.List][]string{board.Todo: {"old"}})

	press(t, m, runes("e"))
	m.input.SetValue("  indented  ")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, runes("a"))
	typeText(t, m, " lead")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := listTexts(sess, board.Todo); !equal(got, []string{"  indented  ", " lead"}) {
		t.Errorf("todo = %q, want text unchanged", got)
	}
}

func TestEditEmptyColumnIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	press(t, m, runes("e"))
	if m.mode != modeBrowse {
		t.Errorf("mode = %v, want modeBrowse", m.mode)
	}
}

func TestColorCycle(t *testing.T) {
	m, sess, _ := newTestModel(t, map[board.List][]string{board.Todo: {"a"}})

	press(t, m, runes("c"))
	sess.View(func(b *board.Board) {
		if got := b.GetList(board.Todo)[0].Color; got != board.Pink {
			t.Errorf("color = %v, want pink", got)
		}
	})
	if got := m.columns[board.Todo][0].Color; got != board.Pink {
		t.Errorf("cached color = %v, want pink", got)
	}
}

func TestReorder(t *testing.T) {
	m, sess, _ := newTestModel(t, map[board.List][]string{board.Todo: {"A", "B", "C"}})

	press(t, m, runes("J"))
	if got := listTexts(sess, board.Todo); !equal(got, []string{"B", "A", "C"}) {
		t.Errorf("after J: %v, want [B A C]", got)
	}
	if m.cursor[board.Todo] != 1 {
		t.Errorf("cursor = %d, want 1 (follows the task)", m.cursor[board.Todo])
	}

	press(t, m, runes("K"), runes("K"))
	if got := listTexts(sess, board.Todo); !equal(got, []string{"A", "B", "C"}) {
		t.Errorf("after K K: %v, want [A B C]", got)
	}
	if m.cursor[board.Todo] != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor[board.Todo])
	}
}

func TestAdvance(t *testing.T) {
	m, sess, _ := newTestModel(t, map[board.List][]string{board.Todo: {"A", "B"}})

	press(t, m, runes("j"), runes("m"))
	if got := listTexts(sess, board.Todo); !equal(got, []string{"A"}) {
		t.Errorf("todo = %v, want [A]", got)
	}
	if got := listTexts(sess, board.Doing); !equal(got, []string{"B"}) {
		t.Errorf("doing = %v, want [B]", got)
	}
	if m.cursor[board.Todo] != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor[board.Todo])
	}
	if got := len(m.columns[board.Doing]); got != 1 {
		t.Errorf("cached doing column has %d tasks, want 1", got)
	}
	if !strings.Contains(m.status, "doing") {
		t.Errorf("status = %q, want it to name doing", m.status)
	}
}

func TestAdvanceDoneGoesBackToDoing(t *testing.T) {
	m, sess, _ := newTestModel(t, map[board.List][]string{board.Done: {"A"}})

	press(t, m, runes("l"), runes("l"), runes("m"))
	if got := listTexts(sess, board.Doing); !equal(got, []string{"A"}) {
		t.Errorf("doing = %v, want [A]", got)
	}
}

func TestDeleteConfirmation(t *testing.T) {
	m, sess, _ := newTestModel(t, map[board.List][]string{board.Todo: {"A", "B"}})

	press(t, m, runes("d"))
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode = %v, want modeConfirmDelete", m.mode)
	}
	if !strings.Contains(m.View(), `Delete "A"?`) {
		t.Errorf("view does not show the confirmation prompt")
	}
	press(t, m, runes("n"))
	if got := listTexts(sess, board.Todo); !equal(got, []string{"A", "B"}) {
		t.Errorf("after n: %v, want unchanged", got)
	}

	press(t, m, runes("d"), runes("y"))
	if got := listTexts(sess, board.Todo); !equal(got, []string{"B"}) {
		t.Errorf("after y: %v, want [B]", got)
	}
	if m.mode != modeBrowse {
		t.Errorf("mode = %v, want modeBrowse", m.mode)
	}
}

func TestNavigationWraps(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	press(t, m, runes("h"))
	if m.focus != board.Done {
		t.Errorf("focus = %v, want done", m.focus)
	}
	press(t, m, runes("l"))
	if m.focus != board.Todo {
		t.Errorf("focus = %v, want todo", m.focus)
	}
}

func TestCursorBounds(t *testing.T) {
	m, _, _ := newTestModel(t, map[board.List][]string{board.Todo: {"A", "B"}})

	press(t, m, runes("k"))
	if m.cursor[board.Todo] != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor[board.Todo])
	}
	press(t, m, runes("j"), runes("j"), runes("j"))
	if m.cursor[board.Todo] != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor[board.Todo])
	}
}

func TestSave(t *testing.T) {
	m, sess, store := newTestModel(t, map[board.List][]string{board.Todo: {"A"}})

	cmd := press(t, m, runes("s"))
	if cmd == nil {
		t.Fatal("s returned no command")
	}
	m.Update(cmd())

	if m.status != "saved" || m.failed {
		t.Errorf("status = %q (failed=%v), want saved", m.status, m.failed)
	}
	if store.Puts() != 3 {
		t.Errorf("Puts() = %d, want 3", store.Puts())
	}
	if sess.Dirty() {
		t.Error("session dirty after save")
	}
}

func TestSaveFailureShown(t *testing.T) {
	m, _, store := newTestModel(t, map[board.List][]string{board.Todo: {"A"}})
	store.FailPut("todo", errors.New("disk full"))

	cmd := press(t, m, runes("s"))
	m.Update(cmd())

	if !m.failed || !strings.Contains(m.status, "disk full") {
		t.Errorf("status = %q (failed=%v), want the save error", m.status, m.failed)
	}
}

func TestQuit(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"q", runes("q")},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestModel(t, nil)
			cmd := press(t, m, tt.key)
			if cmd == nil {
				t.Fatal("no command returned")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("command did not quit")
			}
		})
	}
}

func TestQuitKeyTypedInInput(t *testing.T) {
	m, sess, _ := newTestModel(t, nil)

	press(t, m, runes("a"))
	typeText(t, m, "quiz")
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := listTexts(sess, board.Todo); !equal(got, []string{"quiz"}) {
		t.Errorf("todo = %v, want [quiz]", got)
	}
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel(t, map[board.List][]string{
		board.Todo:  {"buy milk"},
		board.Doing: {"write code"},
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	for _, want := range []string{"TODO (1)", "DOING (1)", "DONE (0)", "buy milk", "write code", "no tasks"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("IsTTY(buffer) = true, want false")
	}
}
