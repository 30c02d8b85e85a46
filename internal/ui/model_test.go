package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/merger"
	"github.com/nconklindev/quizmerge/internal/pipeline"
	"github.com/nconklindev/quizmerge/internal/testkit"
	"github.com/nconklindev/quizmerge/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func newModel(t *testing.T) Model {
	t.Helper()
	return InitialModel(Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.json"),
		Version:    "test",
	})
}

func TestPresetCursor(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"starts at first", nil, 0},
		{"down", []string{"down"}, 1},
		{"down twice", []string{"down", "j"}, 2},
		{"stops at last", []string{"down", "down", "down", "down"}, len(presets) - 1},
		{"stops at first", []string{"up", "k"}, 0},
		{"down then up", []string{"down", "up"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t)
			for _, k := range tt.keys {
				m = send(t, m, key(k))
			}
			if m.cursor != tt.want {
				t.Errorf("cursor = %d, want %d", m.cursor, tt.want)
			}
			if m.state != statePreset {
				t.Errorf("state = %d, want statePreset", m.state)
			}
		})
	}
}

func TestChoosePreset(t *testing.T) {
	t.Run("chinese falls back to defaults", func(t *testing.T) {
		m := send(t, newModel(t), key("enter"))

		if m.state != stateInputDir {
			t.Fatalf("state = %d, want stateInputDir", m.state)
		}
		if !m.loaded.Fallback {
			t.Error("expected fallback for a missing config file")
		}
		if m.loaded.Config.Columns.QuestionType != config.Default().Columns.QuestionType {
			t.Errorf("type label = %q", m.loaded.Config.Columns.QuestionType)
		}
	})

	t.Run("standard by number", func(t *testing.T) {
		m := send(t, newModel(t), key("2"))

		if m.state != stateInputDir {
			t.Fatalf("state = %d, want stateInputDir", m.state)
		}
		if got, want := m.loaded.Config.Columns.QuestionType, config.Standard().Columns.QuestionType; got != want {
			t.Errorf("type label = %q, want %q", got, want)
		}
	})

	t.Run("custom opens the picker", func(t *testing.T) {
		m := send(t, newModel(t), key("3"))
		if m.state != stateConfigPicker {
			t.Fatalf("state = %d, want stateConfigPicker", m.state)
		}

		m = send(t, m, key("esc"))
		if m.state != statePreset {
			t.Errorf("esc: state = %d, want statePreset", m.state)
		}
	})
}

func TestInputDirTyping(t *testing.T) {
	m := send(t, newModel(t), key("1"), key("q"))

	// q is text here, not quit
	if m.state != stateInputDir {
		t.Fatalf("state = %d, want stateInputDir", m.state)
	}
	if got := m.dirInput.Value(); got != "q" {
		t.Errorf("input = %q, want %q", got, "q")
	}
}

func TestMergeComplete(t *testing.T) {
	ds := &types.Table{}
	ds.Append(&types.Table{
		Columns: []string{"来源文件", "题型"},
		Rows:    []types.Row{{"来源文件": "ch1", "题型": "单选题"}},
	})
	outcome := &pipeline.Outcome{
		Merge: merger.Result{
			Dataset: ds,
			Files: []types.FileResult{
				{Path: "ch1.xlsx", Source: "ch1", Table: ds},
				{Path: "notes.xlsx", Source: "notes", Err: errors.New("missing column 题型")},
			},
		},
		Report:    merger.Report{Total: 1},
		ExcelFile: "out/merged.xlsx",
	}

	m := newModel(t)
	m.state = stateProcessing
	m = send(t, m, mergeCompleteMsg{outcome: outcome})

	if m.state != stateComplete {
		t.Fatalf("state = %d, want stateComplete", m.state)
	}

	view := m.View()
	for _, want := range []string{"Files merged: 1 of 2", "Total questions: 1", "Skipped notes.xlsx", "out/merged.xlsx"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMergeFailed(t *testing.T) {
	m := newModel(t)
	m.state = stateProcessing
	m.inputDir = "banks"
	m.loaded = config.LoadResult{Config: config.Default()}
	m = send(t, m, mergeCompleteMsg{err: merger.ErrNoFiles})

	if m.state != stateError {
		t.Fatalf("state = %d, want stateError", m.state)
	}
	if view := m.View(); !strings.Contains(view, "No file in banks matches") {
		t.Errorf("view missing pattern hint:\n%s", view)
	}
}

func TestWaitForProgress(t *testing.T) {
	progressChan := make(chan float64, 2)
	resultChan := make(chan mergeResultMsg, 1)

	progressChan <- 0.5
	if msg := waitForProgress(progressChan, resultChan)(); msg != progressMsg(0.5) {
		t.Errorf("got %v, want progress 0.5", msg)
	}

	resultChan <- mergeResultMsg{err: merger.ErrNoUsableFiles}
	close(progressChan)
	close(resultChan)

	msg, ok := waitForProgress(progressChan, resultChan)().(mergeCompleteMsg)
	if !ok {
		t.Fatal("expected mergeCompleteMsg after the progress channel closed")
	}
	if !errors.Is(msg.err, merger.ErrNoUsableFiles) {
		t.Errorf("err = %v", msg.err)
	}
}

func TestPresetFlagSelectsLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yaml")
	cfg := config.Standard()
	cfg.Columns.QuestionType = "Kind"
	if err := config.WriteTemplate(path, cfg); err != nil {
		t.Fatal(err)
	}

	m := InitialModel(Options{ConfigPath: path, Preset: config.PresetStandard})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want the standard layout", m.cursor)
	}

	m = send(t, m, key("enter"))
	if m.loaded.Fallback {
		t.Fatalf("config not used: %v", m.loaded.Err)
	}
	if got := m.loaded.Config.Columns.QuestionType; got != "Kind" {
		t.Errorf("type label = %q, want %q", got, "Kind")
	}

	// The other layout keeps its own file.
	m = InitialModel(Options{ConfigPath: path, Preset: config.PresetStandard})
	m = send(t, m, key("1"))
	if m.loaded.Path == path {
		t.Error("chinese layout read the standard config file")
	}
}

// atFileMode returns a model that has listed the files of a directory
// holding the given workbooks.
func atFileMode(t *testing.T, names ...string) (Model, string) {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		testkit.WriteXLSX(t, filepath.Join(dir, name), testkit.ChapterOne())
	}

	m := newModel(t)
	m.loaded = config.LoadResult{Config: config.Standard()}
	m.state = stateInputDir
	m.dirInput.SetValue(dir)
	m = send(t, m, key("enter"))
	return m, dir
}

func TestFileMode(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		files  []string
		state  state
		notice bool
	}{
		{
			name:  "all",
			keys:  []string{"1"},
			files: []string{"budget.xlsx", "chapter1.xlsx", "quiz_b.xlsx"},
			state: stateOutput,
		},
		{
			name:  "keywords",
			keys:  []string{"down", "enter"},
			files: []string{"chapter1.xlsx", "quiz_b.xlsx"},
			state: stateOutput,
		},
		{
			name:  "pick",
			keys:  []string{"3", "down", "down", "space", "up", "up", "space", "enter"},
			files: []string{"budget.xlsx", "quiz_b.xlsx"},
			state: stateOutput,
		},
		{
			name:   "pick nothing",
			keys:   []string{"3", "enter"},
			state:  stateFilePick,
			notice: true,
		},
		{
			name:  "pick all",
			keys:  []string{"3", "a", "enter"},
			files: []string{"budget.xlsx", "chapter1.xlsx", "quiz_b.xlsx"},
			state: stateOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, dir := atFileMode(t, "chapter1.xlsx", "budget.xlsx", "quiz_b.xlsx")
			if m.state != stateFileMode {
				t.Fatalf("state = %d, want stateFileMode (err %v)", m.state, m.err)
			}

			for _, k := range tt.keys {
				m = send(t, m, key(k))
			}

			if m.state != tt.state {
				t.Fatalf("state = %d, want %d", m.state, tt.state)
			}
			if (m.notice != "") != tt.notice {
				t.Errorf("notice = %q", m.notice)
			}
			if tt.files == nil {
				return
			}
			var want []string
			for _, f := range tt.files {
				want = append(want, filepath.Join(dir, f))
			}
			if strings.Join(m.selected, "|") != strings.Join(want, "|") {
				t.Errorf("selected = %v, want %v", m.selected, want)
			}
		})
	}
}

func TestFileModeNoKeywordMatch(t *testing.T) {
	m, _ := atFileMode(t, "budget.xlsx")
	m = send(t, m, key("2"))

	if m.state != stateFileMode {
		t.Fatalf("state = %d, want stateFileMode", m.state)
	}
	if m.notice == "" {
		t.Error("expected a notice when no file name matches")
	}
}

func TestEmptyDirectory(t *testing.T) {
	m, _ := atFileMode(t)

	if m.state != stateError {
		t.Fatalf("state = %d, want stateError", m.state)
	}
	if !errors.Is(m.err, merger.ErrNoFiles) {
		t.Errorf("err = %v, want ErrNoFiles", m.err)
	}
}

func TestOutputChoice(t *testing.T) {
	tests := []struct {
		key       string
		skipExcel bool
		skipWord  bool
	}{
		{"1", false, false},
		{"2", false, true},
		{"3", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := atFileMode(t, "chapter1.xlsx")
			m = send(t, m, key("1"), key(tt.key))

			if m.state != stateProcessing {
				t.Fatalf("state = %d, want stateProcessing", m.state)
			}
			if m.skipExcel != tt.skipExcel || m.skipWord != tt.skipWord {
				t.Errorf("skipExcel=%t skipWord=%t, want %t %t", m.skipExcel, m.skipWord, tt.skipExcel, tt.skipWord)
			}
		})
	}
}

func TestAnyKeyExits(t *testing.T) {
	for _, st := range []state{stateComplete, stateError} {
		m := newModel(t)
		m.state = st

		_, cmd := m.Update(key("x"))
		if cmd == nil {
			t.Fatalf("state %d: no command for a key press", st)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("state %d: key press did not quit", st)
		}
	}
}
