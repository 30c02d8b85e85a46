package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nconklindev/quizmerge/internal/merger"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	modeAll = iota
	modeKeywords
	modePick
)

var fileModes = []string{
	"All matching files",
	"Question bank files only (name contains 题, chapter, quiz, ...)",
	"Pick files",
}

var outputChoices = []string{
	"Spreadsheet and document",
	"Spreadsheet only",
	"Document only",
}

// pickWindow is how many files the pick list shows at once.
const pickWindow = 15

// discoverFiles lists the inputs of the entered directory and moves on to
// the file selection.
func (m Model) discoverFiles() (Model, tea.Cmd) {
	cfg := m.loaded.Config
	files, err := merger.Discover(m.inputDir, cfg.FilePatterns, []string{cfg.Output.ExcelFilename})
	if err == nil && len(files) == 0 {
		err = merger.ErrNoFiles
	}
	if err != nil {
		m.err = err
		m.state = stateError
		return m, nil
	}

	m.files = files
	m.menu = modeAll
	m.notice = ""
	m.state = stateFileMode
	m.dirInput.Blur()
	return m, nil
}

func (m Model) updateFileMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.state = stateInputDir
		cmd := m.dirInput.Focus()
		return m, cmd
	case "up", "k":
		if m.menu > 0 {
			m.menu--
		}
	case "down", "j":
		if m.menu < len(fileModes)-1 {
			m.menu++
		}
	case "1", "2", "3":
		m.menu = int(msg.String()[0] - '1')
		return m.chooseFileMode()
	case "enter":
		return m.chooseFileMode()
	}
	return m, nil
}

func (m Model) chooseFileMode() (Model, tea.Cmd) {
	m.notice = ""

	switch m.menu {
	case modeKeywords:
		matched := merger.FilterByKeywords(m.files, merger.QuestionBankKeywords)
		if len(matched) == 0 {
			m.notice = "No file name looks like a question bank"
			return m, nil
		}
		m.selected = matched
	case modePick:
		m.picked = make([]bool, len(m.files))
		m.pick = 0
		m.state = stateFilePick
		return m, nil
	default:
		m.selected = m.files
	}

	return m.askOutput(), nil
}

func (m Model) updateFilePick(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.notice = ""
		m.state = stateFileMode
	case "up", "k":
		if m.pick > 0 {
			m.pick--
		}
	case "down", "j":
		if m.pick < len(m.files)-1 {
			m.pick++
		}
	case " ", "x":
		m.picked[m.pick] = !m.picked[m.pick]
	case "a":
		all := true
		for _, p := range m.picked {
			all = all && p
		}
		for i := range m.picked {
			m.picked[i] = !all
		}
	case "enter":
		m.selected = nil
		for i, p := range m.picked {
			if p {
				m.selected = append(m.selected, m.files[i])
			}
		}
		if len(m.selected) == 0 {
			m.notice = "Select at least one file"
			return m, nil
		}
		m.notice = ""
		return m.askOutput(), nil
	}
	return m, nil
}

func (m Model) askOutput() Model {
	m.menu = 0
	m.state = stateOutput
	return m
}

func (m Model) updateOutput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.menu = modeAll
		m.state = stateFileMode
	case "up", "k":
		if m.menu > 0 {
			m.menu--
		}
	case "down", "j":
		if m.menu < len(outputChoices)-1 {
			m.menu++
		}
	case "1", "2", "3":
		m.menu = int(msg.String()[0] - '1')
		return m.chooseOutput()
	case "enter":
		return m.chooseOutput()
	}
	return m, nil
}

func (m Model) chooseOutput() (Model, tea.Cmd) {
	m.skipWord = m.menu == 1
	m.skipExcel = m.menu == 2
	m.state = stateProcessing
	return m.startMerge()
}

func (m Model) renderMenu(s *strings.Builder, items []string) {
	for i, item := range items {
		cursor := " "
		if m.menu == i {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %d. %s", cursor, i+1, item)
		if m.menu == i {
			s.WriteString(SelectedStyle.Render(line))
		} else {
			s.WriteString(UnselectedStyle.Render(line))
		}
		s.WriteString("\n")
	}
}

func (m Model) renderNotice(s *strings.Builder) {
	if m.notice != "" {
		s.WriteString("\n")
		s.WriteString(WarningStyle.Render(m.notice))
		s.WriteString("\n")
	}
}

func (m Model) viewFileMode() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📄 Files to Merge"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%d file(s) in %s match %s\n\n",
		len(m.files), m.truncatePath(filepath.Clean(m.inputDir)), strings.Join(m.loaded.Config.FilePatterns, ", ")))

	m.renderMenu(&s, fileModes)
	m.renderNotice(&s)

	s.WriteString(HelpStyle.Render("↑/↓: navigate • 1-3: choose • enter: select • esc: back • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewFilePick() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📄 Pick Files"))
	s.WriteString("\n\n")

	start := 0
	if m.pick >= pickWindow {
		start = m.pick - pickWindow + 1
	}
	end := start + pickWindow
	if end > len(m.files) {
		end = len(m.files)
	}

	for i := start; i < end; i++ {
		cursor := " "
		if m.pick == i {
			cursor = ">"
		}
		box := "[ ]"
		if m.picked[i] {
			box = CheckedStyle.Render("[x]")
		}
		name := filepath.Base(m.files[i])
		if m.pick == i {
			name = SelectedStyle.Render(name)
		} else {
			name = UnselectedStyle.Render(name)
		}
		s.WriteString(fmt.Sprintf("%s %s %s\n", cursor, box, name))
	}
	if len(m.files) > pickWindow {
		s.WriteString(HelpStyle.UnsetMarginTop().Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(m.files))))
		s.WriteString("\n")
	}
	m.renderNotice(&s)

	s.WriteString(HelpStyle.Render("space: toggle • a: all • enter: confirm • esc: back • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewOutput() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("💾 Output"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%d file(s) selected\n\n", len(m.selected)))

	m.renderMenu(&s, outputChoices)

	s.WriteString(HelpStyle.Render("↑/↓: navigate • 1-3: choose • enter: merge • esc: back • q: quit"))

	return BoxStyle.Render(s.String())
}
