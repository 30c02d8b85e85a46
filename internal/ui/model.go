package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/merger"
	"github.com/nconklindev/quizmerge/internal/pipeline"
	"github.com/nconklindev/quizmerge/internal/writer"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	statePreset state = iota
	stateConfigPicker
	stateInputDir
	stateFileMode
	stateFilePick
	stateOutput
	stateProcessing
	stateComplete
	stateError
)

// Config files the built-in layouts look for when the layout is not the
// one named by --preset.
const (
	ChineseConfigPath  = "config/config.json"
	StandardConfigPath = "config/config_standard.json"
)

// Options are the command-line choices the interactive mode starts from.
// ConfigPath applies to the layout named by Preset, which is also the
// one selected first.
type Options struct {
	ConfigPath string
	Preset     string
	Version    string
}

type presetChoice struct {
	title  string
	desc   string
	preset string
	path   string
}

var presets = []presetChoice{
	{
		title:  "Chinese question bank",
		desc:   "description row, header on row 2 (题型 / 题干 / 正确答案)",
		preset: config.PresetChinese,
		path:   ChineseConfigPath,
	},
	{
		title:  "Standard sheet",
		desc:   "header on row 1 (Question Type / Question / Answer)",
		preset: config.PresetStandard,
		path:   StandardConfigPath,
	},
	{
		title: "Custom configuration file",
		desc:  "pick a JSON or YAML config",
	},
}

func (p presetChoice) load(opts Options) config.LoadResult {
	path := p.path
	if p.preset == opts.Preset && opts.ConfigPath != "" {
		path = opts.ConfigPath
	}
	base, _ := config.ByName(p.preset)
	return config.LoadWithBase(path, base)
}

type Model struct {
	state      state
	opts       Options
	cursor     int
	loaded     config.LoadResult
	filepicker filepicker.Model
	dirInput   textinput.Model
	inputDir   string
	outcome    *pipeline.Outcome

	// File and output selection
	files     []string
	selected  []string
	picked    []bool
	menu      int
	pick      int
	skipExcel bool
	skipWord  bool
	notice    string

	err        error
	width      int
	height     int

	progress     progress.Model
	progressChan chan float64
	resultChan   chan mergeResultMsg
}

type mergeResultMsg struct {
	outcome *pipeline.Outcome
	err     error
}

type mergeCompleteMsg struct {
	outcome *pipeline.Outcome
	err     error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(opts Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".json", ".yaml", ".yml"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C42"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB84D"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB84D"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C42")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	ti := textinput.New()
	ti.Placeholder = "."
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C42"))
	ti.CharLimit = 1024
	ti.Width = 60

	prog := progress.New(progress.WithGradient("#FF8C42", "#FF9F5A"))

	cursor := 0
	for i, p := range presets {
		if p.preset != "" && p.preset == opts.Preset {
			cursor = i
		}
	}

	return Model{
		state:      statePreset,
		cursor:     cursor,
		opts:       opts,
		filepicker: fp,
		dirInput:   ti,
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle and help text
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case statePreset:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(presets)-1 {
					m.cursor++
				}
			case "1", "2", "3":
				m.cursor = int(msg.String()[0] - '1')
				return m.choosePreset()
			case "enter":
				return m.choosePreset()
			}
			return m, nil

		case stateConfigPicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc":
				m.state = statePreset
				return m, nil
			}

		case stateInputDir:
			switch msg.String() {
			case "ctrl+c", "esc":
				return m, tea.Quit
			case "enter":
				m.inputDir = strings.TrimSpace(m.dirInput.Value())
				if m.inputDir == "" {
					m.inputDir = "."
				}
				return m.discoverFiles()
			}
			var cmd tea.Cmd
			m.dirInput, cmd = m.dirInput.Update(msg)
			return m, cmd

		case stateFileMode:
			return m.updateFileMode(msg)

		case stateFilePick:
			return m.updateFilePick(msg)

		case stateOutput:
			return m.updateOutput(msg)

		case stateProcessing:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case stateComplete, stateError:
			return m, tea.Quit
		}

	case mergeCompleteMsg:
		m.outcome = msg.outcome
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateConfigPicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.loaded = config.Load(path)
			return m.askInputDir()
		}

		return m, cmd
	}

	if m.state == stateInputDir {
		var cmd tea.Cmd
		m.dirInput, cmd = m.dirInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) choosePreset() (Model, tea.Cmd) {
	choice := presets[m.cursor]
	if choice.preset == "" {
		m.state = stateConfigPicker
		return m, m.filepicker.Init()
	}
	m.loaded = choice.load(m.opts)
	return m.askInputDir()
}

func (m Model) askInputDir() (Model, tea.Cmd) {
	m.state = stateInputDir
	if wd, err := os.Getwd(); err == nil {
		m.dirInput.Placeholder = wd
	}
	cmd := m.dirInput.Focus()
	return m, cmd
}

func (m Model) startMerge() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan mergeResultMsg, 1)

	// Capture for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan
	runner := &pipeline.Runner{
		Config: m.loaded.Config,
		Docs:   writer.NewDocumentWriter(m.loaded.Config),
	}
	req := pipeline.Request{
		InputDir:  m.inputDir,
		Files:     m.selected,
		SkipExcel: m.skipExcel,
		SkipWord:  m.skipWord,
		Progress:  progressChan,
	}

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				outcome, err := runner.Run(req)
				resultChan <- mergeResultMsg{outcome: outcome, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan mergeResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return mergeCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case statePreset:
		return m.viewPreset()
	case stateConfigPicker:
		return m.viewConfigPicker()
	case stateInputDir:
		return m.viewInputDir()
	case stateFileMode:
		return m.viewFileMode()
	case stateFilePick:
		return m.viewFilePick()
	case stateOutput:
		return m.viewOutput()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) header() string {
	title := TitleStyle.Render("📚 quizmerge - Question Bank Merger")
	version := SubtitleStyle.Render("version " + m.opts.Version)
	return lipgloss.JoinVertical(lipgloss.Left, title, version)
}

func (m Model) viewPreset() string {
	var s strings.Builder

	s.WriteString(m.header())
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Choose the layout of your question bank files"))
	s.WriteString("\n\n")

	for i, p := range presets {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %d. %s", cursor, i+1, p.title)
		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line)
		}
		s.WriteString(line)
		s.WriteString("\n")
		s.WriteString(HelpStyle.UnsetMarginTop().Render("     " + p.desc))
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render("↑/↓: navigate • 1-3: choose • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewConfigPicker() string {
	var s strings.Builder

	s.WriteString(m.header())
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a configuration file"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("esc: back • q: quit"))

	return s.String()
}

func (m Model) viewInputDir() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📂 Question Bank Directory"))
	s.WriteString("\n")
	if m.loaded.Fallback {
		s.WriteString(WarningStyle.Render(fmt.Sprintf("! %s not used, built-in layout applies", m.loaded.Path)))
	} else {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ Config: %s", m.loaded.Path)))
	}
	s.WriteString("\n\n")
	s.WriteString("Directory to merge (empty for the current directory):\n\n")
	s.WriteString(m.dirInput.View())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter: list files • esc: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📚 Merging..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Reading %d question bank file(s) in %s", len(m.selected), m.inputDir))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder
	o := m.outcome

	s.WriteString(TitleStyle.Render("✓ Merge Complete!"))
	s.WriteString("\n\n")
	sum := o.Summary(m.inputDir)
	s.WriteString(fmt.Sprintf("Files merged: %d of %d in %s\n\n", sum.FilesUsed, sum.FilesFound, m.truncatePath(sum.InputDir)))
	s.WriteString(o.Report.Format())

	if skipped := o.Merge.Skipped(); len(skipped) > 0 {
		s.WriteString("\n")
		for _, f := range skipped {
			s.WriteString(WarningStyle.Render(fmt.Sprintf("Skipped %s: %s", m.truncatePath(f.Path), f.Reason())))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	if o.ExcelFile != "" {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("Spreadsheet: %s", m.truncatePath(o.ExcelFile))))
		s.WriteString("\n")
	} else if o.ExcelErr != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Spreadsheet not written: %v", o.ExcelErr)))
		s.WriteString("\n")
	}
	if o.WordFile != "" {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("Document:    %s", m.truncatePath(o.WordFile))))
		s.WriteString("\n")
	} else if o.WordErr != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Document not written: %v", o.WordErr)))
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

// truncatePath shortens long paths to fit the box.
func (m Model) truncatePath(p string) string {
	maxPathLen := m.width - 20 // Leave room for padding and borders
	if maxPathLen < 30 {
		maxPathLen = 30
	}
	r := []rune(p)
	if len(r) > maxPathLen {
		return "..." + string(r[len(r)-maxPathLen+3:])
	}
	return p
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n")

	switch {
	case errors.Is(m.err, merger.ErrNoFiles):
		s.WriteString(fmt.Sprintf("\nNo file in %s matches: %s\n",
			filepath.Clean(m.inputDir), strings.Join(m.loaded.Config.FilePatterns, ", ")))
	case m.outcome != nil:
		for _, f := range m.outcome.Merge.Skipped() {
			s.WriteString(fmt.Sprintf("\n%s: %s", m.truncatePath(f.Path), f.Reason()))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
