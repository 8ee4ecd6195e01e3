// Package tui provides a terminal user interface for midi2hex
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jacksmedia/midi2hex/pkg/converter"
)

// 16-bit console palette
var (
	snesLavender = lipgloss.Color("#B5A8F0")
	snesPurple   = lipgloss.Color("#4F43AE")
	snesYellow   = lipgloss.Color("#FFD447")
	silverGray   = lipgloss.Color("#C0C0C0")
	darkGray     = lipgloss.Color("#2A2A35")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(snesLavender).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(snesLavender).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(snesYellow).
			PaddingTop(1)

	warnStyle = lipgloss.NewStyle().
			Foreground(snesYellow).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(snesLavender).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(snesPurple).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	From        converter.Format
	To          converter.OutputFormat
}

var menuItems = []MenuItem{
	{Title: "MIDI → Text", Description: "Translate a MIDI file to space-separated hex tokens", From: converter.FormatMIDI, To: converter.OutputText},
	{Title: "MIDI → JSON", Description: "Translate a MIDI file to JSON with placeholder diagnostics", From: converter.FormatMIDI, To: converter.OutputJSON},
	{Title: "MIDI → Binary", Description: "Translate a MIDI file to raw driver bytes", From: converter.FormatMIDI, To: converter.OutputBinary},
	{Title: "Events JSON → Text", Description: "Translate a JSON event list to hex tokens", From: converter.FormatEvents, To: converter.OutputText},
	{Title: "Exit", Description: "Exit the application"},
}

var outputExt = map[converter.OutputFormat]string{
	converter.OutputText:   ".txt",
	converter.OutputJSON:   ".json",
	converter.OutputBinary: ".bin",
}

// Model represents the TUI model
type Model struct {
	conv         *converter.Converter
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputFile   string
	tokens       int
	placeholders int
	conversion   MenuItem
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile   string
	tokens       int
	placeholders int
	err          error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model translating with conv
func New(conv *converter.Converter) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi", ".json"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(snesLavender)

	return Model{
		conv:       conv,
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs every message while it is open
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.Height = msg.Height - 10
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.tokens = msg.tokens
		m.placeholders = msg.placeholders
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.conversion = menuItems[m.menuIndex]
		m.state = StateFilePicker

		switch m.conversion.From {
		case converter.FormatMIDI:
			m.filePicker.AllowedTypes = []string{".mid", ".midi", ".smf"}
		case converter.FormatEvents:
			m.filePicker.AllowedTypes = []string{".json"}
		}

		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		m.tokens = 0
		m.placeholders = 0
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// outputPath replaces the input extension with the one for to
func outputPath(input string, to converter.OutputFormat) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if ext := outputExt[to]; filepath.Ext(input) != ext {
		return base + ext
	}
	return base + ".out" + outputExt[to]
}

func (m Model) performConversion() tea.Cmd {
	conv := m.conv
	input := m.selectedFile
	output := outputPath(input, m.conversion.To)

	return func() tea.Msg {
		result, err := conv.ConvertFile(input, output, converter.DefaultSeparator)
		if err != nil {
			msg := conversionDoneMsg{err: err}
			if result != nil {
				msg.tokens = len(result.Tokens)
				msg.placeholders = result.PlaceholderCount()
			}
			return msg
		}
		return conversionDoneMsg{
			outputFile:   output,
			tokens:       len(result.Tokens),
			placeholders: result.PlaceholderCount(),
		}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT TRANSLATION (%s) ", m.conv.GetEngine().Name())))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(snesYellow).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s FILE ", strings.ToUpper(string(m.conversion.From)))))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" TRANSLATING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Translating %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %s → %s", m.conversion.From, m.conversion.To)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Translation failed: %s", m.err.Error())))
		if m.placeholders > 0 {
			s.WriteString("\n")
			s.WriteString(warnStyle.Render(fmt.Sprintf("%d placeholder(s) cannot be written as bytes", m.placeholders)))
		}
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Translation complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:        %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output:       %s\n", filepath.Base(m.outputFile)))
		s.WriteString(fmt.Sprintf("Tokens:       %d\n", m.tokens))
		placeholders := fmt.Sprintf("Placeholders: %d", m.placeholders)
		if m.placeholders > 0 {
			placeholders = warnStyle.Render(placeholders)
		}
		s.WriteString(placeholders)
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   __  __ ___ ____ ___ ____  _   _ _______  __
  |  \/  |_ _|  _ \_ _|___ \| | | | ____\ \/ /
  | |\/| || || | | | |  __) | |_| |  _|  \  /
  | |  | || || |_| | | / __/|  _  | |___ /  \
  |_|  |_|___|____/___|_____|_| |_|_____/_/\_\
`
	return lipgloss.NewStyle().Foreground(snesLavender).Render(logo)
}

// Run starts the TUI application
func Run(conv *converter.Converter) error {
	p := tea.NewProgram(New(conv), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
