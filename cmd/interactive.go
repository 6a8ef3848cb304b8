package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/graphsteg/graphsteg/pkg/carrier"
	"github.com/graphsteg/graphsteg/pkg/pipeline"
	"github.com/graphsteg/graphsteg/pkg/stego"
	"github.com/spf13/cobra"
)

// Styles
var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	cursorStyle  = focusedStyle
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

type fileItem struct {
	path     string
	name     string
	isDir    bool
	selected bool
}

type model struct {
	path       string
	files      []fileItem
	cursor     int
	status     string
	passInput  textinput.Model
	typingPass bool
	quitting   bool
}

func initialModel() model {
	cwd, _ := os.Getwd()
	input := textinput.New()
	input.Placeholder = "passphrase"
	input.EchoMode = textinput.EchoPassword
	m := model{
		path:      cwd,
		status:    "Navigate: ↑/↓ | Enter: Open Dir | Space: Select | 'r': Reveal Selected",
		passInput: input,
	}
	m.loadFiles()
	return m
}

func (m *model) loadFiles() {
	entries, err := os.ReadDir(m.path)
	if err != nil {
		m.status = "Error reading directory"
		return
	}

	m.files = []fileItem{{name: "..", isDir: true, path: filepath.Dir(m.path)}}
	for _, e := range entries {
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if e.IsDir() || ext == ".png" || ext == ".wav" {
			m.files = append(m.files, fileItem{
				name:  name,
				isDir: e.IsDir(),
				path:  filepath.Join(m.path, name),
			})
		}
	}
	m.cursor = 0
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typingPass {
			switch msg.String() {
			case "esc":
				m.typingPass = false
				m.passInput.Blur()
				return m, nil
			case "enter":
				m.typingPass = false
				m.passInput.Blur()
				return m, m.revealSelected(m.passInput.Value())
			}
			var cmd tea.Cmd
			m.passInput, cmd = m.passInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}

		case "enter":
			selected := m.files[m.cursor]
			if selected.isDir {
				m.path = selected.path
				m.loadFiles()
			}

		case " ":
			if !m.files[m.cursor].isDir {
				m.files[m.cursor].selected = !m.files[m.cursor].selected
			}

		case "r":
			if m.countSelected() == 0 {
				m.status = "No carriers selected!"
				return m, nil
			}
			m.typingPass = true
			m.passInput.SetValue("")
			m.passInput.Focus()
		}

	case statusMsg:
		m.status = string(msg)
		if strings.HasPrefix(m.status, "Success") {
			for i := range m.files {
				m.files[i].selected = false
			}
		}
	}

	return m, nil
}

type statusMsg string

func (m model) countSelected() int {
	n := 0
	for _, f := range m.files {
		if f.selected {
			n++
		}
	}
	return n
}

func (m model) revealSelected(passphrase string) tea.Cmd {
	return func() tea.Msg {
		var carriers []carrier.Carrier
		for _, f := range m.files {
			if !f.selected {
				continue
			}
			car, err := carrier.Load(f.path)
			if err != nil {
				return statusMsg(fmt.Sprintf("Error loading %s: %v", f.name, err))
			}
			carriers = append(carriers, car)
		}

		name, err := runInteractiveReveal(carriers, passphrase)
		if err != nil {
			return statusMsg(fmt.Sprintf("Error: %v", err))
		}
		return statusMsg(fmt.Sprintf("Success! Recovered %s in the current directory.", name))
	}
}

// runInteractiveReveal recovers a payload from the selected carriers,
// trying single-carrier mode first.
func runInteractiveReveal(carriers []carrier.Carrier, passphrase string) (string, error) {
	params := stego.DefaultParams()

	if len(carriers) == 1 {
		header, plain, err := pipeline.Reveal(carriers[0], passphrase, params)
		if err == nil {
			return header.OriginalFilename, os.WriteFile(header.OriginalFilename, plain, 0644)
		}
	}
	header, plain, err := pipeline.RevealAcross(carriers, passphrase, params)
	if err != nil {
		return "", err
	}
	return header.OriginalFilename, os.WriteFile(header.OriginalFilename, plain, 0644)
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	s := fmt.Sprintf("Directory: %s\n\n", m.path)

	for i, file := range m.files {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
			s += cursorStyle.Render(cursor)
		} else {
			s += cursor
		}

		checked := " "
		if file.selected {
			checked = "x"
		}

		line := ""
		if file.isDir {
			line = fmt.Sprintf("[DIR] %s", file.name)
		} else {
			line = fmt.Sprintf("[%s] %s", checked, file.name)
		}

		if file.selected {
			line = checkedStyle.Render(line)
		}

		s += " " + line + "\n"
	}

	if m.typingPass {
		s += fmt.Sprintf("\nPassphrase: %s\n", m.passInput.View())
	}
	s += fmt.Sprintf("\n%s\n", m.status)
	return docStyle.Render(s)
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Browse carriers and reveal payloads interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := tea.NewProgram(initialModel()).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
