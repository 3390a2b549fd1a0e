package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mftwalk "github.com/ntfsutils/mftwalk"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	deletedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// State is the current screen of the browser.
type State int

const (
	StateLoading State = iota
	StateBrowse
	StateDetail
)

// recordItem adapts an mftwalk.Record to bubbles/list's Item interface.
type recordItem struct {
	rec mftwalk.Record
}

func (i recordItem) Title() string {
	name := i.rec.Filename
	if name == "" {
		name = fmt.Sprintf("entry %d", i.rec.EntryID)
	}
	if i.rec.IsDeleted {
		return deletedStyle.Render("✗ " + name)
	}
	if i.rec.IsFile {
		return "  " + name
	}
	return "📁 " + name
}

func (i recordItem) Description() string { return i.rec.Path }
func (i recordItem) FilterValue() string { return i.rec.Path }

type recordsLoadedMsg struct {
	records []mftwalk.Record
	err     error
}

type model struct {
	width, height int
	state         State
	mftPath       string
	list          list.Model
	selected      *mftwalk.Record
	err           error
	total         int
}

func initialModel(mftPath string) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "MFT Records"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	return model{state: StateLoading, mftPath: mftPath, list: l}
}

func (m model) Init() tea.Cmd {
	return m.loadRecords()
}

// loadRecords opens the MFT and walks every record into memory. A full
// Windows volume MFT can be large; the browser is meant for spot-checking
// an extracted MFT, not production-scale triage.
func (m model) loadRecords() tea.Cmd {
	mftPath := m.mftPath
	return func() tea.Msg {
		p, err := mftwalk.Open(mftPath, mftwalk.Settings{})
		if err != nil {
			return recordsLoadedMsg{err: err}
		}
		defer p.Close()

		var records []mftwalk.Record
		it := p.Iterator()
		for {
			rec, ok := it.Next()
			if !ok {
				break
			}
			records = append(records, rec)
		}
		return recordsLoadedMsg{records: records}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != StateDetail {
				return m, tea.Quit
			}
		case "esc":
			if m.state == StateDetail {
				m.state = StateBrowse
				return m, nil
			}
		case "enter":
			if m.state == StateBrowse {
				if item, ok := m.list.SelectedItem().(recordItem); ok {
					rec := item.rec
					m.selected = &rec
					m.state = StateDetail
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case recordsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.records))
		for i, rec := range msg.records {
			items[i] = recordItem{rec: rec}
		}
		m.list.SetItems(items)
		m.total = len(items)
		m.state = StateBrowse
		return m, nil
	}

	if m.state == StateBrowse {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" mftbrowse "))
	s.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		s.WriteString("Indexing " + m.mftPath + "...\n")
	case StateBrowse:
		s.WriteString(m.list.View())
	case StateDetail:
		s.WriteString(m.viewDetail())
	}

	if m.err != nil {
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	}

	s.WriteString("\n")
	switch m.state {
	case StateDetail:
		s.WriteString(helpStyle.Render("Press esc to go back"))
	default:
		s.WriteString(helpStyle.Render("/ to filter • enter for details • q to quit"))
	}
	return s.String()
}

func (m model) viewDetail() string {
	rec := m.selected
	var s strings.Builder
	s.WriteString(subtitleStyle.Render(rec.Filename))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("  Entry ID:  %d\n", rec.EntryID))
	s.WriteString(fmt.Sprintf("  Path:      %s\n", rec.Path))
	s.WriteString(fmt.Sprintf("  Type:      %s\n", typeLabel(rec)))
	s.WriteString(fmt.Sprintf("  Deleted:   %t\n", rec.IsDeleted))
	s.WriteString(fmt.Sprintf("  Created:   %s\n", rec.Created))
	s.WriteString(fmt.Sprintf("  Modified:  %s\n", rec.Modified))
	s.WriteString(fmt.Sprintf("  Accessed:  %s\n", rec.Accessed))
	return s.String()
}

func typeLabel(rec *mftwalk.Record) string {
	if rec.IsFile {
		return "file"
	}
	return "directory"
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <mft file>\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	p := tea.NewProgram(initialModel(flag.Arg(0)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
