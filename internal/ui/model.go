package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/clayne/physfs/internal/platform"
	"github.com/dustin/go-humanize"
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for the browser's title bar.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	// borderStyle defines the style for the listing panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	// cursorStyle defines the style for the selected row.
	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	// dirStyle defines the style for directory entries.
	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// browserEntry is one row of the listing: a decoded entry name plus the
// stat record behind it (nil when the stat failed).
type browserEntry struct {
	name string
	info *platform.StatInfo
}

// EntriesMsg is a [tea.Msg] carrying a freshly enumerated directory.
type EntriesMsg struct {
	dir     string
	entries []browserEntry
}

// ChecksumMsg is a [tea.Msg] carrying the result of a checksum action.
type ChecksumMsg struct {
	path   string
	digest string
	err    error
}

// TeaModel is the principal [tea.Model] for the directory browser.
type TeaModel struct {
	width  int
	height int

	uiHandler    *Handler
	platformOps  platformProvider
	verifyOps    verifyProvider
	omitSymlinks bool

	dir     string
	entries []browserEntry
	cursor  int
	status  string

	listViewport viewport.Model

	ready bool
}

// NewTeaModel returns an initial new [TeaModel] rooted at startDir.
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, platformOps platformProvider, verifyOps verifyProvider, startDir string, omitSymlinks bool) TeaModel {
	return TeaModel{
		uiHandler:    uiHandler,
		platformOps:  platformOps,
		verifyOps:    verifyOps,
		omitSymlinks: omitSymlinks,
		dir:          startDir,
		listViewport: viewport.New(80, 20),
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		loadEntries(m.platformOps, m.dir, m.omitSymlinks),
	)
}

// loadEntries produces a [tea.Cmd] that enumerates dir through the platform
// layer and stats every produced entry.
func loadEntries(platformOps platformProvider, dir string, omitSymlinks bool) tea.Cmd {
	return func() tea.Msg {
		var entries []browserEntry

		platformOps.Enumerate(dir, omitSymlinks, func(origDir, name string) {
			path := platformOps.CvtToDependent(strings.TrimRight(origDir, platform.DirSeparator)+platform.DirSeparator, name, "")

			exists, info, err := platformOps.Stat(path)
			if !exists || err != nil {
				info = nil
			}

			entries = append(entries, browserEntry{name: name, info: info})
		})

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].name < entries[j].name
		})

		return EntriesMsg{dir: dir, entries: entries}
	}
}

// checksumEntry produces a [tea.Cmd] that hashes the file at path.
func checksumEntry(verifyOps verifyProvider, path string) tea.Cmd {
	return func() tea.Msg {
		digest, err := verifyOps.HashFile(path)

		return ChecksumMsg{path: path, digest: digest, err: err}
	}
}

// Update is the principal message handling method of the model.
//
//nolint:funlen,ireturn
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.syncViewport()

		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
			m.syncViewport()

		case "enter", "right", "l":
			if entry, ok := m.selected(); ok && entry.info != nil && entry.info.FileType == platform.FileTypeDirectory {
				m.dir = m.entryPath(entry)
				m.cursor = 0
				m.status = ""

				return m, loadEntries(m.platformOps, m.dir, m.omitSymlinks)
			}

		case "backspace", "left", "h":
			if parent := parentDir(m.dir); parent != m.dir {
				m.dir = parent
				m.cursor = 0
				m.status = ""

				return m, loadEntries(m.platformOps, m.dir, m.omitSymlinks)
			}

		case "c":
			if entry, ok := m.selected(); ok && entry.info != nil && entry.info.FileType == platform.FileTypeRegular {
				m.status = "Hashing " + entry.name + "..."

				return m, checksumEntry(m.verifyOps, m.entryPath(entry))
			}

		case "s":
			m.omitSymlinks = !m.omitSymlinks
			m.cursor = 0

			return m, loadEntries(m.platformOps, m.dir, m.omitSymlinks)

		case "r":
			return m, loadEntries(m.platformOps, m.dir, m.omitSymlinks)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.listViewport.Width = m.width - 2
		m.listViewport.Height = m.height - 5

		if !m.ready {
			m.ready = true
			m.uiHandler.Ready.Store(true)
		}
		m.syncViewport()

	case EntriesMsg:
		if msg.dir == m.dir {
			m.entries = msg.entries
			if m.cursor >= len(m.entries) {
				m.cursor = 0
			}
			m.syncViewport()
		}

	case ChecksumMsg:
		if msg.err != nil {
			m.status = "Checksum failed: " + msg.err.Error()
		} else {
			m.status = "BLAKE3 " + msg.digest
		}
	}

	m.listViewport, cmd = m.listViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the browser..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Width(m.width).Render(" " + m.dir))
	s.WriteString("\n")
	s.WriteString(borderStyle.Render(m.listViewport.View()))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.status))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: open • backspace: up • c: checksum • s: toggle symlinks • r: reload • q: quit"))

	return s.String()
}

// syncViewport re-renders the listing rows into the viewport and keeps the
// cursor row visible.
func (m *TeaModel) syncViewport() {
	rows := make([]string, 0, len(m.entries))

	for i, entry := range m.entries {
		rows = append(rows, m.renderRow(i, entry))
	}

	if len(rows) == 0 {
		rows = append(rows, helpStyle.Render("(empty directory)"))
	}

	m.listViewport.SetContent(strings.Join(rows, "\n"))

	if m.cursor < m.listViewport.YOffset {
		m.listViewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(m.cursor - m.listViewport.Height + 1)
	}
}

func (m *TeaModel) renderRow(index int, entry browserEntry) string {
	prefix := "  "
	if index == m.cursor {
		prefix = "> "
	}

	label := entry.name
	detail := ""

	switch {
	case entry.info == nil:
		detail = "?"
	case entry.info.FileType == platform.FileTypeDirectory:
		label = dirStyle.Render(entry.name + platform.DirSeparator)
	case entry.info.FileType == platform.FileTypeRegular:
		detail = humanize.IBytes(entry.info.FileSize)
	default:
		detail = "special"
	}

	row := prefix + label
	if detail != "" {
		row += "  (" + detail + ")"
	}

	if index == m.cursor {
		return cursorStyle.Render(row)
	}

	return row
}

func (m *TeaModel) selected() (browserEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return browserEntry{}, false
	}

	return m.entries[m.cursor], true
}

func (m *TeaModel) entryPath(entry browserEntry) string {
	return m.platformOps.CvtToDependent(strings.TrimRight(m.dir, platform.DirSeparator)+platform.DirSeparator, entry.name, "")
}

// parentDir strips the last path component, never climbing above the root.
func parentDir(dir string) string {
	trimmed := strings.TrimRight(dir, platform.DirSeparator)
	idx := strings.LastIndex(trimmed, platform.DirSeparator)
	if idx < 0 {
		return dir
	}
	if idx == 0 {
		return platform.DirSeparator
	}

	return trimmed[:idx]
}
