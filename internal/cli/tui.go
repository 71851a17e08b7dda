package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pipeline"
)

// =============================================================================
// FamilyListModel - Interactive family selection
// =============================================================================

// FamilyEntry is one row of the family picker.
type FamilyEntry struct {
	ID      string
	Proband string
	People  int
	Err     string // set when the dataset does not load
}

// FamilyListModel is the bubbletea model for interactive family selection.
type FamilyListModel struct {
	Families []FamilyEntry
	Cursor   int
	Selected *FamilyEntry
	Height   int
	Offset   int
}

// NewFamilyListModel creates a new family list model.
func NewFamilyListModel(families []FamilyEntry) FamilyListModel {
	return FamilyListModel{
		Families: families,
		Height:   15,
	}
}

func (m FamilyListModel) Init() tea.Cmd {
	return nil
}

func (m FamilyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Families)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Families) == 0 {
				return m, tea.Quit
			}
			f := m.Families[m.Cursor]
			if f.Err != "" {
				return m, nil
			}
			m.Selected = &f
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m FamilyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Family"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Families))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		f := m.Families[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		people, proband := fmt.Sprint(f.People), f.Proband
		if f.Err != "" {
			people, proband = "-", f.Err
		}
		rows = append(rows, []string{cursor, f.ID, people, proband})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Family", "People", "Proband").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Families) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Families[idx].Err != "" {
				return base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Families)), len(m.Families))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// familyEntries summarizes every dataset in dir.
func familyEntries(dir string) ([]FamilyEntry, error) {
	ids, err := pipeline.ListFamilies(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]FamilyEntry, 0, len(ids))
	for _, id := range ids {
		e := FamilyEntry{ID: id}
		path, _ := pipeline.FamilyPath(dir, id)
		if ds, err := pipeline.LoadFile(path); err != nil {
			e.Err = string(perrors.GetCode(err))
		} else {
			e.Proband = ds.Proband
			e.People = ds.Len()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// familyArg returns the single command argument, or asks the user to pick
// a family when there is none. An empty result means the user quit.
func (c *CLI) familyArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	entries, err := familyEntries(c.cfg.Data.Dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no families in %s", c.cfg.Data.Dir)
	}

	final, err := tea.NewProgram(NewFamilyListModel(entries)).Run()
	if err != nil {
		return "", fmt.Errorf("family picker: %w", err)
	}
	m, ok := final.(FamilyListModel)
	if !ok || m.Selected == nil {
		return "", nil
	}
	return m.Selected.ID, nil
}

// browseCommand creates the browse command: pick a family and render an
// interactive chart of it.
func (c *CLI) browseCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a family interactively and render its chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.familyArg(nil)
			if err != nil || id == "" {
				return err
			}
			opts := pipeline.FromConfig(c.cfg)
			opts.Logger = c.Logger
			opts.Formats = []string{"svg"}
			opts.Labels = true
			opts.Interactive = true
			return c.runRender(cmd.Context(), id, opts, false, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	return cmd
}
