package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/layout/tree"
	"github.com/matzehuels/compgraph/pkg/pipeline"
	"github.com/matzehuels/compgraph/pkg/render/styles"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		static  bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [mapping.yaml|layout.json]",
		Short: "Browse the placed nodes of a layout",
		Long: `Browse the placed nodes of a layout.

Computes the layout (or reads it) and lists every node with its kind,
parent and position. Tab cycles a kind filter. Without a terminal, or with
--static, the table is printed once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts, static || !isTerminal(os.Stdout), noCache)
		},
	}
	cmd.Flags().BoolVar(&static, "static", false, "print the table instead of starting the browser")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, opts pipeline.Options, static, noCache bool) error {
	in, err := loadInput(path)
	if err != nil {
		return err
	}
	opts.Mapping, opts.Layout = in.mapping, in.layout
	c.applyConfig(&opts)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.ComputeLayout(ctx, opts)
	if errors.IsEmpty(err) {
		printEmpty(in.name())
		return nil
	}
	if err != nil {
		return err
	}

	m := NewNodeListModel(in.name(), res.Layout, res.Tree)
	if static {
		m.Height = len(m.Nodes)
		fmt.Fprintln(stdout, m.View())
		return nil
	}
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeListModel is the bubbletea model of the inspect command.
type NodeListModel struct {
	Title  string
	Layout graph.Layout
	Tree   tree.Result

	// Nodes holds the indices of the nodes passing the filter.
	Nodes  []int
	Filter graph.NodeKind
	Cursor int
	Offset int
	Height int
}

// NewNodeListModel creates a model listing every node of l.
func NewNodeListModel(title string, l graph.Layout, res tree.Result) NodeListModel {
	m := NodeListModel{Title: title, Layout: l, Tree: res, Height: 15}
	m.applyFilter()
	return m
}

// kindCycle is the tab order of the kind filter; "" shows every kind.
var kindCycle = []graph.NodeKind{
	"", graph.KindIndependent, graph.KindState, graph.KindVariable,
	graph.KindEffect, graph.KindJSX, graph.KindExternal,
}

func (m *NodeListModel) applyFilter() {
	m.Nodes = make([]int, 0, len(m.Layout.Nodes))
	for i, n := range m.Layout.Nodes {
		if m.Filter == "" || n.Kind == m.Filter {
			m.Nodes = append(m.Nodes, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			for i, k := range kindCycle {
				if k == m.Filter {
					m.Filter = kindCycle[(i+1)%len(kindCycle)]
					break
				}
			}
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-8)
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.summary()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab filter  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := m.Layout.Nodes[m.Nodes[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		parent := n.ParentID()
		if parent == "" {
			parent = "—"
		}
		rows = append(rows, []string{
			cursor, n.ID, string(n.Kind), n.DisplayLabel(), parent,
			fmt.Sprintf("%.0f", n.X), fmt.Sprintf("%.0f", n.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Kind", "Label", "Parent", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 2 {
				kind := m.Layout.Nodes[m.Nodes[idx]].Kind
				base = base.Foreground(lipgloss.Color(styles.NodeStyleFor(kind).Stroke))
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	filter := "all"
	if m.Filter != "" {
		filter = string(m.Filter)
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %s", min(m.Cursor+1, len(m.Nodes)), len(m.Nodes), filter)))
	return b.String()
}

func (m NodeListModel) summary() string {
	parts := []string{
		fmt.Sprintf("%d nodes", len(m.Layout.Nodes)),
		fmt.Sprintf("%d edges", len(m.Layout.Edges)),
		fmt.Sprintf("%.0fx%.0f", m.Layout.Width, m.Layout.Height),
	}
	if len(m.Tree.Roots) > 0 {
		parts = append(parts, fmt.Sprintf("%d roots, depth %d", len(m.Tree.Roots), m.Tree.MaxDepth))
	}
	if len(m.Tree.Promoted) > 0 {
		parts = append(parts, fmt.Sprintf("promoted: %s", strings.Join(m.Tree.Promoted, ", ")))
	}
	return strings.Join(parts, " · ")
}
