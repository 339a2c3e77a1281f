package commands

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/soundhash/fpindex/config"
	"github.com/soundhash/fpindex/index"
)

var (
	browseConfigFlag     string
	browseCodesFlag      string
	browseSimilarityFlag string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively page through query results in a terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(browseConfigFlag)
		if err != nil {
			return fmt.Errorf("browse: %w", err)
		}

		if browseCodesFlag == "" {
			return fmt.Errorf("browse: --codes is required")
		}
		data, err := os.ReadFile(browseCodesFlag)
		if err != nil {
			return fmt.Errorf("browse: reading %s: %w", browseCodesFlag, err)
		}
		var codes []uint32
		if err := json.Unmarshal(data, &codes); err != nil {
			return fmt.Errorf("browse: parsing %s: %w", browseCodesFlag, err)
		}

		simStr := browseSimilarityFlag
		if simStr == "" {
			simStr = cfg.DefaultSimilarity
		}
		sim, err := config.ParseSimilarity(simStr)
		if err != nil {
			return fmt.Errorf("browse: %w", err)
		}

		ix, err := index.Load(cfg.BlockPaths)
		if err != nil {
			return fmt.Errorf("browse: %w", err)
		}
		defer ix.Close()

		results := index.Query(ix, codes, sim, 100)
		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}

		p := tea.NewProgram(newBrowseModel(results))
		_, err = p.Run()
		return err
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseConfigFlag, "config", "fpindex.yaml", "path to the fpindex config file")
	browseCmd.Flags().StringVar(&browseCodesFlag, "codes", "", "path to a JSON array of uint32 query codes (required)")
	browseCmd.Flags().StringVar(&browseSimilarityFlag, "similarity", "", "jaccard, set_intersection, or set_intersection_norm_by_query_len (default: config's default_similarity)")
}

var (
	browseTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	browseSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	browseHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type browseModel struct {
	results  []index.Result
	cursor   int
	selected map[int]struct{}
}

func newBrowseModel(results []index.Result) browseModel {
	return browseModel{results: results, selected: map[int]struct{}{}}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
		case "enter", " ":
			if _, ok := m.selected[m.cursor]; ok {
				delete(m.selected, m.cursor)
			} else {
				m.selected[m.cursor] = struct{}{}
			}
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	s := browseTitleStyle.Render(fmt.Sprintf("fpindex: %d results", len(m.results))) + "\n\n"
	for i, r := range m.results {
		line := fmt.Sprintf("song %d\tscore %.4f", r.SongID, r.Score)
		if _, ok := m.selected[i]; ok {
			line = "[x] " + line
		} else {
			line = "[ ] " + line
		}
		if i == m.cursor {
			line = browseSelectedStyle.Render(line)
		}
		s += line + "\n"
	}
	s += "\n" + browseHelpStyle.Render("up/down: move  enter: toggle  q: quit")
	return s
}
