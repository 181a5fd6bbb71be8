package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/panos-eol/pkg/docurl"
	"github.com/grovetools/panos-eol/pkg/feed"
	"github.com/spf13/cobra"
)

// cycleInfo is one row of the versions report.
type cycleInfo struct {
	Cycle   string `json:"cycle"`
	Version string `json:"version"`
	Date    string `json:"date"`
	URL     string `json:"url,omitempty"`
}

func newVersionsCmd(rt *runtime) *cobra.Command {
	var (
		feedPath string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Show the newest version per release cycle in the feed",
		Long: `Loads the versions feed and lists, per release cycle, the newest version,
its release date and the release-notes URL that update would write.

Example:
  panos-eol versions --json PaloAltoVersions.json --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := feed.NewLoader(rt.log)
			loader.ValidateSchema = rt.cfg.ValidateFeed
			cycles, err := loader.Load(feedPath)
			if err != nil {
				return err
			}

			rows := buildCycleInfos(cycles, docurl.New(rt.cfg.DocsBaseURL))
			switch format {
			case "json":
				data, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case "table":
				fmt.Fprintln(cmd.OutOrStdout(), renderCycleTable(rows))
			default:
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&feedPath, "json", "", "Path to PaloAltoVersions.json")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	_ = cmd.MarkFlagRequired("json")

	return cmd
}

func buildCycleInfos(cycles feed.Cycles, urls *docurl.Builder) []cycleInfo {
	rows := make([]cycleInfo, 0, len(cycles))
	for _, cycle := range cycles.Keys() {
		entry := cycles[cycle]
		url, _ := urls.Build(entry.Version)
		rows = append(rows, cycleInfo{
			Cycle:   cycle,
			Version: entry.Version,
			Date:    entry.Date,
			URL:     url,
		})
	}
	return rows
}

func renderCycleTable(infos []cycleInfo) string {
	var rows [][]string
	for _, info := range infos {
		url := info.URL
		if url == "" {
			url = faintStyle.Render("-")
		}
		rows = append(rows, []string{
			versionStyle.Render(info.Cycle),
			updateAvailableStyle.Render(info.Version),
			info.Date,
			url,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("CYCLE", "LATEST", "RELEASED", "RELEASE NOTES").
		Rows(rows...)

	// Apply styling only to header since content is pre-styled
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return lipgloss.NewStyle().Padding(0, 1)
	})

	return t.Render()
}
