package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bnema/buildsel/internal/application/usecase"
	"github.com/bnema/buildsel/internal/cli/model"
	"github.com/bnema/buildsel/internal/cli/styles"
	"github.com/bnema/buildsel/internal/domain/view"
)

var (
	listSearch string
	listFilter string
	listPage   int
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the server's builds",
	Long: `List the builds known to the build server, one page at a time.

Examples:
  buildsel list                        # First page of all builds
  buildsel list --filter pending       # Builds that still need patching
  buildsel list --search 3fa9 --json   # Matching builds as JSON`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "case-insensitive build hash substring")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "status filter: all, patched or pending")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print the page as JSON")
}

// listOutput is the JSON shape of one listed page.
type listOutput struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total"`
	Builds     []listedBuild `json:"builds"`
}

type listedBuild struct {
	BuildHash string   `json:"build_hash"`
	Channel   string   `json:"channel"`
	BuildDate string   `json:"build_date"`
	IsActive  bool     `json:"is_active"`
	IsPatched bool     `json:"is_patched"`
	Actions   []string `json:"actions"`
}

func runList(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()

	filter, err := view.ParseStatusFilter(listFilter)
	if err != nil {
		return err
	}
	if err := app.Refresh.Execute(ctx, usecase.RefreshBuildsInput{}); err != nil {
		return err
	}

	app.Console.SetSearch(listSearch)
	app.Console.SetFilter(filter)
	app.Console.SetPage(listPage)
	page := app.Console.View()

	if listJSON {
		return writeListJSON(cmd.OutOrStdout(), page)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderList(app.Theme, page, app.Config.Appearance.DateFormat))
	return nil
}

func writeListJSON(w io.Writer, page view.Page) error {
	out := listOutput{
		Page:       page.Number,
		TotalPages: page.TotalPages,
		Total:      len(page.Filtered),
		Builds:     make([]listedBuild, 0, len(page.Rows)),
	}
	for _, b := range page.Rows {
		date := b.RawDate
		if !b.BuildDate.IsZero() {
			date = b.BuildDate.Format("2006-01-02T15:04:05Z07:00")
		}
		actions := make([]string, 0, 2)
		for _, a := range b.Actions() {
			actions = append(actions, a.String())
		}
		out.Builds = append(out.Builds, listedBuild{
			BuildHash: b.BuildHash,
			Channel:   b.Channel,
			BuildDate: date,
			IsActive:  b.IsActive,
			IsPatched: b.IsPatched,
			Actions:   actions,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// renderList prints the page as a table; the full hash is kept so it can be
// pasted into the action commands.
func renderList(theme *styles.Theme, page view.Page, dateFormat string) string {
	if page.Empty() {
		return theme.Subtle.Render(model.EmptyMessage)
	}

	rows := model.ProjectRows(page, nil, dateFormat)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Build", "Channel", "Date", "Status", "Actions").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Highlight.Padding(0, 1)
			}
			return theme.Normal.Padding(0, 1)
		})
	for _, r := range rows {
		cells := r.TableRow()
		cells[0] = r.Hash
		t.Row(cells...)
	}

	footer := fmt.Sprintf("page %d/%d, %d builds", page.Number, page.TotalPages, len(page.Filtered))
	return t.Render() + "\n" + theme.Subtle.Render(footer)
}
