// Package report renders scaler output as styled terminal tables or plain
// aligned text.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Labrandor/DynamicDifficultyScaler/internal/sim"
	"github.com/Labrandor/DynamicDifficultyScaler/internal/storage"
	"github.com/Labrandor/DynamicDifficultyScaler/pkg/dds"
)

// Table is a titled grid of already formatted cells.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Renderer writes tables to an output.
type Renderer struct {
	w      io.Writer
	styled bool
}

// New returns a renderer. Styled output uses borders and colors and should
// only be enabled for terminals.
func New(w io.Writer, styled bool) *Renderer {
	return &Renderer{w: w, styled: styled}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	boxStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// Render writes t. A table with no rows prints its title and a note.
func (r *Renderer) Render(t Table) error {
	if r.styled {
		return r.renderStyled(t)
	}
	return r.renderPlain(t)
}

func (r *Renderer) renderPlain(t Table) error {
	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(t.Title)
		sb.WriteString("\n\n")
	}
	if len(t.Rows) == 0 {
		sb.WriteString("  (none)\n")
		_, err := io.WriteString(r.w, sb.String())
		return err
	}

	widths := columnWidths(t)
	writeRow := func(cells []string) {
		sb.WriteString(" ")
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(" ")
			sb.WriteString(cell)
			if i < len(widths)-1 {
				sb.WriteString(strings.Repeat(" ", w-runewidth.StringWidth(cell)+1))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(t.Columns)
	rule := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		rule[i] = strings.Repeat("-", runewidth.StringWidth(c))
	}
	writeRow(rule)
	for _, row := range t.Rows {
		writeRow(row)
	}

	_, err := io.WriteString(r.w, sb.String())
	return err
}

func (r *Renderer) renderStyled(t Table) error {
	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(titleStyle.Render(t.Title))
		sb.WriteString("\n")
	}
	if len(t.Rows) == 0 {
		sb.WriteString(emptyStyle.Render("  (none)"))
		sb.WriteString("\n")
		_, err := io.WriteString(r.w, sb.String())
		return err
	}

	widths := columnWidths(t)
	columns := make([]table.Column, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = table.Column{Title: c, Width: widths[i]}
	}
	rows := make([]table.Row, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = table.Row(row)
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2), // Header line plus its bottom border
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// No cursor in a static report
	s.Selected = lipgloss.NewStyle()
	tbl.SetStyles(s)

	sb.WriteString(boxStyle.Render(tbl.View()))
	sb.WriteString("\n")
	_, err := io.WriteString(r.w, sb.String())
	return err
}

func columnWidths(t Table) []int {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// Num formats a reward quantity. Infinite caps print as "none".
func Num(v float64) string {
	switch {
	case math.IsInf(v, 0):
		return "none"
	case math.IsNaN(v):
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// StepsTable lists the steps of a replay.
func StepsTable(title string, steps []sim.Step) Table {
	t := Table{
		Title:   title,
		Columns: []string{"#", "Event", "Tick", "Elapsed", "Left", "Points", "Base", "Scaled", "Factor", "Capped"},
	}
	for _, st := range steps {
		row := []string{
			strconv.Itoa(st.Index),
			string(st.Kind),
			strconv.FormatUint(st.Tick, 10),
			Num(st.Elapsed),
			Num(st.MinutesLeft),
			"", "", "", "", "",
		}
		switch {
		case st.Err != "":
			row[1] = fmt.Sprintf("%s (skipped: %s)", st.Kind, st.Err)
		case st.Result != nil:
			scaled := st.Result.ScaledMilestoneValue
			if st.Kind == sim.KindBonus {
				scaled = st.Result.ScaledTimeReward
			}
			row[5] = Num(st.Points)
			row[6] = Num(st.Base)
			row[7] = Num(scaled)
			row[8] = strconv.FormatFloat(st.Result.Factor, 'f', 3, 64)
			row[9] = string(st.Result.CappedBy)
		case st.Kind == sim.KindTime || st.Kind == sim.KindRemaining:
			row[1] = fmt.Sprintf("%s=%s", st.Kind, Num(st.Raw))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// GameStateTable shows pacing telemetry as key/value rows.
func GameStateTable(title string, gs dds.GameState) Table {
	return Table{
		Title:   title,
		Columns: []string{"Field", "Value"},
		Rows: [][]string{
			{"points", Num(gs.Points)},
			{"expected points", Num(gs.ExpectedPoints)},
			{"deviation", Num(gs.Deviation)},
			{"pace ratio", Num(gs.PaceRatio)},
			{"scale factor", strconv.FormatFloat(gs.Factor, 'f', 3, 64)},
			{"points remaining", Num(gs.PointsRemaining)},
			{"elapsed (min)", Num(gs.ElapsedMinutes)},
			{"minutes left", Num(gs.MinutesLeft)},
			{"time reward cap", Num(gs.TimeCap)},
			{"target win time", Num(gs.TargetWinTime)},
			{"tick", strconv.FormatUint(gs.Tick, 10)},
		},
	}
}

// CurvesTable lists registered pacing curves.
func CurvesTable(curves []dds.CurveInfo) Table {
	t := Table{Title: "Pacing curves", Columns: []string{"Name", "Description"}}
	for _, c := range curves {
		t.Rows = append(t.Rows, []string{c.Name, c.Description})
	}
	return t
}

// SessionsTable lists saved sessions.
func SessionsTable(records []storage.SessionRecord) Table {
	t := Table{
		Title:   "Saved sessions",
		Columns: []string{"ID", "Script", "Points", "Elapsed", "Tick", "Updated"},
	}
	for _, rec := range records {
		elapsed := rec.State.TimeUnit.Minutes(rec.State.Accumulator.VisibleElapsed)
		updated := ""
		if !rec.UpdatedAt.IsZero() {
			updated = rec.UpdatedAt.Format("2006-01-02 15:04")
		}
		t.Rows = append(t.Rows, []string{
			rec.ID,
			rec.Script,
			Num(rec.Points),
			Num(elapsed),
			strconv.FormatUint(rec.State.Tick, 10),
			updated,
		})
	}
	return t
}

// HistoryTable lists the reward log of one session.
func HistoryTable(sessionID string, entries []storage.RewardEntry) Table {
	t := Table{
		Title:   "Rewards - " + sessionID,
		Columns: []string{"Step", "Kind", "Points", "Elapsed", "Left", "Base", "Scaled", "Factor", "Capped"},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(e.Step),
			e.Kind,
			Num(e.Points),
			Num(e.Elapsed),
			Num(e.MinutesLeft),
			Num(e.Base),
			Num(e.Scaled),
			strconv.FormatFloat(e.Factor, 'f', 3, 64),
			e.CappedBy,
		})
	}
	return t
}
