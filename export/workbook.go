// Package export renders a tournament view as an xlsx workbook.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/tournament-standings/models"
)

const (
	SheetStandings = "Standings"
	SheetBracket   = "Bracket"
	SheetGrid      = "Grid"
)

var (
	standingsHeader = []interface{}{"Rank", "Team", "Wins", "Losses", "Points Scored", "Points Against", "Point Differential", "Champion"}
	bracketHeader   = []interface{}{"Section", "Round", "Title", "Match", "Seed", "Team 1", "Score 1", "Team 2", "Score 2", "Status"}
)

// Workbook builds the standings workbook for view. The bracket and grid
// sheets are only present when the view has them.
func Workbook(view *models.TournamentView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetStandings); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{standingsHeader}
	for _, s := range view.Standings {
		champion := "no"
		if s.IsWinner {
			champion = "yes"
		}
		rows = append(rows, []interface{}{s.Rank, s.Team, s.Wins, s.Losses, s.PointsScored, s.PointsAgainst, s.PointDifferential, champion})
	}
	if err := writeRows(f, SheetStandings, rows); err != nil {
		return nil, err
	}

	if len(view.Bracket) > 0 {
		if err := writeBracket(f, view.Bracket); err != nil {
			return nil, err
		}
	}
	if view.Grid != nil {
		if err := writeGrid(f, view.Grid); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename is the download name for a tournament's workbook.
func Filename(t models.Tournament) string {
	return "standings-" + strconv.Itoa(int(t.TournamentID)) + ".xlsx"
}

func writeBracket(f *excelize.File, sections []models.BracketSection) error {
	if _, err := f.NewSheet(SheetBracket); err != nil {
		return fmt.Errorf("create bracket sheet: %w", err)
	}
	rows := [][]interface{}{bracketHeader}
	for _, section := range sections {
		for _, round := range section.Rounds {
			for _, seed := range round.Seeds {
				row := []interface{}{section.Name, round.DisplayRound, round.Title, seed.MatchID, seed.DisplaySeed}
				for i := 0; i < 2; i++ {
					if i < len(seed.Teams) {
						row = append(row, seed.Teams[i].Name, seed.Teams[i].Score)
					} else {
						row = append(row, "", "")
					}
				}
				rows = append(rows, append(row, string(seed.Status)))
			}
		}
	}
	return writeRows(f, SheetBracket, rows)
}

func writeGrid(f *excelize.File, grid *models.RoundRobinGrid) error {
	if _, err := f.NewSheet(SheetGrid); err != nil {
		return fmt.Errorf("create grid sheet: %w", err)
	}
	header := []interface{}{""}
	for _, name := range grid.Teams {
		header = append(header, name)
	}
	header = append(header, "Wins")

	rows := [][]interface{}{header}
	for i, name := range grid.Teams {
		row := []interface{}{name}
		for j := range grid.Teams {
			cell := string(grid.Results[i][j])
			if i == j {
				cell = "-"
			}
			row = append(row, cell)
		}
		rows = append(rows, append(row, grid.Wins[i]))
	}
	return writeRows(f, SheetGrid, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for idx := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &rows[idx]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, idx+1, err)
		}
	}
	return nil
}
