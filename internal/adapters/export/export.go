// Package export renders skill standings and award results as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/okian/squadup/internal/domain/model"
	"github.com/okian/squadup/internal/domain/skill"
	"github.com/okian/squadup/internal/domain/types"
)

// Sheet names.
const (
	ProfilesSheet = "Profiles"
	AwardsSheet   = "Awards"
)

// Report is the workbook content. The Awards sheet is written only when
// IncludeAwards is set.
type Report struct {
	Profiles      []types.ProfileEntry
	Awards        []model.AwardResult
	IncludeAwards bool
	// Names resolves award winner ids to display names.
	Names map[uuid.UUID]string
}

// Write encodes r as an XLSX workbook to w.
func Write(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ProfilesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeProfiles(f, r.Profiles); err != nil {
		return err
	}
	if r.IncludeAwards {
		if _, err := f.NewSheet(AwardsSheet); err != nil {
			return fmt.Errorf("create awards sheet: %w", err)
		}
		if err := writeAwards(f, r.Awards, r.Names); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeProfiles(f *excelize.File, entries []types.ProfileEntry) error {
	header := []any{"Rank", "Player ID", "Name"}
	for _, a := range skill.All {
		header = append(header, a.Label())
	}
	header = append(header, "Strength", "Votes", "Updated")
	if err := setRow(f, ProfilesSheet, 1, header); err != nil {
		return err
	}

	for i, e := range entries {
		row := []any{e.Rank, e.PlayerID.String(), e.Name}
		for _, a := range skill.All {
			row = append(row, e.Attrs[a.String()])
		}
		row = append(row, e.Strength, e.Votes, e.UpdatedAt)
		if err := setRow(f, ProfilesSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeAwards(f *excelize.File, results []model.AwardResult, names map[uuid.UUID]string) error {
	header := []any{"Category", "Winner ID", "Winner", "Votes", "Runner-up ID", "Runner-up", "Runner-up votes"}
	if err := setRow(f, AwardsSheet, 1, header); err != nil {
		return err
	}
	for i, r := range results {
		row := []any{r.CategoryID, r.WinnerID.String(), names[r.WinnerID], r.WinnerVotes, "", "", ""}
		if r.RunnerUpID != nil {
			row[4], row[5] = r.RunnerUpID.String(), names[*r.RunnerUpID]
		}
		if r.RunnerUpVotes != nil {
			row[6] = *r.RunnerUpVotes
		}
		if err := setRow(f, AwardsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, n int, cells []any) error {
	axis, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, n, err)
	}
	return nil
}
