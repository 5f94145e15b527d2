package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/shiftlog/internal/timesheet"
)

func ToCSV(rows []timesheet.Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{"#", "Date", "Weekday", "Shift", "Start", "End", "Break (min)", "Hours", "Type", "Project", "Location", "Note", "Tags"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Seq),
			r.Date,
			r.Weekday,
			strconv.Itoa(r.DaySeq),
			r.Start,
			r.End,
			strconv.Itoa(r.BreakMinutes),
			strconv.FormatFloat(r.Hours, 'f', 2, 64),
			r.Type,
			r.Project,
			r.Location,
			r.Note,
			r.Tags,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}
