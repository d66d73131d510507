package service

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/phrazzld/phrasebook/internal/domain"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"text", "meaning", "example", "personalNote", "status", "createdAt"}

func writeCSV(w io.Writer, phrases []*domain.Phrase) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range phrases {
		record := []string{
			p.Text,
			p.Meaning,
			p.Example,
			p.PersonalNote,
			p.Status.String(),
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
