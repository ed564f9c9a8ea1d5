package budget

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads description,amount rows. A first row whose amount column
// is the literal "amount" is treated as a header. Extra columns are ignored
// and short or malformed lines are returned as rows with empty fields so
// Import can skip them without dropping the rest of the file.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []Row
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			// Malformed line: keep its slot so Import reports it as skipped.
			first = false
			rows = append(rows, Row{})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read statement: %w", err)
		}
		if first {
			first = false
			if len(rec) >= 2 && strings.EqualFold(strings.TrimSpace(rec[1]), "amount") {
				continue
			}
		}

		var row Row
		if len(rec) > 0 {
			row.Description = rec[0]
		}
		if len(rec) > 1 {
			row.Amount = rec[1]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
