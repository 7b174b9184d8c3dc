package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/slitsim/internal/diffraction"
)

// WriteProfileCSV writes a position,intensity table with a header row.
// Positions are metres.
func WriteProfileCSV(w io.Writer, pr diffraction.Profile) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"position", "intensity"}); err != nil {
		return err
	}
	for _, s := range pr.Samples {
		row := []string{
			strconv.FormatFloat(s.Position, 'g', -1, 64),
			strconv.FormatFloat(s.Intensity, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
