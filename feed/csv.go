package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// CSVFeed replays close prices from a CSV file with a header row. Rows with
// an empty price cell are skipped.
type CSVFeed struct {
	f       *os.File
	r       *csv.Reader
	col     int
	prev    float64
	hasPrev bool
}

// OpenCSV opens path and locates column (empty means "Close"). The header
// row is consumed immediately so the first Next yields the first data row.
func OpenCSV(path, column string) (*CSVFeed, error) {
	if column == "" {
		column = "Close"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("feed: read csv header: %w", err)
	}

	col := -1
	for i, name := range header {
		if name == column {
			col = i
			break
		}
	}
	if col == -1 {
		f.Close()
		return nil, fmt.Errorf("feed: column %q not found in %s", column, path)
	}

	return &CSVFeed{f: f, r: r, col: col}, nil
}

func (c *CSVFeed) Next() (Tick, bool, error) {
	for {
		row, err := c.r.Read()
		if err == io.EOF {
			return Tick{}, false, nil
		}
		if err != nil {
			return Tick{}, false, err
		}
		if c.col >= len(row) || row[c.col] == "" {
			continue
		}

		price, err := strconv.ParseFloat(row[c.col], 64)
		if err != nil {
			return Tick{}, false, fmt.Errorf("feed: parse price %q: %w", row[c.col], err)
		}

		t := Tick{Price: price, Prev: c.prev, HasPrev: c.hasPrev}
		c.prev, c.hasPrev = price, true
		return t, true, nil
	}
}

func (c *CSVFeed) Close() error {
	return c.f.Close()
}

// LoadCSVPrices drains the named column into a slice, for callers that want
// the whole series up front.
func LoadCSVPrices(path, column string) ([]float64, error) {
	f, err := OpenCSV(path, column)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []float64
	for {
		t, ok, err := f.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, t.Price)
	}
}
