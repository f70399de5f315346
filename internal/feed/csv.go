package feed

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"wave-scanner/internal/errors"
	"wave-scanner/internal/models"
)

// csvRow mirrors the Date,Open,High,Low,Close,Volume layout of saved stock files.
type csvRow struct {
	Date   string  `csv:"Date"`
	Open   float64 `csv:"Open"`
	High   float64 `csv:"High"`
	Low    float64 `csv:"Low"`
	Close  float64 `csv:"Close"`
	Volume string  `csv:"Volume"`
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// parseDate returns the zero time for unparseable input so the row is
// dropped as malformed rather than failing the whole file.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// parseVolume defaults a blank or absent volume to 1. Text that is not a
// number yields -1 so the row is dropped as malformed.
func parseVolume(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return -1
	}
	return int64(v)
}

// ReadCSV parses a CSV series. Rows come back in file order.
func ReadCSV(r io.Reader) ([]models.Candle, error) {
	var rows []*csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(err, "parsing csv")
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		candles = append(candles, models.Candle{
			Timestamp: parseDate(row.Date),
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    parseVolume(row.Volume),
		})
	}
	return candles, nil
}

// WriteCSV writes candles in the same layout ReadCSV accepts.
func WriteCSV(w io.Writer, candles []models.Candle) error {
	rows := make([]*csvRow, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, &csvRow{
			Date:   c.Timestamp.Format("2006-01-02"),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: strconv.FormatInt(c.Volume, 10),
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "writing csv")
	}
	return nil
}
