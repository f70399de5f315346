package feed

import (
	"os"
	"path/filepath"
	"strings"

	"wave-scanner/internal/errors"
	"wave-scanner/internal/models"
)

// LoadFile reads a series from a .csv file or a TradingView .json/.txt
// export. Malformed rows are removed first and counted in dropped; the rest
// come back sorted by date with duplicate dates collapsed.
func LoadFile(path string) (candles []models.Candle, dropped int, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, 0, errors.Wrapf(openErr, "opening %s", path)
		}
		defer f.Close()
		candles, err = ReadCSV(f)
	case ".json", ".txt":
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, 0, errors.Wrapf(readErr, "reading %s", path)
		}
		candles, err = ParseTradingView(data)
	default:
		return nil, 0, errors.Wrapf(errors.ErrUnsupportedFormat, "file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, 0, err
	}

	candles, dropped = DropMalformed(candles)
	return SortAndDedupe(candles), dropped, nil
}

// SymbolFromPath derives a symbol from a file name such as "Stock_Data/NABIL.csv".
func SymbolFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}
