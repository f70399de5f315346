package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"wave-scanner/internal/errors"
	"wave-scanner/internal/models"
	"wave-scanner/pkg/retry"
)

// SQLiteStore implements CandleStore using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	syncTimes map[string]time.Time
	retry     retry.Config
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, fmt.Sprintf("failed to open database: %v", err))
	}

	// Batch scans read several symbols at once
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:        db,
		syncTimes: make(map[string]time.Time),
		retry:     writeRetry(),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Daily OHLCV bars per symbol
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, timeframe, timestamp)
	);

	-- Last import / scan times
	CREATE TABLE IF NOT EXISTS sync_status (
		data_type TEXT PRIMARY KEY,
		last_sync DATETIME NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_candles_symbol_timeframe ON candles(symbol, timeframe);
	CREATE INDEX IF NOT EXISTS idx_candles_timestamp ON candles(timestamp);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrapf(errors.ErrDatabaseError, "schema: %v", err)
	}
	return nil
}

// writeRetry retries writes that lost the lock to a concurrent writer
// after the driver's busy timeout expired.
func writeRetry() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.Retryable = isBusy
	return cfg
}

func isBusy(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveCandles upserts candles for symbol; a bar with an existing date replaces it.
func (s *SQLiteStore) SaveCandles(ctx context.Context, symbol string, timeframe models.Timeframe, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return errors.NewValidationError("symbol", symbol, "must not be empty")
	}

	return retry.Do(ctx, s.retry, func() error {
		return s.saveCandles(ctx, symbol, timeframe, candles)
	})
}

func (s *SQLiteStore) saveCandles(ctx context.Context, symbol string, timeframe models.Timeframe, candles []models.Candle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		_, err := stmt.ExecContext(ctx, symbol, string(timeframe), c.Timestamp.UTC(), c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCandles returns candles in [from, to] in date order.
func (s *SQLiteStore) GetCandles(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) ([]models.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND timeframe = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, NormalizeSymbol(symbol), string(timeframe), from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

// GetSeries returns every stored daily bar for symbol.
func (s *SQLiteStore) GetSeries(ctx context.Context, symbol string) (models.Series, error) {
	symbol = NormalizeSymbol(symbol)
	series := models.Series{Symbol: symbol, Timeframe: models.TimeframeDaily}

	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND timeframe = ?
		ORDER BY timestamp ASC
	`, symbol, string(models.TimeframeDaily))
	if err != nil {
		return series, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	candles, err := scanCandles(rows)
	if err != nil {
		return series, err
	}
	if len(candles) == 0 {
		return series, errors.NewDataError("series", symbol, "no stored bars", errors.ErrSymbolNotFound)
	}
	series.Candles = candles
	return series, nil
}

func scanCandles(rows *sql.Rows) ([]models.Candle, error) {
	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candles: %w", err)
	}
	return candles, nil
}

// GetCandlesFreshness returns the date of the newest stored bar.
func (s *SQLiteStore) GetCandlesFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error) {
	var latest sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp) FROM candles WHERE symbol = ? AND timeframe = ?
	`, NormalizeSymbol(symbol), string(timeframe)).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get freshness: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}
	return parseStoredTime(latest.String)
}

// ListSymbols summarizes every stored symbol, sorted by name.
func (s *SQLiteStore) ListSymbols(ctx context.Context) ([]models.SymbolSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, COUNT(*), MIN(timestamp), MAX(timestamp)
		FROM candles
		WHERE timeframe = ?
		GROUP BY symbol
		ORDER BY symbol ASC
	`, string(models.TimeframeDaily))
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	defer rows.Close()

	var out []models.SymbolSummary
	for rows.Next() {
		var sum models.SymbolSummary
		var first, last string
		if err := rows.Scan(&sum.Symbol, &sum.Bars, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan symbol summary: %w", err)
		}
		if sum.FirstDate, err = parseStoredTime(first); err != nil {
			return nil, err
		}
		if sum.LastDate, err = parseStoredTime(last); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}

	return out, rows.Err()
}

// DeleteSymbol removes all bars for symbol and returns how many were deleted.
func (s *SQLiteStore) DeleteSymbol(ctx context.Context, symbol string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candles WHERE symbol = ?`, NormalizeSymbol(symbol))
	if err != nil {
		return 0, fmt.Errorf("failed to delete symbol: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.NewDataError("series", NormalizeSymbol(symbol), "nothing to delete", errors.ErrSymbolNotFound)
	}
	return n, nil
}

// Aggregates come back as text rather than DATETIME.
var storedTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseStoredTime(v string) (time.Time, error) {
	for _, layout := range storedTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Wrapf(errors.ErrDatabaseError, "unparseable timestamp %q", v)
}

// GetLastSync returns the last recorded time for key, or zero.
func (s *SQLiteStore) GetLastSync(key string) time.Time {
	s.mu.RLock()
	if t, ok := s.syncTimes[key]; ok {
		s.mu.RUnlock()
		return t
	}
	s.mu.RUnlock()

	var lastSync time.Time
	err := s.db.QueryRow(`
		SELECT last_sync FROM sync_status WHERE data_type = ?
	`, key).Scan(&lastSync)
	if err != nil {
		return time.Time{}
	}

	s.mu.Lock()
	s.syncTimes[key] = lastSync
	s.mu.Unlock()

	return lastSync
}

// SetLastSync records t for key.
func (s *SQLiteStore) SetLastSync(key string, t time.Time) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO sync_status (data_type, last_sync, updated_at)
		VALUES (?, ?, ?)
	`, key, t.UTC(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to set last sync: %w", err)
	}

	s.mu.Lock()
	s.syncTimes[key] = t
	s.mu.Unlock()

	return nil
}

var _ CandleStore = (*SQLiteStore)(nil)
