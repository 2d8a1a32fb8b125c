package csvledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tradingjournal/internal/domain"
	"tradingjournal/internal/ports"
)

// Ledger implements the ports.Ledger interface over a single CSV file, the
// closest local stand-in for the journal's original spreadsheet store. The
// first record is the canonical header; every later record is one trade.
type Ledger struct {
	path   string
	logger ports.Logger
	mu     sync.Mutex
}

// Config holds configuration for the CSV ledger.
type Config struct {
	Path   string
	Logger ports.Logger
}

// New creates a CSV ledger. The file is created lazily on the first append;
// a missing file reads as an empty journal, not a failure.
func New(cfg Config) (*Ledger, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for CSV ledger")
	}
	path := cfg.Path
	if path == "" {
		path = "./data/journal.csv"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(path), err)
	}
	return &Ledger{path: path, logger: cfg.Logger}, nil
}

// ReadAll retrieves every raw row in file order.
func (l *Ledger) ReadAll(ctx context.Context) ([]domain.Row, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Row{}, nil
		}
		return nil, fmt.Errorf("%w: failed to open %s: %v", ports.ErrLedgerUnavailable, l.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate short legacy rows
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ports.ErrLedgerUnavailable, l.path, err)
	}
	if len(records) == 0 {
		return []domain.Row{}, nil
	}

	header := records[0]
	rows := make([]domain.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(domain.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds one row at the end of the file, writing the header first when
// the file is new.
func (l *Ledger) Append(ctx context.Context, row domain.Row) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, statErr := os.Stat(l.path)
	fresh := os.IsNotExist(statErr)

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", l.path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if fresh {
		if err := writer.Write(domain.Columns); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", l.path, err)
		}
	}

	record := make([]string, len(domain.Columns))
	for i, col := range domain.Columns {
		record[i] = row[col]
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("failed to write trade row to %s: %w", l.path, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush trade row to %s: %w", l.path, err)
	}

	l.logger.Debug(ctx, "Trade row appended", map[string]interface{}{"pair": row[domain.ColPair], "path": l.path})
	return nil
}
