package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tradingjournal/internal/domain"
	"tradingjournal/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.Ledger interface using SQLite.
//
// Rows are stored exactly as the external sheet schema defines them: every
// cell is TEXT, including the numeric columns, so that partially-filled or
// legacy rows survive the round trip and coercion stays the engine's job.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite ledger.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite ledger instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite ledger")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/journal.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite ledger initialization failed")
		return nil, err
	}

	// Open database connection
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite ledger initialization failed")
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite ledger initialization failed")
		return nil, err
	}

	// Single-journal-owner assumption; the driver still benefits from a capped pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite ledger connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize ledger schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite ledger initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates the trades table if it doesn't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL DEFAULT '',
		pair TEXT NOT NULL DEFAULT '',
		direction TEXT NOT NULL DEFAULT '',
		entry_price TEXT NOT NULL DEFAULT '',
		stop_loss TEXT NOT NULL DEFAULT '',
		take_profit TEXT NOT NULL DEFAULT '',
		position_size TEXT NOT NULL DEFAULT '',
		leverage TEXT NOT NULL DEFAULT '',
		setup_quality TEXT NOT NULL DEFAULT '',
		emotion_pre_trade TEXT NOT NULL DEFAULT '',
		lesson_learned TEXT NOT NULL DEFAULT '',
		exit_price TEXT NOT NULL DEFAULT '',
		pnl TEXT NOT NULL DEFAULT '',
		pnl_percent TEXT NOT NULL DEFAULT '',
		risk_reward_ratio TEXT NOT NULL DEFAULT '',
		emotion_post_trade TEXT NOT NULL DEFAULT '',
		strategy TEXT NOT NULL DEFAULT '',
		timeframe TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_trades_pair ON trades (pair);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite ledger connection")
		return r.db.Close()
	}
	return nil
}

// ReadAll retrieves every raw row in ledger (insertion) order.
func (r *Repository) ReadAll(ctx context.Context) ([]domain.Row, error) {
	const query = `
	SELECT timestamp, pair, direction, entry_price, stop_loss, take_profit,
	       position_size, leverage, setup_quality, emotion_pre_trade,
	       lesson_learned, exit_price, pnl, pnl_percent, risk_reward_ratio,
	       emotion_post_trade, strategy, timeframe, tags
	FROM trades
	ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query trades: %v", ports.ErrLedgerUnavailable, err)
	}
	defer rows.Close()

	out := make([]domain.Row, 0)
	for rows.Next() {
		cells := make([]string, len(domain.Columns))
		dest := make([]interface{}, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: failed to scan trade row: %v", ports.ErrLedgerUnavailable, err)
		}
		row := make(domain.Row, len(domain.Columns))
		for i, col := range domain.Columns {
			row[col] = cells[i]
		}
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating trade rows: %v", ports.ErrLedgerUnavailable, err)
	}
	return out, nil
}

// Append adds one row at the end of the ledger.
func (r *Repository) Append(ctx context.Context, row domain.Row) error {
	const query = `
	INSERT INTO trades (timestamp, pair, direction, entry_price, stop_loss,
	                    take_profit, position_size, leverage, setup_quality,
	                    emotion_pre_trade, lesson_learned, exit_price, pnl,
	                    pnl_percent, risk_reward_ratio, emotion_post_trade,
	                    strategy, timeframe, tags)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := make([]interface{}, 0, len(domain.Columns))
	for _, col := range domain.Columns {
		args = append(args, row[col])
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert trade for pair %s: %w", row[domain.ColPair], err)
	}
	r.logger.Debug(ctx, "Trade row appended", map[string]interface{}{"pair": row[domain.ColPair]})
	return nil
}
