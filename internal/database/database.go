package database

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/sijms/go-ora/v2"

	"complaints/internal/types"
)

// dsn builds a properly encoded connection string for Oracle
func dsn(username, password, host, port, service string, walletLocation string) string {
	if walletLocation != "" {
		// Use wallet-based mTLS connection
		return fmt.Sprintf(
			"oracle://%s:%s@%s:%s/%s?ssl=true&wallet_location=%s",
			url.PathEscape(username), url.PathEscape(password), host, port, service, url.PathEscape(walletLocation))
	}

	return (&url.URL{
		Scheme:   "oracle",
		User:     url.UserPassword(username, password), // escapes automatically
		Host:     host + ":" + port,
		Path:     "/" + service, // keep full service name
		RawQuery: "ssl=true",
	}).String()
}

// DBConfig holds database connection configuration
type DBConfig struct {
	Host           string
	Port           string
	Service        string
	Username       string
	Password       string
	WalletLocation string
	Table          string
}

var tableName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]{0,127}$`)

// LoadConfig reads KEY=VALUE lines from path. Unlike a .env loader it never
// touches the process environment.
func LoadConfig(path string) (DBConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return DBConfig{}, fmt.Errorf("%w: open database config: %w", types.ErrIO, err)
	}
	defer f.Close()

	return parseConfig(f)
}

func parseConfig(r io.Reader) (DBConfig, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if idx := strings.Index(line, "="); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			value := strings.TrimSpace(line[idx+1:])

			// Remove quotes if present
			if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"') {
				value = value[1 : len(value)-1]
			}
			values[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return DBConfig{}, fmt.Errorf("%w: read database config: %w", types.ErrIO, err)
	}

	get := func(key, defaultValue string) string {
		if v := values[key]; v != "" {
			return v
		}
		return defaultValue
	}

	cfg := DBConfig{
		Host:           get("DB_HOST", "localhost"),
		Port:           get("DB_PORT", "1521"),
		Service:        get("DB_SERVICE", "XE"),
		Username:       get("DB_USERNAME", ""),
		Password:       get("DB_PASSWORD", ""),
		WalletLocation: get("DB_WALLET_LOCATION", ""),
		Table:          strings.ToUpper(get("DB_TABLE", "COMPLAINT_COUNTS")),
	}
	if cfg.Username == "" {
		return DBConfig{}, fmt.Errorf("%w: database config: DB_USERNAME is required", types.ErrArgument)
	}
	if !tableName.MatchString(cfg.Table) {
		return DBConfig{}, fmt.Errorf("%w: database config: invalid DB_TABLE %q", types.ErrArgument, cfg.Table)
	}
	return cfg, nil
}

// Database holds the database connection and configuration
type Database struct {
	db     *sql.DB
	config DBConfig
}

// Open connects to Oracle and verifies the connection.
func Open(config DBConfig) (*Database, error) {
	connStr := dsn(config.Username, config.Password, config.Host, config.Port, config.Service, config.WalletLocation)

	db, err := sql.Open("oracle", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database connection: %w", types.ErrIO, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", types.ErrIO, err)
	}

	return New(db, config), nil
}

// New wraps an existing handle.
func New(db *sql.DB, config DBConfig) *Database {
	return &Database{db: db, config: config}
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// Run describes one invocation whose counts are being stored.
type Run struct {
	ID    uuid.UUID
	Start time.Time
	End   time.Time
}

// NewRun stamps a date range with a fresh run ID.
func NewRun(start, end time.Time) Run {
	return Run{ID: uuid.New(), Start: start, End: end}
}

func (d *Database) insertStatement() string {
	return fmt.Sprintf(`
		INSERT INTO %s (RUN_ID, START_DATE, END_DATE, COMPLAINT_TYPE, BOROUGH, CNT, CREATED_AT)
		VALUES (:1, :2, :3, :4, :5, :6, :7)`, d.config.Table)
}

// SaveCounts inserts all rows for run in a single transaction.
func (d *Database) SaveCounts(ctx context.Context, run Run, rows []types.CountRow) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", types.ErrIO, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, d.insertStatement())
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %w", types.ErrIO, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, run.ID.String(), run.Start, run.End, r.ComplaintType, r.Borough, r.Count, now); err != nil {
			return fmt.Errorf("%w: failed to insert %q/%q: %w", types.ErrIO, r.ComplaintType, r.Borough, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit counts: %w", types.ErrIO, err)
	}
	return nil
}
