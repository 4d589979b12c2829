// Package channel implements the directory of money services (banks, mobile
// money, airtime) that users filter by country.
package channel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/storage"
)

// Schema is the SQLite schema for the channel directory.
const Schema = `
CREATE TABLE IF NOT EXISTS channels (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    name           TEXT NOT NULL,
    country_alpha2 TEXT NOT NULL,
    hni            TEXT NOT NULL DEFAULT '',
    kind           TEXT NOT NULL DEFAULT 'bank',
    created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(name, country_alpha2)
);

CREATE INDEX IF NOT EXISTS idx_channels_country ON channels(country_alpha2);
`

// Kinds of channel.
const (
	KindBank        = "bank"
	KindMobileMoney = "mobile_money"
	KindTelecom     = "telecom"
)

var (
	ErrNotFound  = errors.New("channel not found")
	ErrDuplicate = errors.New("channel already exists")
	// ErrInvalid wraps every error returned by Channel.Validate.
	ErrInvalid = errors.New("invalid channel")
)

// Channel is one service available in a single country.
type Channel struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	CountryAlpha2 country.Code `json:"country_alpha2"`
	HNI           string       `json:"hni,omitempty"`
	Kind          string       `json:"kind"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Validate checks the fields a caller supplies.
func (c Channel) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !c.CountryAlpha2.Valid() {
		return fmt.Errorf("%w %q: %w: %q", ErrInvalid, c.Name, country.ErrInvalidCode, c.CountryAlpha2)
	}
	switch c.Kind {
	case "", KindBank, KindMobileMoney, KindTelecom:
	default:
		return fmt.Errorf("%w %q: unknown kind %q", ErrInvalid, c.Name, c.Kind)
	}
	return nil
}

// Store provides persistence for channels using the common storage layer.
type Store struct {
	db *storage.DB
}

// NewStore creates a store on db and makes sure the schema exists.
func NewStore(ctx context.Context, db *storage.DB) (*Store, error) {
	if err := db.Migrate(ctx, Schema); err != nil {
		return nil, fmt.Errorf("channel schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Add inserts c and returns its ID.
func (s *Store) Add(ctx context.Context, c Channel) (int, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.CountryAlpha2 = country.Normalize(string(c.CountryAlpha2))
	if c.Kind == "" {
		c.Kind = KindBank
	}
	if err := c.Validate(); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO channels (name, country_alpha2, hni, kind) VALUES (?, ?, ?, ?)`,
		c.Name, string(c.CountryAlpha2), c.HNI, c.Kind)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, fmt.Errorf("add channel %q in %s: %w", c.Name, c.CountryAlpha2, ErrDuplicate)
		}
		return 0, fmt.Errorf("add channel: %w", err)
	}
	id, _ := res.LastInsertId()
	return int(id), nil
}

// AddAll inserts channels in one transaction, skipping ones that exist.
// It returns how many rows were new.
func (s *Store) AddAll(ctx context.Context, channels []Channel) (int, error) {
	added := 0
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO channels (name, country_alpha2, hni, kind) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range channels {
			c.Name = strings.TrimSpace(c.Name)
			c.CountryAlpha2 = country.Normalize(string(c.CountryAlpha2))
			if c.Kind == "" {
				c.Kind = KindBank
			}
			if err := c.Validate(); err != nil {
				return err
			}
			res, err := stmt.ExecContext(ctx, c.Name, string(c.CountryAlpha2), c.HNI, c.Kind)
			if err != nil {
				return fmt.Errorf("insert channel %q: %w", c.Name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// Get returns the channel with id.
func (s *Store) Get(ctx context.Context, id int) (*Channel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, country_alpha2, hni, kind, created_at FROM channels WHERE id = ?`, id)
	c, err := scanChannel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get channel %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

// List returns the channels that pass a filter set to selected, ordered by
// country then name. country.All (or "") lists every channel.
func (s *Store) List(ctx context.Context, selected country.Code) ([]Channel, error) {
	query := `SELECT id, name, country_alpha2, hni, kind, created_at FROM channels`
	var args []any
	// Only the all-countries filter matches the empty code.
	if !country.Matches(selected, "") {
		query += ` WHERE country_alpha2 = ?`
		args = append(args, string(selected))
	}
	query += ` ORDER BY country_alpha2, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var result []Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

// Countries returns the distinct countries that have at least one channel,
// in alphabetical order.
func (s *Store) Countries(ctx context.Context) ([]country.Code, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT country_alpha2 FROM channels ORDER BY country_alpha2`)
	if err != nil {
		return nil, fmt.Errorf("list channel countries: %w", err)
	}
	defer rows.Close()

	var result []country.Code
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		result = append(result, country.Code(code))
	}
	return result, rows.Err()
}

// Delete removes the channel with id.
func (s *Store) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM channels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete channel %d: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChannel(row scanner) (*Channel, error) {
	var (
		c    Channel
		code string
	)
	if err := row.Scan(&c.ID, &c.Name, &code, &c.HNI, &c.Kind, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.CountryAlpha2 = country.Code(code)
	return &c, nil
}
