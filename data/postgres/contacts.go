package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vortex-fintech/contactnorm/contact"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Query names the table and columns holding contact rows. Table may be
// schema-qualified ("crm.contacts").
type Query struct {
	Table         string `env:"TABLE" envDefault:"contacts"`
	NameColumn    string `env:"NAME_COLUMN" envDefault:"name"`
	ContactColumn string `env:"CONTACT_COLUMN" envDefault:"contact"`
	OrderBy       string `env:"ORDER_BY" envDefault:"id"`
}

var errEmptyIdentifier = errors.New("postgres: empty identifier")

// SQL renders the SELECT with every identifier quoted.
func (q Query) SQL() (string, error) {
	for _, id := range []string{q.Table, q.NameColumn, q.ContactColumn, q.OrderBy} {
		if strings.TrimSpace(id) == "" {
			return "", errEmptyIdentifier
		}
	}
	return fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s",
		pgx.Identifier{q.NameColumn}.Sanitize(),
		pgx.Identifier{q.ContactColumn}.Sanitize(),
		pgx.Identifier(strings.Split(q.Table, ".")).Sanitize(),
		pgx.Identifier{q.OrderBy}.Sanitize(),
	), nil
}

// ContactSource loads contact records; a NULL contact becomes an absent one.
type ContactSource struct {
	db Querier
	q  Query
}

func NewContactSource(db Querier, q Query) *ContactSource {
	return &ContactSource{db: db, q: q}
}

func (s *ContactSource) Name() string { return "postgres" }

func (s *ContactSource) Load(ctx context.Context) ([]contact.Record, error) {
	query, err := s.q.SQL()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: query contacts: %w", err)
	}
	defer rows.Close()

	var out []contact.Record
	for rows.Next() {
		var name, c sql.NullString
		if err := rows.Scan(&name, &c); err != nil {
			return nil, fmt.Errorf("postgres: scan contact row %d: %w", len(out), err)
		}
		r := contact.Record{Name: name.String}
		if c.Valid {
			r.Contact = contact.Text(c.String)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read contacts: %w", err)
	}
	return out, nil
}
