package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/bryentd477/fpa-tracker/resolve"
	"github.com/bryentd477/fpa-tracker/types"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS fpas (
	id TEXT PRIMARY KEY,
	fpa_number TEXT NOT NULL,
	fpa_number_norm TEXT NOT NULL UNIQUE,
	landowner TEXT NOT NULL DEFAULT '',
	timber_sale_name TEXT NOT NULL DEFAULT '',
	landowner_type TEXT NOT NULL DEFAULT '',
	application_status TEXT NOT NULL DEFAULT '',
	decision_deadline TEXT NOT NULL DEFAULT '',
	expiration_date TEXT NOT NULL DEFAULT '',
	approved_activity TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLStore keeps records in SQLite. Duplicate FPA numbers are rejected by a
// unique index over the normalized identifier.
type SQLStore struct {
	db *sql.DB
}

// OpenSQL opens (and if needed initializes) a SQLite database at path. Use
// ":memory:" for an ephemeral store.
func OpenSQL(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

var recordColumns = []string{
	"id", "fpa_number", "landowner", "timber_sale_name", "landowner_type",
	"application_status", "decision_deadline", "expiration_date",
	"approved_activity", "notes",
}

func scanRecord(row interface{ Scan(...any) error }) (types.Record, error) {
	var r types.Record
	err := row.Scan(
		&r.ID, &r.FPANumber, &r.Landowner, &r.TimberSaleName,
		&r.LandownerType, &r.ApplicationStatus, &r.DecisionDeadline,
		&r.ExpirationDate, &r.ApprovedActivity, &r.Notes,
	)
	return r, err
}

func (s *SQLStore) List(ctx context.Context) ([]types.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM fpas ORDER BY created_at, fpa_number", strings.Join(recordColumns, ", "))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list fpas: %w", err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fpa: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Create(ctx context.Context, record types.Record) (types.Record, error) {
	record.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fpas (
			id, fpa_number, fpa_number_norm, landowner, timber_sale_name,
			landowner_type, application_status, decision_deadline,
			expiration_date, approved_activity, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.FPANumber, resolve.NormalizeID(record.FPANumber),
		record.Landowner, record.TimberSaleName, string(record.LandownerType),
		string(record.ApplicationStatus), record.DecisionDeadline,
		record.ExpirationDate, string(record.ApprovedActivity), record.Notes,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return types.Record{}, fmt.Errorf("%w: %s", ErrDuplicate, record.FPANumber)
		}
		return types.Record{}, fmt.Errorf("insert fpa: %w", err)
	}
	return record, nil
}

var fieldColumns = map[types.FieldName]string{
	types.FieldFPANumber:         "fpa_number",
	types.FieldLandowner:         "landowner",
	types.FieldTimberSaleName:    "timber_sale_name",
	types.FieldLandownerType:     "landowner_type",
	types.FieldApplicationStatus: "application_status",
	types.FieldDecisionDeadline:  "decision_deadline",
	types.FieldExpirationDate:    "expiration_date",
	types.FieldApprovedActivity:  "approved_activity",
	types.FieldNotes:             "notes",
}

func (s *SQLStore) Update(ctx context.Context, id string, fields map[types.FieldName]string) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for name, value := range fields {
		column, ok := fieldColumns[name]
		if !ok {
			return fmt.Errorf("unknown field %q", name)
		}
		sets = append(sets, column+" = ?")
		args = append(args, value)
		if name == types.FieldFPANumber {
			sets = append(sets, "fpa_number_norm = ?")
			args = append(args, resolve.NormalizeID(value))
		}
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE fpas SET %s WHERE id = ?", strings.Join(sets, ", ")), args...)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", ErrDuplicate, fields[types.FieldFPANumber])
		}
		return fmt.Errorf("update fpa: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fpas WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete fpa: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

var _ Store = (*SQLStore)(nil)
