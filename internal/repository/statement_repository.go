package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/zackdotcomputer/capital-gains/internal/apperrors"
	"github.com/zackdotcomputer/capital-gains/internal/model"
)

// StatementRepository provides data access methods for the statement table.
// Parsed statements are cached as opaque blobs, encrypted at rest; only the
// summary columns are queryable. The service never reads its own prior
// output incrementally - blobs are decoded whole.
type StatementRepository struct {
	db  *sql.DB
	key *fernet.Key
}

// NewStatementRepository creates a new StatementRepository with the provided
// database connection and blob encryption key.
func NewStatementRepository(db *sql.DB, key *fernet.Key) *StatementRepository {
	return &StatementRepository{db: db, key: key}
}

// Insert stores a parsed statement under the record's ID.
func (s *StatementRepository) Insert(ctx context.Context, record *model.StatementRecord) error {
	payload, err := json.Marshal(record.Statement)
	if err != nil {
		return fmt.Errorf("failed to encode statement payload: %w", err)
	}

	sealed, err := fernet.EncryptAndSign(payload, s.key)
	if err != nil {
		return fmt.Errorf("failed to seal statement payload: %w", err)
	}

	query := `
		INSERT INTO statement (id, label, currency, as_of, transaction_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.Label,
		record.Statement.Account.Currency,
		record.Statement.Account.AsOf.Format(time.RFC3339),
		len(record.Statement.Account.Transactions),
		sealed,
		record.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert statement: %w", err)
	}

	return nil
}

// Get retrieves one cached statement by ID, unsealing and decoding its
// payload. Returns apperrors.ErrStatementNotFound when the ID is unknown.
func (s *StatementRepository) Get(ctx context.Context, id string) (*model.StatementRecord, error) {
	query := `
		SELECT id, label, payload, created_at
		FROM statement
		WHERE id = ?
	`

	var record model.StatementRecord
	var label sql.NullString
	var sealed []byte
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(&record.ID, &label, &sealed, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrStatementNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query statement table: %w", err)
	}
	record.Label = label.String

	record.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil || record.CreatedAt.IsZero() {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}

	// TTL 0: stored blobs never expire on read; retention is enforced by the
	// scheduled purge instead.
	payload := fernet.VerifyAndDecrypt(sealed, 0, []*fernet.Key{s.key})
	if payload == nil {
		return nil, fmt.Errorf("failed to unseal statement %s payload", id)
	}

	if err := json.Unmarshal(payload, &record.Statement); err != nil {
		return nil, fmt.Errorf("failed to decode statement %s payload: %w", id, err)
	}

	return &record, nil
}

// List retrieves summaries of every cached statement, newest first. The
// encrypted payload is not read.
func (s *StatementRepository) List(ctx context.Context) ([]model.StatementSummary, error) {
	query := `
		SELECT id, label, currency, as_of, transaction_count, created_at
		FROM statement
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement table: %w", err)
	}
	defer rows.Close()

	summaries := []model.StatementSummary{}

	for rows.Next() {
		var summary model.StatementSummary
		var label sql.NullString
		var asOfStr, createdAtStr string

		err := rows.Scan(
			&summary.ID,
			&label,
			&summary.Currency,
			&asOfStr,
			&summary.TransactionCount,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement table results: %w", err)
		}
		summary.Label = label.String

		asOf, err := ParseTime(asOfStr)
		if err != nil || asOf.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		summary.AsOf = model.NewMillis(asOf)

		summary.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil || summary.CreatedAt.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement table: %w", err)
	}

	return summaries, nil
}

// Delete removes one cached statement. Returns
// apperrors.ErrStatementNotFound when the ID is unknown.
func (s *StatementRepository) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM statement WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete statement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrStatementNotFound
	}

	return nil
}

// DeleteOlderThan removes statements cached before the cutoff and returns
// how many were removed. Used by the scheduled retention purge.
func (s *StatementRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM statement WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge statements: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read purge result: %w", err)
	}
	return affected, nil
}
