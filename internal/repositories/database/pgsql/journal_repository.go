package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxJournalRepository struct {
	db DBTX
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, posted_at, posted_by, description, source_kind, source_id, created_at`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var postedBy sql.NullString
	var sourceKind, sourceID sql.NullString
	err := row.Scan(
		&e.EntryID,
		&e.PostedAt,
		&postedBy,
		&e.Description,
		&sourceKind,
		&sourceID,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if postedBy.Valid {
		e.PostedBy = &postedBy.String
	}
	if sourceKind.Valid && sourceID.Valid {
		e.Source = &domain.SourceRef{Kind: domain.SourceKind(sourceKind.String), ID: sourceID.String}
	}
	return &e, nil
}

func (r *PgxJournalRepository) insertLines(ctx context.Context, lines []domain.JournalLine) error {
	query := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, debit, credit)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range lines {
		if _, err := r.db.Exec(ctx, query, line.LineID, line.EntryID, line.AccountID, line.Debit, line.Credit); err != nil {
			return fmt.Errorf("failed to insert journal line %s: %w", line.LineID, err)
		}
	}
	return nil
}

func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	query := `
		INSERT INTO journal_entries (entry_id, posted_at, posted_by, description, source_kind, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	var sourceKind, sourceID *string
	if entry.Source != nil {
		kind := string(entry.Source.Kind)
		sourceKind = &kind
		sourceID = &entry.Source.ID
	}

	_, err := r.db.Exec(ctx, query,
		entry.EntryID,
		entry.PostedAt,
		entry.PostedBy,
		entry.Description,
		sourceKind,
		sourceID,
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, entry.EntryID)
		}
		return fmt.Errorf("failed to save journal entry %s: %w", entry.EntryID, err)
	}

	return r.insertLines(ctx, lines)
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit, credit
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.db.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PgxJournalRepository) ReplaceEntryLines(ctx context.Context, entryID string, lines []domain.JournalLine) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM journal_entries WHERE entry_id = $1);`, entryID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check journal entry %s: %w", entryID, err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines for entry %s: %w", entryID, err)
	}
	return r.insertLines(ctx, lines)
}

func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	// Lines go with it via ON DELETE CASCADE.
	tag, err := r.db.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxJournalRepository) CountEntriesBySource(ctx context.Context, source domain.SourceRef) (int, error) {
	query := `SELECT COUNT(*) FROM journal_entries WHERE source_kind = $1 AND source_id = $2;`
	var count int
	if err := r.db.QueryRow(ctx, query, string(source.Kind), source.ID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries for source %s/%s: %w", source.Kind, source.ID, err)
	}
	return count, nil
}

func (r *PgxJournalRepository) FindEntryBySource(ctx context.Context, source domain.SourceRef) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE source_kind = $1 AND source_id = $2
		ORDER BY created_at
		LIMIT 1;
	`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, string(source.Kind), source.ID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find entry for source %s/%s: %w", source.Kind, source.ID, err)
	}
	return entry, nil
}

func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		ORDER BY posted_at DESC, created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
