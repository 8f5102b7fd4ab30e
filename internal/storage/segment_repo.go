package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_segment_store.go -package=mocks chatpdf/internal/storage SegmentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// SegmentStore defines the interface for segment storage operations.
type SegmentStore interface {
	// InsertBatch inserts segments in one transaction. IDs must be set.
	InsertBatch(ctx context.Context, segments []*SegmentRecord) error
	// GetByID gets a segment with its document name. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*SegmentRecord, error)
	// ListAll returns every segment in insertion order.
	ListAll(ctx context.Context) ([]*SegmentRecord, error)
	// Count returns the number of stored segments.
	Count(ctx context.Context) (int, error)
	// DeleteAll removes every segment.
	DeleteAll(ctx context.Context) error
}

// SegmentRepo implements SegmentStore on SQLite.
type SegmentRepo struct {
	db *sql.DB
}

// NewSegmentRepo creates a new SegmentRepo.
func NewSegmentRepo(db *sql.DB) *SegmentRepo {
	return &SegmentRepo{db: db}
}

const selectSegment = `SELECT s.id, s.document_id, d.name, s.page, s.chunk_index, s.seq,
	s.start_offset, s.end_offset, s.overlap, s.text
	FROM segments s JOIN documents d ON d.id = s.document_id`

func (r *SegmentRepo) InsertBatch(ctx context.Context, segments []*SegmentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO segments (id, document_id, page, chunk_index, seq, start_offset, end_offset, overlap, text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare segment insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, s := range segments {
		if _, err := stmt.ExecContext(ctx,
			s.ID, s.DocumentID, s.Page, s.ChunkIndex, s.Seq, s.Start, s.End, s.Overlap, s.Text,
		); err != nil {
			return fmt.Errorf("failed to insert segment %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit segments: %w", err)
	}
	return nil
}

func (r *SegmentRepo) GetByID(ctx context.Context, id string) (*SegmentRecord, error) {
	row := r.db.QueryRowContext(ctx, selectSegment+" WHERE s.id = ?", id)
	seg, err := scanSegment(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query segment: %w", err)
	}
	return seg, nil
}

func (r *SegmentRepo) ListAll(ctx context.Context) ([]*SegmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectSegment+" ORDER BY s.seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var segments []*SegmentRecord
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return segments, nil
}

func (r *SegmentRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM segments").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count segments: %w", err)
	}
	return n, nil
}

func (r *SegmentRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM segments"); err != nil {
		return fmt.Errorf("failed to delete segments: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSegment(row scanner) (*SegmentRecord, error) {
	var s SegmentRecord
	err := row.Scan(&s.ID, &s.DocumentID, &s.Source, &s.Page, &s.ChunkIndex, &s.Seq,
		&s.Start, &s.End, &s.Overlap, &s.Text)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
