package postgres

import (
	"context"
	"errors"
	"fmt"

	"booth-service/internal/repository"

	"github.com/jackc/pgx/v5"
)

var _ repository.DocumentStore = (*DocumentRepository)(nil)

// DocumentRepository stores tenant documents as JSONB rows keyed by
// "<owner>/<event>/<collection>".
type DocumentRepository struct {
	db *DB
}

func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT body FROM tenant_documents WHERE key = $1`

	var body []byte
	err := r.db.Pool.QueryRow(ctx, query, key).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errFailedGetDocument(err)
	}
	return body, nil
}

// Update holds a transaction scoped advisory lock on the key so that
// concurrent writers, including the first writer of a new key, are
// serialized.
func (r *DocumentRepository) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return errFailedLockDocument(err)
	}

	var current []byte
	err = tx.QueryRow(ctx, `SELECT body FROM tenant_documents WHERE key = $1 FOR UPDATE`, key).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return errFailedGetDocument(err)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	upsert := `
		INSERT INTO tenant_documents (key, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`
	if _, err := tx.Exec(ctx, upsert, key, next); err != nil {
		return errFailedWriteDocument(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errFailedCommitTransaction(err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM tenant_documents WHERE key = $1`, key); err != nil {
		return errFailedDeleteDocument(err)
	}
	return nil
}

func (r *DocumentRepository) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	if prefix == "" {
		return 0, fmt.Errorf(errPrefixEmpty)
	}

	query := `DELETE FROM tenant_documents WHERE key LIKE $1 ESCAPE '\'`
	result, err := r.db.Pool.Exec(ctx, query, escapeLikePattern(prefix)+"%")
	if err != nil {
		return 0, errFailedDeleteDocumentPrefix(err)
	}
	return result.RowsAffected(), nil
}
