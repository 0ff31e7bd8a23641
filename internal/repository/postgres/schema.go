package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tenant_documents (
	key        TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return errFailedEnsureSchema(err)
	}
	return nil
}
