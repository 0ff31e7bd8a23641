package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errPrefixEmpty = "prefix cannot be empty"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedEnsureSchemaFmt         = "failed to ensure schema: %w"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"
	errFailedLockDocumentFmt      = "failed to lock document: %w"

	errFailedGetDocumentFmt          = "failed to get document: %w"
	errFailedWriteDocumentFmt        = "failed to write document: %w"
	errFailedDeleteDocumentFmt       = "failed to delete document: %w"
	errFailedDeleteDocumentPrefixFmt = "failed to delete documents by prefix: %w"
)

var (
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedDeleteDocument       = func(err error) error { return fmt.Errorf(errFailedDeleteDocumentFmt, err) }
	errFailedDeleteDocumentPrefix = func(err error) error { return fmt.Errorf(errFailedDeleteDocumentPrefixFmt, err) }
	errFailedEnsureSchema         = func(err error) error { return fmt.Errorf(errFailedEnsureSchemaFmt, err) }
	errFailedGetDocument          = func(err error) error { return fmt.Errorf(errFailedGetDocumentFmt, err) }
	errFailedLockDocument         = func(err error) error { return fmt.Errorf(errFailedLockDocumentFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedWriteDocument        = func(err error) error { return fmt.Errorf(errFailedWriteDocumentFmt, err) }
)
