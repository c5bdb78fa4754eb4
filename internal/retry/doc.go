// Package retry provides retry logic with exponential backoff for transient
// database connection failures.
//
// Only connection establishment is retried. Statements issued by the
// migration run (schema creation, upserts) are executed exactly once.
//
// # Example Usage
//
//	classifier := retry.NewDatabaseErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
// # Error Classification
//
// DatabaseErrorClassifier recognizes transient failures reported by the
// PostgreSQL (pgconn), MySQL (go-sql-driver) and SQLite (modernc) drivers as
// well as network-level errors.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. WithOnRetry returns an
// independent copy.
package retry
