// Package retry retries filesystem operations that fail because another
// process briefly holds the file.
//
// Virus scanners, indexers and backup agents commonly open a freshly written
// archive for a few hundred milliseconds, which makes the final rename fail
// with a sharing violation on Windows or EBUSY elsewhere. The Executor
// re-runs such operations with exponential backoff.
//
// # Example Usage
//
//	executor := retry.NewExecutor(retry.NewFileSystemErrorClassifier(), retry.NewRenameBackoff())
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return os.Rename(tmp, dest)
//	})
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. Use WithOnRetry() to create
// independent configurations per goroutine.
package retry
