// Package timeouts provides the timeout values handlers use with
// context.WithTimeout for database and broker round trips. Centralizing
// them keeps the budgets consistent across features.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or guarded single-document writes
//   - Medium: multi-step operations (read club + load member summaries)
//   - Long: cleanup passes touching many documents
package timeouts

import "time"

const (
	// Ping is the budget for health checks.
	Ping = 2 * time.Second

	// Short is the budget for single-document operations.
	Short = 5 * time.Second

	// Medium is the budget for multi-step reads and writes.
	Medium = 10 * time.Second

	// Long is the budget for cleanup passes.
	Long = 30 * time.Second
)
