// Package jobs implements background processors that run independently of
// the Discord gateway.
//
// Two processors run on tickers:
//
//   - ReminderDispatcher: delivers due reminders to their channels
//   - JobCleanup: closes stale postings and postings whose Discord role
//     was deleted
//
// Processors log errors and keep running; a failed pass is retried on the
// next tick.
package jobs
