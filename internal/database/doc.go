// Package database provides the MongoDB connection layer for the bot.
//
// # Interface Design
//
// Mongo owns the client and database handle. Repositories receive a
// *Mongo and obtain their collection through Collection(name); they never
// touch the client directly.
//
// # Transaction Support
//
// WithTransaction runs a function inside a Mongo session transaction.
// The callback receives a session-scoped context; any repository call made
// with that context participates in the transaction. Multi-document
// transactions are optional: the validation core never requires them, and
// standalone Mongo deployments (no replica set) simply run the callback
// without one.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: document does not exist
//   - ErrDuplicate: unique index violation
//   - ErrConnection: connection or ping failures
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing document
//	}
package database
