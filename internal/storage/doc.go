// Package storage defines the persistence interfaces for campaign state.
//
// It provides a high-level abstraction for storing campaign snapshots,
// the finalized scene log, the roll audit log, and operational telemetry.
// Implementations of these interfaces live in subpackages.
//
// # Error Types
//
//   - ErrNotFound: Indicates a requested record is missing.
package storage
