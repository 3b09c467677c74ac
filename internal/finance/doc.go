// Package finance derives dashboard aggregates from raw account, transaction,
// budget and goal records. Every function is pure: inputs are never modified
// and the current time is always passed in by the caller.
package finance
