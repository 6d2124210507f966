// Package model holds the clinic's domain entities as they are persisted,
// plus the input types and validation rules applied before any mutation.
package model
