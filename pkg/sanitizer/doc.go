// Package sanitizer normalizes free-text booking input before validation and
// storage.
//
// All functions are idempotent and never fail: bad input comes back empty
// rather than as an error, and validation decides what to do with it.
package sanitizer
