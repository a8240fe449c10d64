// Package sanitizer normalizes free-form request input before it is
// validated and stored.
//
// Every function is idempotent. Invalid input is never an error here; it
// is trimmed or emptied and left for the validator to reject.
package sanitizer
