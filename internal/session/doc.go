// Package session holds the single-session mutable state written by the
// pipeline and read by the presentation layer, plus the credential
// extraction helpers for the implicit-grant redirect fragment.
//
// The store guards each refreshed field with a monotonically increasing
// generation counter: a refresh obtains a generation when it starts and the
// store discards completions whose generation is older than the one already
// applied, so an overlapping stale refresh can never clobber a newer
// result.
package session
