// Package study walks a user through the curriculum in fixed-size blocks.
//
// The per-user cursor is the single source of progression truth: it names
// the next chunk to deliver and only moves forward. Case-study lectures
// are never scheduled; they remain available to retrieval only. Completion
// is a terminal, re-entrant state cleared only by an explicit restart.
package study
