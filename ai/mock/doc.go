// Package mock provides deterministic test doubles for the ai interfaces.
// The embedder hashes text into stable unit vectors so similarity scores
// are reproducible without a running model server.
package mock
