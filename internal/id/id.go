// Package id generates short, URL-safe identifiers for dataset snapshots.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SnapshotPrefix tags identifiers of loaded datasets.
const SnapshotPrefix = "ds"

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	size     = 12
)

// Generate returns prefix-xxxxxxxxxxxx using a lowercase alphanumeric NanoID.
// The lowercase alphabet keeps ids safe inside cache keys and file names.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if the system runs out of entropy.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Snapshot returns a fresh dataset snapshot id.
func Snapshot() string {
	return MustGenerate(SnapshotPrefix)
}
