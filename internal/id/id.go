// Package id generates identifiers: opaque random ids for sessions and
// tokens, and the max+1 integer ids used by the persisted collections.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed NanoID, e.g. "sess-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if the system has no entropy.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Next returns one more than the largest id in items, or 1 when items is
// empty. Ids of deleted records are never reused unless they were the maximum.
func Next[T any](items []T, idOf func(T) int) int {
	highest := 0
	for _, item := range items {
		highest = max(highest, idOf(item))
	}
	return highest + 1
}
