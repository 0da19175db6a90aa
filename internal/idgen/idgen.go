// Package idgen produces correlation ids for ingested items. Ids are random,
// URL-safe and fixed-length, so concurrent ingestions never coordinate.
package idgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generator returns a new unique id on every call.
type Generator interface {
	NewID() (string, error)
}

// Generator kinds accepted by New.
const (
	KindNanoID = "nanoid"
	KindUUID   = "uuid"
)

// NanoIDLength is the length of ids produced by NanoID.
const NanoIDLength = 21

// NanoID generates 21-character ids over the URL-safe alphabet A-Za-z0-9_-.
type NanoID struct{}

func (NanoID) NewID() (string, error) {
	id, err := gonanoid.New(NanoIDLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return id, nil
}

// UUID generates random (version 4) UUIDs in canonical form.
type UUID struct{}

func (UUID) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String(), nil
}

// New returns the generator for kind; an empty kind selects NanoID.
func New(kind string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindNanoID:
		return NanoID{}, nil
	case KindUUID:
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unknown id generator %q", kind)
	}
}
