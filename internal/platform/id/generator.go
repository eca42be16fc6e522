package id

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	return v.String(), nil
}

// RequestIDGenerator builds ingestion request ids shaped like
// ing_20260102_150405_1a2b3c4d.
type RequestIDGenerator struct {
	now func() time.Time
}

func NewRequestIDGenerator() *RequestIDGenerator {
	return &RequestIDGenerator{now: time.Now}
}

func (g *RequestIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate request id: %w", err)
	}

	suffix := strings.ReplaceAll(v.String(), "-", "")[:8]
	return "ing_" + g.now().UTC().Format("20060102_150405") + "_" + suffix, nil
}
