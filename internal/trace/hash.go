package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed hashes.
// The version suffix allows the algorithm to change later.
const (
	DomainStep  = "dynarray/step/v1"
	DomainTrace = "dynarray/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StepHash returns the content hash of a single step.
func StepHash(s Step) (string, error) {
	canonical, err := MarshalCanonical(s.Object())
	if err != nil {
		return "", fmt.Errorf("StepHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStep, canonical), nil
}

// TraceHash returns the content hash of a scenario's full trace.
// Two runs of a deterministic scenario produce the same hash.
func TraceHash(scenario string, steps []Step) (string, error) {
	canonical, err := MarshalCanonical(traceObject(scenario, steps))
	if err != nil {
		return "", fmt.Errorf("TraceHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}

// MustTraceHash is like TraceHash but panics on error.
// Use only in tests or when the steps are known to be valid.
func MustTraceHash(scenario string, steps []Step) string {
	h, err := TraceHash(scenario, steps)
	if err != nil {
		panic(err)
	}
	return h
}
