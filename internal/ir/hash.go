package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainObservation = "matchup/observation/v1"
	DomainRecord      = "matchup/record/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ObservationID computes the content-addressed ID of an observation within
// a group. The same group, seq and parameters always produce the same ID,
// which makes appends idempotent.
func ObservationID(groupID string, obs Observation) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"group_id":    groupID,
		"observation": obs.CanonicalMap(),
	})
	if err != nil {
		return "", fmt.Errorf("ObservationID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainObservation, canonical), nil
}

// RecordHash computes the content hash of a whole record.
// Two engines with equal record hashes have identical names and history.
func RecordHash(rec Record) (string, error) {
	canonical, err := MarshalCanonical(rec.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("RecordHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRecord, canonical), nil
}

// MustObservationID is like ObservationID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustObservationID(groupID string, obs Observation) string {
	id, err := ObservationID(groupID, obs)
	if err != nil {
		panic(err)
	}
	return id
}
