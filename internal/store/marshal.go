package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/matchup/internal/ir"
)

// marshalNames converts a participant list to JSON TEXT. Names are stored
// exactly as supplied; canonical JSON would rewrite them to NFC.
func marshalNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("marshal names: %w", err)
	}
	return string(data), nil
}

// unmarshalNames parses a participant list stored by marshalNames.
func unmarshalNames(data string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal names: %w", err)
	}
	return names, nil
}

// marshalObservation converts an observation to JSON TEXT, keeping the
// caller's spelling of every name. Only the row ID is derived from the
// canonical form.
func marshalObservation(obs ir.Observation) (string, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return "", fmt.Errorf("marshal observation: %w", err)
	}
	return string(data), nil
}

// unmarshalObservation parses a payload stored by marshalObservation.
func unmarshalObservation(data string) (ir.Observation, error) {
	var obs ir.Observation
	if err := json.Unmarshal([]byte(data), &obs); err != nil {
		return ir.Observation{}, fmt.Errorf("unmarshal observation: %w", err)
	}
	if !obs.Kind.Valid() {
		return ir.Observation{}, fmt.Errorf("unmarshal observation: unknown kind %q", obs.Kind)
	}
	return obs, nil
}
