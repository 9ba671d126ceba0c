package ir

// Version constants for the persisted record format and engine.
const (
	// FormatVersion is the persisted record format version.
	FormatVersion = 1

	// EngineVersion is the matchup engine version.
	EngineVersion = "0.1.0"
)
