// Package save serializes run snapshots into versioned envelopes and brings
// older envelopes forward through a one-directional migration chain. Every
// supported legacy version decodes into the current RunState; anything else
// is rejected rather than guessed at.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/autinyork/LowBorn/internal/engine"
)

// CurrentVersion is the envelope version this build writes.
const CurrentVersion = 6

// ErrUnknownFormat marks a payload no migration path recognizes. It is
// distinct from a validation failure on a current-version envelope.
var ErrUnknownFormat = errors.New("save: unrecognized save payload")

// Envelope wraps a run snapshot with its format version and save time.
type Envelope struct {
	Version   int              `json:"version"`
	SavedAt   string           `json:"savedAt"`
	GameState *engine.RunState `json:"gameState"`
}

// New wraps a snapshot in a current-version envelope.
func New(state *engine.RunState, now time.Time) Envelope {
	return Envelope{
		Version:   CurrentVersion,
		SavedAt:   now.UTC().Format(time.RFC3339),
		GameState: state,
	}
}

// Encode marshals a snapshot into a validated current-version envelope.
func Encode(state *engine.RunState, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(New(state, now))
	if err != nil {
		return nil, fmt.Errorf("save: marshal envelope: %w", err)
	}
	if err := validateCurrent(raw); err != nil {
		return nil, fmt.Errorf("save: envelope failed schema validation: %w", err)
	}
	return raw, nil
}

// Result is a decoded snapshot plus where it came from.
type Result struct {
	State       *engine.RunState
	FromVersion int
	Migrated    bool
}

// Decode reads any supported envelope version and returns the snapshot in
// current form. Legacy versions are migrated forward; the current version is
// schema-validated before use.
func Decode(raw []byte) (Result, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}

	switch probe.Version {
	case 6:
		if err := validateCurrent(raw); err != nil {
			return Result{}, fmt.Errorf("save: version 6 envelope failed schema validation: %w", err)
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
		}
		if env.GameState == nil {
			return Result{}, ErrUnknownFormat
		}
		return Result{State: finalize(env.GameState), FromVersion: 6}, nil

	case 5:
		// v5 is the current shape minus the week summary and the intense
		// streak counter; missing fields land on their zero values.
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.GameState == nil {
			return Result{}, ErrUnknownFormat
		}
		return Result{State: finalize(env.GameState), FromVersion: 5, Migrated: true}, nil

	case 4:
		var env envelopeV4
		if err := json.Unmarshal(raw, &env); err != nil {
			return Result{}, ErrUnknownFormat
		}
		return Result{State: migrateFromV4(env.GameState), FromVersion: 4, Migrated: true}, nil

	case 3:
		var env envelopeV3
		if err := json.Unmarshal(raw, &env); err != nil {
			return Result{}, ErrUnknownFormat
		}
		return Result{State: migrateFromV3(env.GameState), FromVersion: 3, Migrated: true}, nil

	case 2:
		var env envelopeV2
		if err := json.Unmarshal(raw, &env); err != nil {
			return Result{}, ErrUnknownFormat
		}
		return Result{State: migrateFromV2(env.GameState), FromVersion: 2, Migrated: true}, nil

	case 1:
		var env envelopeV1
		if err := json.Unmarshal(raw, &env); err != nil {
			return Result{}, ErrUnknownFormat
		}
		return Result{State: migrateFromV1(env.Snapshot), FromVersion: 1, Migrated: true}, nil
	}

	return Result{}, fmt.Errorf("%w: version %d", ErrUnknownFormat, probe.Version)
}
