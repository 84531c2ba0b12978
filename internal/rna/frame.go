package rna

import (
	"encoding/json"
	"fmt"
)

// Frame is a point-in-time view of an environment for renderers: the
// population with every strand's traits and presentation state, the
// statistics and the parameters in effect.
type Frame struct {
	EnvironmentID EnvironmentID `json:"environment_id"`
	Tick          int64         `json:"tick"`
	Params        Params        `json:"params"`
	Stats         Stats         `json:"stats"`
	Strands       []Strand      `json:"strands"`
}

// ValidateFrame performs validation checks on a frame.
// It verifies that:
//   - All strand IDs are non-zero and unique
//   - All sequences are non-empty and built from the alphabet
//   - GC fractions are within [0, 1]
func ValidateFrame(frame Frame) error {
	seenIDs := make(map[StrandID]struct{}, len(frame.Strands))

	for i, s := range frame.Strands {
		if s.ID == 0 {
			return fmt.Errorf("strand at index %d has empty ID", i)
		}
		if _, exists := seenIDs[s.ID]; exists {
			return fmt.Errorf("duplicate strand ID: %d", s.ID)
		}
		seenIDs[s.ID] = struct{}{}

		if s.Sequence == "" {
			return fmt.Errorf("strand %d has empty sequence", s.ID)
		}
		for j := 0; j < len(s.Sequence); j++ {
			if !IsNucleotide(s.Sequence[j]) {
				return fmt.Errorf("strand %d has invalid nucleotide '%c' at index %d", s.ID, s.Sequence[j], j)
			}
		}
		if s.GC < 0 || s.GC > 1 {
			return fmt.Errorf("strand %d has GC fraction %g outside [0, 1]", s.ID, s.GC)
		}
	}

	return nil
}

// EncodeFrameJSON encodes a frame to JSON format.
func EncodeFrameJSON(frame Frame) ([]byte, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return data, nil
}

// DecodeFrameJSON decodes a frame from JSON format.
func DecodeFrameJSON(data []byte) (Frame, error) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return Frame{}, fmt.Errorf("failed to decode frame: %w", err)
	}
	return frame, nil
}
