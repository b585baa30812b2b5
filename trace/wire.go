package trace

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Wire encoding
// ---------------------------------------------------------------------------
// Snapshots are encoded as canonical CBOR so that identical stack content
// always produces identical bytes. The archive keys snapshots by the hash
// of this encoding.

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// wireSnapshot is the serialized form of a Snapshot.
type wireSnapshot struct {
	Frames []Frame `json:"frames"`
}

// MarshalSnapshot serializes a Snapshot to canonical CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(wireSnapshot{Frames: s.frames})
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var w wireSnapshot
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("trace: unmarshal snapshot: %w", err)
	}
	return newSnapshot(w.Frames), nil
}

// MarshalJSON implements json.Marshaler for the HTTP surface.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSnapshot{Frames: s.frames})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("trace: unmarshal snapshot: %w", err)
	}
	s.frames = w.Frames
	return nil
}
