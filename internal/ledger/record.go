package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// GenesisHash is the well-known previous-hash of the first record. It is
// the trust anchor of the chain: every hash ultimately links back to it.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Record is a single immutable entry in the integrity ledger. Index is
// 0-based, strictly increasing, and gapless; Hash covers every other field.
type Record struct {
	Index     uint64          `json:"index"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
	PrevHash  string          `json:"prev_hash"`
	Hash      string          `json:"hash"`
}

// canonicalPayload re-encodes the payload so hashing is reproducible.
// encoding/json writes map keys in sorted order and struct fields in
// declaration order, so a marshal/unmarshal/marshal round trip yields the
// same bytes regardless of how the caller produced the input.
func canonicalPayload(payload any) (json.RawMessage, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	var generic any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		return nil, fmt.Errorf("normalizing payload: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("re-encoding payload: %w", err)
	}
	return canonical, nil
}

// hashRecord computes the SHA-256 digest over the record's fields in a
// fixed order. The timestamp is rendered as RFC3339Nano so the digest is
// identical after a JSON round trip through persistent storage.
func hashRecord(r *Record) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s",
		r.Index, r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.Payload, r.PrevHash,
	)
	return hex.EncodeToString(h.Sum(nil))
}
