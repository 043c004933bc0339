package advisory

import (
	"strconv"
	"strings"
	"time"

	"github.com/krishichetan/krishichetan-backend/pkg/enums"
)

// Record is one advisory issued to a farmer. ID is unique within the
// subject's sequence and immutable; Status starts pending and transitions
// at most once.
type Record struct {
	ID       string               `json:"id"`
	Subject  string               `json:"subject"`
	Kind     enums.AdvisoryKind   `json:"kind"`
	Message  string               `json:"message"`
	Language enums.Language       `json:"language"`
	IssuedAt time.Time            `json:"issued_at"`
	Status   enums.AdvisoryStatus `json:"status"`
}

// recordID composes a per-store monotonic counter with the subject, e.g.
// "42_9876543210". The counter makes ids unique even when many advisories
// land on the same subject in the same instant.
func recordID(seq uint64, subject string) string {
	return strconv.FormatUint(seq, 10) + "_" + subject
}

// sequenceOf extracts the counter prefix from a record id; zero when the
// id does not carry one.
func sequenceOf(id string) uint64 {
	prefix, _, ok := strings.Cut(id, "_")
	if !ok {
		return 0
	}
	seq, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0
	}
	return seq
}
