// Package idgen produces short identifiers for new user records.
package idgen

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// suffixLen is the number of base-36 characters of entropy appended to the timestamp
const suffixLen = 6

// Func generates a new identifier
type Func func() string

// New returns the base-36 Unix millisecond time followed by six random
// base-36 characters. Collisions are possible and not checked.
func New() string {
	return newAt(time.Now())
}

func newAt(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + randomSuffix()
}

func randomSuffix() string {
	id := uuid.New()
	n := binary.BigEndian.Uint64(id[8:])
	s := strconv.FormatUint(n, 36)
	if len(s) < suffixLen {
		s = strings.Repeat("0", suffixLen-len(s)) + s
	}
	return s[len(s)-suffixLen:]
}
