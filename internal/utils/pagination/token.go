package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor identifies the last entry returned by a listing. Entries are ordered by
// (entry date, entry sequence) so the pair is a stable keyset.
type Cursor struct {
	EntryDate time.Time
	Sequence  int64
}

// EncodeToken creates a URL-safe token from an entry date and its ledger sequence number.
func EncodeToken(entryDate time.Time, sequence int64) string {
	tokenStr := fmt.Sprintf("%s|%d", entryDate.UTC().Format(timeFormat), sequence)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}
	return Cursor{EntryDate: entryDate, Sequence: seq}, nil
}

// After reports whether (date, seq) sorts strictly after the cursor.
func (c Cursor) After(date time.Time, seq int64) bool {
	if date.Equal(c.EntryDate) {
		return seq > c.Sequence
	}
	return date.After(c.EntryDate)
}
