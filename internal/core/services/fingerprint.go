package services

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/issuesync/internal/core/domain"
)

// Fingerprint summarises an item's observable content: title, body, and
// comments in order. The result is stable across processes and machines.
// Fields are length-prefixed so that moving text between fields, or
// reordering comments, changes the fingerprint.
func Fingerprint(item domain.Item) int64 {
	d := xxhash.New()
	writeField(d, item.Title)
	writeField(d, item.Body)
	writeLength(d, len(item.SubItems))
	for _, s := range item.SubItems {
		writeField(d, s.Author)
		writeField(d, s.Content)
	}
	return int64(d.Sum64()) //nolint:gosec // stored as signed column, bits preserved
}

func writeField(d *xxhash.Digest, s string) {
	writeLength(d, len(s))
	_, _ = d.WriteString(s)
}

func writeLength(d *xxhash.Digest, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n)) //nolint:gosec // lengths are non-negative
	_, _ = d.Write(buf[:])
}
