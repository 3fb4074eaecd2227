package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	docSetPrefix    = "docset"
	indexMetaKey    = "idxmeta"
	indexEntryPfx   = "idxdoc"
	indexEntryWidth = 8
)

// makeDocSetKey generates a key for a cached document set by cache key.
func makeDocSetKey(cacheKey string) []byte {
	return []byte(fmt.Sprintf("%s:%s", docSetPrefix, cacheKey))
}

// makeIndexEntryKey generates a key for the nth index entry.
// The sequence number is BigEndian so lexicographic iteration preserves
// insertion order.
func makeIndexEntryKey(seq uint64) []byte {
	prefix := indexEntryPfx + ":"
	buf := make([]byte, len(prefix)+indexEntryWidth)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
