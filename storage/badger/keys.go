package badger

import "fmt"

// Key prefixes for different data types
const (
	chunkRecordPrefix  = "chkrec"
	manualRecordPrefix = "manrec"
	manualNamePrefix   = "manname"
	manualIDSeq        = "manrecseq"
)

// makeChunkRecordKey generates a key for a chunk record by ID.
func makeChunkRecordKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeManualRecordKey generates a key for a manual record by ID.
func makeManualRecordKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s:%d", manualRecordPrefix, id))
}

// makeManualNameKey generates a key for the product-name index.
// The name must already be normalized; lookups by differently cased
// spellings land on the same key on purpose.
func makeManualNameKey(normalizedName string) []byte {
	return []byte(manualNamePrefix + ":" + normalizedName)
}
