package badger

import (
	"fmt"

	"github.com/poiesic/symptomap/core"
)

// Key prefixes for different data types
const (
	vocabEntryPrefix = "vocent"
	vocabKeyPrefix   = "vockey"
	manifestKeyName  = "vocmanifest"
)

// makeVocabEntryKey generates a key for a vocabulary entry by ID.
func makeVocabEntryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vocabEntryPrefix, id))
}

// makeVocabKeyKey generates an index key for entry lookup by vocabulary key.
// Format: prefix:key
func makeVocabKeyKey(key string) []byte {
	return []byte(vocabKeyPrefix + ":" + key)
}

// makeManifestKey generates the key of the singleton index manifest.
func makeManifestKey() []byte {
	return []byte(manifestKeyName)
}
