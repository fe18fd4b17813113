package hashindex

import (
	"go.uber.org/zap"
)

// IndexKey is the entry a document contributes to one declared index.
type IndexKey struct {
	IndexName string
	IndexType string // "btree", "hash"
	IsUnique  bool
	Key       []byte // Encoded value of the indexed fields
	KeyString string // Human-readable form of Key, for debugging
	HashValue uint32 // Hash of Key, only set for hash indexes
}

// KeyService derives index keys from encoded documents, for a storage layer to maintain
// its indexes with.
type KeyService struct {
	logger *zap.SugaredLogger
}
