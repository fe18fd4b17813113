package hashindex

import (
	"bytes"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"docmapper/src/models"
)

func NewKeyService(logger *zap.SugaredLogger) *KeyService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &KeyService{logger: logger}
}

// BuildKeys returns one key per index, in the order the indexes are given. Fields missing
// from the document index as null.
func (s *KeyService) BuildKeys(doc bson.D, indexes []models.IndexReference) ([]IndexKey, error) {
	values := make(map[string]interface{}, len(doc))
	for _, e := range doc {
		values[e.Key] = e.Value
	}

	keys := make([]IndexKey, 0, len(indexes))
	for _, idx := range indexes {
		var (
			buffer bytes.Buffer
			parts  []string
		)
		for _, name := range idx.Fields {
			encoded, keyString, err := encodeFieldValue(values[name])
			if err != nil {
				return nil, fmt.Errorf("index %s, field %q: %w", idx.IndexName, name, err)
			}
			buffer.Write(encoded)
			parts = append(parts, keyString)
		}

		key := IndexKey{
			IndexName: idx.IndexName,
			IndexType: idx.IndexType,
			IsUnique:  idx.IsUnique,
			Key:       buffer.Bytes(),
			KeyString: strings.Join(parts, "|"),
		}
		if idx.IndexType == models.IndexTypeHash {
			key.HashValue = hashKey(key.Key)
		}

		s.logger.Debugf("Index key for %s: %s", key.IndexName, key.KeyString)
		keys = append(keys, key)
	}
	return keys, nil
}
