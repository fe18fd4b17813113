package helpers

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// EncodeBSON serializes an ordered document to BSON bytes.
func EncodeBSON(doc bson.D) ([]byte, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error encoding BSON: %w", err)
	}
	return data, nil
}

// DecodeBSON reads BSON bytes back into an ordered document. Nested documents come back
// as bson.D and arrays as bson.A.
func DecodeBSON(data []byte) (bson.D, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding BSON: %w", err)
	}
	return doc, nil
}

// ToExtJSON renders a document as Extended JSON. Canonical mode keeps every BSON type
// distinguishable, relaxed mode prints numbers and dates the plain JSON way.
func ToExtJSON(doc bson.D, canonical bool) (string, error) {
	data, err := bson.MarshalExtJSON(doc, canonical, false)
	if err != nil {
		return "", fmt.Errorf("error encoding extended JSON: %w", err)
	}
	return string(data), nil
}

// FromExtJSON parses Extended JSON in either mode into an ordered document.
func FromExtJSON(data string) (bson.D, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(data), true, &doc); err != nil {
		return nil, fmt.Errorf("error decoding extended JSON: %w", err)
	}
	return doc, nil
}
