package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBSONRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	doc := bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Ada"},
		{Key: "age", Value: int64(36)},
		{Key: "score", Value: 1.5},
		{Key: "tags", Value: bson.A{"a", "b"}},
		{Key: "home", Value: bson.D{{Key: "city", Value: "Springfield"}}},
		{Key: "nothing", Value: nil},
	}

	data, err := EncodeBSON(doc)
	require.NoError(t, err)

	out, err := DecodeBSON(data)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestDecodeBSONRejectsGarbage(t *testing.T) {
	_, err := DecodeBSON([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestExtJSON(t *testing.T) {
	doc := bson.D{{Key: "x", Value: 3.0}, {Key: "n", Value: int32(4)}}

	relaxed, err := ToExtJSON(doc, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 3.0, "n": 4}`, relaxed)

	canonical, err := ToExtJSON(doc, true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": {"$numberDouble": "3.0"}, "n": {"$numberInt": "4"}}`, canonical)

	back, err := FromExtJSON(canonical)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestGenerateUUID(t *testing.T) {
	a := GenerateUUID()
	b := GenerateUUID()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
