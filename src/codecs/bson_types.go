package codecs

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	objectIDType = reflect.TypeOf(primitive.ObjectID{})
)

// BsonTypeOf returns the BSON type a document value is stored as.
// Values outside the BSON value model report type 0.
func BsonTypeOf(v interface{}) bsontype.Type {
	switch v.(type) {
	case nil:
		return bsontype.Null
	case string:
		return bsontype.String
	case bool:
		return bsontype.Boolean
	case int32:
		return bsontype.Int32
	case int64, int:
		return bsontype.Int64
	case float64:
		return bsontype.Double
	case primitive.ObjectID:
		return bsontype.ObjectID
	case primitive.Binary, []byte:
		return bsontype.Binary
	case primitive.DateTime:
		return bsontype.DateTime
	case primitive.Decimal128:
		return bsontype.Decimal128
	case primitive.Timestamp:
		return bsontype.Timestamp
	case primitive.Regex:
		return bsontype.Regex
	case bson.D, bson.M:
		return bsontype.EmbeddedDocument
	case bson.A, []interface{}:
		return bsontype.Array
	default:
		return bsontype.Type(0)
	}
}

// asDocument returns v as an ordered document when it is one.
func asDocument(v interface{}) (bson.D, bool) {
	switch doc := v.(type) {
	case bson.D:
		return doc, true
	case bson.M:
		out := make(bson.D, 0, len(doc))
		for k, val := range doc {
			out = append(out, bson.E{Key: k, Value: val})
		}
		return out, true
	default:
		return nil, false
	}
}

// asArray returns v as a plain slice when it is a BSON array.
func asArray(v interface{}) ([]interface{}, bool) {
	switch arr := v.(type) {
	case bson.A:
		return arr, true
	case []interface{}:
		return arr, true
	default:
		return nil, false
	}
}
