package hashindex

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Type tags written in front of every encoded value
const (
	tagNull byte = iota
	tagString
	tagInteger
	tagDouble
	tagBoolean
	tagDateTime
	tagBinary
	tagDocument
	tagArray
	tagObjectID
)

// encodeFieldValue encodes a document value into a byte slice suited for index keys.
// Integers of every width encode alike so that int32(1) and int64(1) share a key.
func encodeFieldValue(value interface{}) ([]byte, string, error) {
	var buffer bytes.Buffer
	keyString, err := writeValue(&buffer, value)
	if err != nil {
		return nil, "", err
	}
	return buffer.Bytes(), keyString, nil
}

func writeValue(buffer *bytes.Buffer, value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		buffer.WriteByte(tagNull)
		return "NULL", nil

	case string:
		buffer.WriteByte(tagString)
		binary.Write(buffer, binary.LittleEndian, uint32(len(v)))
		buffer.WriteString(v)
		return v, nil

	case int32:
		return writeInteger(buffer, int64(v)), nil

	case int64:
		return writeInteger(buffer, v), nil

	case float64:
		buffer.WriteByte(tagDouble)
		if math.IsNaN(v) {
			v = math.NaN()
		}
		binary.Write(buffer, binary.LittleEndian, math.Float64bits(v))
		return fmt.Sprintf("%g", v), nil

	case bool:
		buffer.WriteByte(tagBoolean)
		if v {
			buffer.WriteByte(1)
		} else {
			buffer.WriteByte(0)
		}
		return fmt.Sprintf("%t", v), nil

	case primitive.DateTime:
		buffer.WriteByte(tagDateTime)
		binary.Write(buffer, binary.LittleEndian, int64(v))
		return v.Time().UTC().Format("2006-01-02T15:04:05.000Z"), nil

	case primitive.ObjectID:
		buffer.WriteByte(tagObjectID)
		buffer.Write(v[:])
		return v.Hex(), nil

	case primitive.Binary:
		buffer.WriteByte(tagBinary)
		buffer.WriteByte(v.Subtype)
		binary.Write(buffer, binary.LittleEndian, uint32(len(v.Data)))
		buffer.Write(v.Data)
		return fmt.Sprintf("BINARY[%d bytes]", len(v.Data)), nil

	case bson.D:
		buffer.WriteByte(tagDocument)
		binary.Write(buffer, binary.LittleEndian, uint32(len(v)))
		parts := make([]string, 0, len(v))
		for _, e := range v {
			binary.Write(buffer, binary.LittleEndian, uint32(len(e.Key)))
			buffer.WriteString(e.Key)
			s, err := writeValue(buffer, e.Value)
			if err != nil {
				return "", fmt.Errorf("%s: %w", e.Key, err)
			}
			parts = append(parts, e.Key+":"+s)
		}
		return "{" + strings.Join(parts, ",") + "}", nil

	case bson.A:
		buffer.WriteByte(tagArray)
		binary.Write(buffer, binary.LittleEndian, uint32(len(v)))
		parts := make([]string, 0, len(v))
		for i, item := range v {
			s, err := writeValue(buffer, item)
			if err != nil {
				return "", fmt.Errorf("element %d: %w", i, err)
			}
			parts = append(parts, s)
		}
		return "[" + strings.Join(parts, ",") + "]", nil

	default:
		return "", fmt.Errorf("cannot index value of type %T", value)
	}
}

func writeInteger(buffer *bytes.Buffer, v int64) string {
	buffer.WriteByte(tagInteger)
	binary.Write(buffer, binary.LittleEndian, v)
	return fmt.Sprintf("%d", v)
}
