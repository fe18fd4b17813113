package helpers

import (
	"github.com/google/uuid"
)

// GenerateUUID returns a random UUID in its canonical string form.
func GenerateUUID() string {
	return uuid.New().String()
}
