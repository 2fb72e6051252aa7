package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

const (
	// TaskPrefix is the prefix for task IDs.
	TaskPrefix = "tk"
	// SchedulePrefix is the prefix for schedule run IDs.
	SchedulePrefix = "sc"
	// IDLength is the number of hex characters after the task prefix.
	IDLength = 6
)

// Generate creates a new task ID in the format "tk-xxxxxx".
func Generate() (string, error) {
	bytes := make([]byte, IDLength/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return fmt.Sprintf("%s-%s", TaskPrefix, hex.EncodeToString(bytes)), nil
}

// GenerateScheduleID creates a schedule run ID in the format "sc-<uuid>".
func GenerateScheduleID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate schedule ID: %w", err)
	}
	return fmt.Sprintf("%s-%s", SchedulePrefix, id.String()), nil
}
