package idgen

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerate_Format(t *testing.T) {
	// ID should match format "tk-xxxxxx" where xxxxxx is 6 hex characters
	pattern := regexp.MustCompile(`^tk-[0-9a-f]{6}$`)

	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate() returned error: %v", err)
	}

	if !pattern.MatchString(id) {
		t.Errorf("Generate() = %v, want format tk-[0-9a-f]{6}", id)
	}
}

func TestGenerate_Unique(t *testing.T) {
	ids := make(map[string]bool)
	count := 100

	for i := 0; i < count; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() returned error: %v", err)
		}
		if ids[id] {
			t.Errorf("Generate() returned duplicate ID: %v", id)
		}
		ids[id] = true
	}
}

func TestGenerateScheduleID_Format(t *testing.T) {
	id, err := GenerateScheduleID()
	if err != nil {
		t.Fatalf("GenerateScheduleID() returned error: %v", err)
	}

	if !strings.HasPrefix(id, "sc-") {
		t.Fatalf("GenerateScheduleID() = %v, want prefix sc-", id)
	}

	if _, err := uuid.Parse(strings.TrimPrefix(id, "sc-")); err != nil {
		t.Errorf("GenerateScheduleID() suffix is not a UUID: %v", err)
	}
}
