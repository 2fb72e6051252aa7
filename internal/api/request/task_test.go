package request

import (
	"strings"
	"testing"

	"github.com/taskstar/taskstar/internal/domain"
)

func TestCreateTaskRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateTaskRequest
		wantErrs int
	}{
		{"valid", CreateTaskRequest{Name: "Design", Duration: 3}, 0},
		{"blank name", CreateTaskRequest{Name: "  ", Duration: 3}, 1},
		{"zero duration", CreateTaskRequest{Name: "Design"}, 1},
		{"both invalid", CreateTaskRequest{Duration: -1}, 2},
		{"ascii name over limit", CreateTaskRequest{Name: strings.Repeat("a", domain.MaxNameLength+1), Duration: 1}, 1},
		{"multibyte name at limit", CreateTaskRequest{Name: strings.Repeat("ü", domain.MaxNameLength), Duration: 1}, 0},
		{"multibyte name over limit", CreateTaskRequest{Name: strings.Repeat("ü", domain.MaxNameLength+1), Duration: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Validate(); len(got) != tt.wantErrs {
				t.Errorf("Validate() = %v, want %d errors", got, tt.wantErrs)
			}
		})
	}
}

func TestUpdateTaskRequest_Validate(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }

	tests := []struct {
		name     string
		req      UpdateTaskRequest
		wantErrs int
	}{
		{"empty update", UpdateTaskRequest{}, 0},
		{"blank name", UpdateTaskRequest{Name: str("")}, 1},
		{"bad duration", UpdateTaskRequest{Duration: num(0)}, 1},
		{"cjk name at limit", UpdateTaskRequest{Name: str(strings.Repeat("工", domain.MaxNameLength))}, 0},
		{"cjk name over limit", UpdateTaskRequest{Name: str(strings.Repeat("工", domain.MaxNameLength+1))}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Validate(); len(got) != tt.wantErrs {
				t.Errorf("Validate() = %v, want %d errors", got, tt.wantErrs)
			}
		})
	}
}
