package request

import (
	"net/http"
	"time"

	"github.com/taskstar/taskstar/internal/domain"
)

// AuditQueryParams contains query parameters for audit log queries.
type AuditQueryParams struct {
	Action    *string
	AgentID   *string
	StartTime *time.Time
	EndTime   *time.Time
}

// ParseAuditQuery extracts audit query parameters from the request and
// reports any that are malformed.
func ParseAuditQuery(r *http.Request) (AuditQueryParams, []string) {
	params := AuditQueryParams{}
	var errors []string
	q := r.URL.Query()

	if action := q.Get("action"); action != "" {
		if !domain.AuditAction(action).IsValid() {
			errors = append(errors, "unknown action "+action)
		}
		params.Action = &action
	}

	if agentID := q.Get("agent"); agentID != "" {
		params.AgentID = &agentID
	}

	if startStr := q.Get("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			errors = append(errors, "start must be an RFC3339 timestamp")
		} else {
			params.StartTime = &t
		}
	}

	if endStr := q.Get("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			errors = append(errors, "end must be an RFC3339 timestamp")
		} else {
			params.EndTime = &t
		}
	}

	return params, errors
}
