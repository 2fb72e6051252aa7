package middleware

import (
	"context"
	"net/http"
	"strings"
)

type agentKey struct{}

const (
	// AgentHeader carries the identity recorded in the audit log.
	AgentHeader = "X-Taskstar-Agent"
	// DefaultAgentID is recorded when a request has no agent header.
	DefaultAgentID = "anonymous"
	// maxAgentLength bounds what is stored in changed_by.
	maxAgentLength = 256
)

// AgentID records the request's agent identity in its context.
func AgentID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent := strings.TrimSpace(r.Header.Get(AgentHeader))
		switch {
		case agent == "":
			agent = DefaultAgentID
		case len(agent) > maxAgentLength:
			agent = agent[:maxAgentLength]
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), agentKey{}, agent)))
	})
}

// Agent returns the agent identity of the request.
func Agent(ctx context.Context) string {
	if agent, ok := ctx.Value(agentKey{}).(string); ok {
		return agent
	}
	return DefaultAgentID
}
