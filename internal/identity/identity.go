// Package identity derives the agent ID the CLI sends with every request.
// The server records it as the author of audit entries and schedule runs.
package identity

import (
	"fmt"
	"os"
	"os/user"
)

// EnvAgent overrides the derived identity when set.
const EnvAgent = "TASKSTAR_AGENT"

const (
	// FallbackUser is used when the user cannot be determined
	FallbackUser = "unknown"
	// FallbackHostname is used when the hostname cannot be determined
	FallbackHostname = "localhost"
	// FallbackCwd is used when the current working directory cannot be determined
	FallbackCwd = "."
)

// Generate returns the agent identity, user@hostname:cwd unless
// TASKSTAR_AGENT is set.
//
// Examples:
//   - alice@macbook:/Users/alice/projects/release-plan
//   - ci@runner-3:/builds/app
func Generate() string {
	if agent := os.Getenv(EnvAgent); agent != "" {
		return agent
	}
	return GenerateWithOverrides(getUser(), getHostname(), getCwd())
}

// GenerateWithOverrides formats an identity from the given parts, using the
// fallbacks for empty ones.
func GenerateWithOverrides(usr, hostname, cwd string) string {
	if usr == "" {
		usr = FallbackUser
	}
	if hostname == "" {
		hostname = FallbackHostname
	}
	if cwd == "" {
		cwd = FallbackCwd
	}

	return fmt.Sprintf("%s@%s:%s", usr, hostname, cwd)
}

// getUser checks USER before asking the OS.
func getUser() string {
	if usr := os.Getenv("USER"); usr != "" {
		return usr
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

func getHostname() string {
	hostname, _ := os.Hostname()
	return hostname
}

func getCwd() string {
	cwd, _ := os.Getwd()
	return cwd
}
