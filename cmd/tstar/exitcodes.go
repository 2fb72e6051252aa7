package main

// Exit codes for the CLI
const (
	ExitSuccess              = 0
	ExitGeneralError         = 1
	ExitServerNotRunning     = 2
	ExitProjectNotConfigured = 3
	ExitNotFound             = 4
	ExitConflict             = 6
	ExitInvalid              = 7
)
