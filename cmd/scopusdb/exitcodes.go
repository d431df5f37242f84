package main

// Exit codes shared by all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad scopusdb.yml, missing email)
	ExitDataError   = 3 // Data error (unreadable CSV, no importable records)
	ExitAuthError   = 4 // CrossRef rejected our credentials
)
