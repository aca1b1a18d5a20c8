package constants

// Session and context keys
const (
	SessionCookieName = "focusflow_session"
	ContextKeyUserID  = "user_id"
)

// Password policy bounds
const (
	MinPasswordLength = 10
	MaxPasswordLength = 12
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MaxAIGeneratedTasks caps how many suggestions a single generate call may return.
const MaxAIGeneratedTasks = 20

// MinTaskTitleLength is the minimum trimmed length of a task title.
const MinTaskTitleLength = 3
