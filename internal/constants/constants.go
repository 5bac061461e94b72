package constants

// Validation limits
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	MaxTitleLength    = 255
)

// DueDateFormat is the fixed layout for task due dates. Zero-padded so that
// lexicographic ordering of stored values matches chronological ordering.
const DueDateFormat = "2006-01-02 15:04"

// ShortCodeLength is the length of a user's public short code.
const ShortCodeLength = 8

// ShortCodeAlphabet excludes visually ambiguous characters (0, O, 1, I, L).
const ShortCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Context keys set by the auth middleware
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
)

// Notification windows in hours
const (
	DueSoonWindowShort = 1
	DueSoonWindowLong  = 24
)
