package constants

const (
	// Session and context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRole      = "role"
	ContextKeyUser      = "current_user"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "club_session"

	// Passwords
	MinPasswordLength       = 8
	TemporaryPasswordLength = 12

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Reports
	MinReportYear = 2000
	MaxReportYear = 2100

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
