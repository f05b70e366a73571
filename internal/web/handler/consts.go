package handler

const (
	// RootPath is the root path of a route group.
	RootPath = "/"

	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"

	// CurrentUserLocal is the fiber.Locals key holding the authenticated user.
	CurrentUserLocal = "CurrentUser"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
