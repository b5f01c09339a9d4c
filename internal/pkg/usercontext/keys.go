package usercontext

// Locals keys set by the user-context middleware.
const (
	KeyUserContext = "USER_CONTEXT"
	KeyIdentity    = "IDENTITY"
)
