package constants

// Static route constants
const (
	APIRoute    = "/api"
	APIv1Route  = "/v1"
	PublicRoute = "/"

	// AccessTokenCookie carries the provider access token for "remembered"
	// browser sessions; it wins over the Authorization header.
	AccessTokenCookie = "access_token"
)
