package common

// AuthorizationHeader carries the access token on authenticated requests,
// as BearerPrefix followed by the token.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)
