// Package identity carries the authenticated caller of a single request.
package identity

// Caller is resolved once per request by the HTTP adapter and passed
// explicitly into use cases. The zero value is an anonymous caller.
type Caller struct {
	UserID   uint
	Username string
	Email    string
	Token    string
}

// Anonymous returns a caller with no identity.
func Anonymous() Caller {
	return Caller{}
}

// IsAuthenticated reports whether the caller was resolved from a valid token.
func (c Caller) IsAuthenticated() bool {
	return c.UserID != 0
}
