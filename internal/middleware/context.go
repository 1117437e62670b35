package middleware

import (
	"context"
	"net/http"
	"strings"
)

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// UserHeader carries the acting user's id. Authentication happens upstream.
const UserHeader = "X-User-ID"

// UserInfo identifies the user a request acts on behalf of.
type UserInfo struct {
	Subject string
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return &UserInfo{Subject: "anonymous"}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}

// User reads the acting user from the X-User-ID header into the request
// context. Requests without the header act as "anonymous".
func User(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := strings.TrimSpace(r.Header.Get(UserHeader))
		if subject == "" {
			subject = "anonymous"
		}
		next.ServeHTTP(w, r.WithContext(SetUserInfo(r.Context(), &UserInfo{Subject: subject})))
	})
}
