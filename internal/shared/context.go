package shared

import "context"

type sessionKey struct{}

// ContextWithSession attaches sess to ctx for the rest of the request.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the request session, or nil outside the session
// middleware.
func SessionFromContext(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}
	sess, _ := ctx.Value(sessionKey{}).(*Session)
	return sess
}
