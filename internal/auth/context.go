package auth

import (
	"context"
	"strings"
)

type subjectContextKey struct{}

// ContextWithSubject attaches the authenticated subject id to the context.
func ContextWithSubject(ctx context.Context, subjectID string) context.Context {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return ctx
	}
	return context.WithValue(ctx, subjectContextKey{}, subjectID)
}

// SubjectFromContext extracts the authenticated subject id from the context.
func SubjectFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(subjectContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
