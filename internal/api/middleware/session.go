package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const SubjectIDKey ctxKey = "subject_id"

// Session resolves a per-request subject id used for keying view
// preferences. Authenticated requests use the user id; anonymous
// requests supply X-Session-ID or get a fresh id echoed back.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var subject string
		if uid, ok := GetUserID(r.Context()); ok {
			subject = uid.String()
		} else if sid := r.Header.Get("X-Session-ID"); sid != "" {
			subject = sid
		} else {
			subject = uuid.NewString()
		}
		w.Header().Set("X-Session-ID", subject)
		ctx := context.WithValue(r.Context(), SubjectIDKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSubjectID returns the session subject id from context.
func GetSubjectID(ctx context.Context) string {
	if s, ok := ctx.Value(SubjectIDKey).(string); ok {
		return s
	}
	return ""
}
