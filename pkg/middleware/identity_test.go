package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityFromHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		cookie  *http.Cookie
		want    Identity
		wantOK  bool
	}{
		{
			name:    "user and session headers",
			headers: map[string]string{UserIDHeader: "u-1", SessionIDHeader: "s-1"},
			want:    Identity{UserID: "u-1", SessionID: "s-1"},
			wantOK:  true,
		},
		{
			name:    "session from cookie",
			headers: map[string]string{UserIDHeader: "u-2"},
			cookie:  &http.Cookie{Name: SessionCookie, Value: "cookie-session"},
			want:    Identity{UserID: "u-2", SessionID: "cookie-session"},
			wantOK:  true,
		},
		{
			name:   "anonymous request",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Identity
			var ok bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok = IdentityFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			IdentityFromHeaders()(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
