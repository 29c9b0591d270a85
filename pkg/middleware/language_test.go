package middleware

import (
	"net/http"
	"net/http/httptest"
	"slotly/pkg/locale"
	"testing"
)

func TestLanguage(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		headers []string
		want    locale.Language
	}{
		{name: "query preference", target: "/?lang=ru", headers: []string{"uk-UA"}, want: locale.Russian},
		{name: "invalid query falls back to header", target: "/?lang=de", headers: []string{"uk-UA"}, want: locale.Ukrainian},
		{name: "repeated header values", target: "/", headers: []string{"en-GB", "ru-RU"}, want: locale.Russian},
		{name: "nothing given", target: "/", want: locale.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got locale.Language
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = LanguageFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for _, h := range tt.headers {
				req.Header.Add("Accept-Language", h)
			}
			rec := httptest.NewRecorder()
			Language()(next).ServeHTTP(rec, req)

			if got != tt.want {
				t.Errorf("language = %q, want %q", got, tt.want)
			}
			if rec.Header().Get("Content-Language") != string(tt.want) {
				t.Errorf("Content-Language = %q, want %q", rec.Header().Get("Content-Language"), tt.want)
			}
		})
	}
}

func TestLanguageFromContext_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := LanguageFromContext(req.Context()); got != locale.English {
		t.Errorf("LanguageFromContext() = %q, want %q", got, locale.English)
	}
}
