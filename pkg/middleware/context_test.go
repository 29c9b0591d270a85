package middleware

import (
	"context"
	"testing"

	"slotly/pkg/locale"
	"slotly/pkg/logger"

	"github.com/google/go-cmp/cmp"
)

func TestRequestInfoFromContext(t *testing.T) {
	webhook := &Webhook{RawBody: []byte(`{"id":"1"}`), Body: map[string]any{"id": "1"}}

	tests := []struct {
		name string
		ctx  context.Context
		want RequestInfo
	}{
		{
			name: "empty context uses defaults",
			ctx:  context.Background(),
			want: RequestInfo{Language: locale.DefaultLanguage},
		},
		{
			name: "everything set",
			ctx: ContextWithWebhook(
				ContextWithLanguage(
					ContextWithIdentity(
						logger.ContextWithRequestID(context.Background(), "req-1"),
						Identity{UserID: "u1", SessionID: "s1"},
					),
					locale.Ukrainian,
				),
				webhook,
			),
			want: RequestInfo{
				RequestID: "req-1",
				Identity:  Identity{UserID: "u1", SessionID: "s1"},
				Language:  locale.Ukrainian,
				Webhook:   webhook,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequestInfoFromContext(tt.ctx)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RequestInfoFromContext() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
