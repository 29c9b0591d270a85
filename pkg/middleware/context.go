package middleware

import (
	"context"
	"slotly/pkg/locale"
	"slotly/pkg/logger"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	languageKey contextKey = "language"
	webhookKey  contextKey = "webhook"
)

// Identity is the caller as resolved by the gateway in front of the API.
// Both fields are optional.
type Identity struct {
	UserID    string
	SessionID string
}

func (i Identity) IsZero() bool {
	return i.UserID == "" && i.SessionID == ""
}

// Webhook carries a webhook request body exactly as received together with
// its best effort JSON decoding.
type Webhook struct {
	RawBody []byte
	Body    map[string]any
}

func RequestIDFromContext(ctx context.Context) string {
	return logger.RequestIDFromContext(ctx)
}

func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

func ContextWithLanguage(ctx context.Context, lang locale.Language) context.Context {
	return context.WithValue(ctx, languageKey, lang)
}

// LanguageFromContext falls back to the default language when the Language
// middleware did not run.
func LanguageFromContext(ctx context.Context) locale.Language {
	if lang, ok := ctx.Value(languageKey).(locale.Language); ok {
		return lang
	}
	return locale.DefaultLanguage
}

func ContextWithWebhook(ctx context.Context, webhook *Webhook) context.Context {
	return context.WithValue(ctx, webhookKey, webhook)
}

func WebhookFromContext(ctx context.Context) (*Webhook, bool) {
	webhook, ok := ctx.Value(webhookKey).(*Webhook)
	return webhook, ok && webhook != nil
}

// RequestInfo is everything the middleware chain attached to one request.
type RequestInfo struct {
	RequestID string
	Identity  Identity
	Language  locale.Language
	Webhook   *Webhook
}

func RequestInfoFromContext(ctx context.Context) RequestInfo {
	info := RequestInfo{
		RequestID: RequestIDFromContext(ctx),
		Language:  LanguageFromContext(ctx),
	}
	info.Identity, _ = IdentityFromContext(ctx)
	info.Webhook, _ = WebhookFromContext(ctx)
	return info
}
