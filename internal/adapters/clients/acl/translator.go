package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/quotedeck/internal/adapters/clients"
	"github.com/jsamuelsen/quotedeck/internal/ports"
)

// defaultSourceLang is the language the upstream quote source publishes in.
const defaultSourceLang = "en"

// TranslatorConfig contains configuration for the translation adapter.
type TranslatorConfig struct {
	// Client is the HTTP client. Its BaseURL must point at a
	// MyMemory-compatible endpoint.
	Client *clients.Client

	// SourceLang is the language quotes arrive in. Defaults to "en".
	SourceLang string

	// APIKey is sent with each request when the endpoint requires one.
	APIKey string

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Translator translates quote text through a MyMemory-compatible API.
// Implements ports.Translator. Failures are returned as errors; the caller
// decides to fall back to the untranslated text.
type Translator struct {
	client     *clients.Client
	sourceLang string
	apiKey     string
	logger     *slog.Logger
}

// NewTranslator creates the translation adapter. Panics if Client is nil.
func NewTranslator(cfg TranslatorConfig) *Translator {
	if cfg.Client == nil {
		panic("Translator: Client is required")
	}

	sourceLang := cfg.SourceLang
	if sourceLang == "" {
		sourceLang = defaultSourceLang
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Translator{
		client:     cfg.Client,
		sourceLang: sourceLang,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// translateResponse is the external response DTO. Success is reported inside
// the payload, not only via the HTTP status.
type translateResponse struct {
	ResponseStatus int `json:"responseStatus"`
	ResponseData   struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate implements ports.Translator. It issues a single GET with the
// text and a source|target language pair; there is no retry and no caching
// of results.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", t.sourceLang+"|"+targetLang)

	if t.apiKey != "" {
		params.Set("key", t.apiKey)
	}

	resp, err := t.client.Get(ctx, "/get?"+params.Encode())
	if err != nil {
		return "", MapHTTPError(nil, err, "translator", "translate")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", MapHTTPError(resp, nil, "translator", "translate")
	}

	var external translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&external); err != nil {
		return "", fmt.Errorf("decoding translate response: %w", err)
	}

	if external.ResponseStatus != http.StatusOK {
		return "", fmt.Errorf("translator reported status %d", external.ResponseStatus)
	}

	if external.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("translator returned empty text")
	}

	return external.ResponseData.TranslatedText, nil
}

// CheckHealth implements ports.HealthChecker by translating a single word.
// The endpoint has no dedicated health route.
func (t *Translator) CheckHealth(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{Name: "translator", Healthy: true}

	if _, err := t.Translate(ctx, "ping", t.sourceLang); err != nil {
		status.Healthy = false
		status.Detail = err.Error()
	}

	return status
}
