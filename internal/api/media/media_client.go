package media

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Client resolves a best-effort illustration URL for a named place. Failures
// are expected and must stay non-fatal for callers.
type Client interface {
	ImageFor(ctx context.Context, name, categoryHint string) (string, error)
}

var _ Client = (*PollinationsClient)(nil)

// PollinationsClient composes prompt-addressed image URLs. The service
// generates images on demand from the URL path, so the cheap path is pure URL
// composition; Verify additionally probes the URL so dead links are not handed
// to clients.
type PollinationsClient struct {
	baseURL    string
	verify     bool
	httpClient *http.Client
	logger     *slog.Logger
}

func NewPollinationsClient(baseURL string, verify bool, timeout time.Duration, logger *slog.Logger) *PollinationsClient {
	if baseURL == "" {
		baseURL = "https://image.pollinations.ai"
	}
	return &PollinationsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		verify:     verify,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *PollinationsClient) ImageFor(ctx context.Context, name, categoryHint string) (string, error) {
	ctx, span := otel.Tracer("MediaClient").Start(ctx, "ImageFor")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("image lookup requires a non-empty name")
	}

	prompt := name
	if categoryHint != "" {
		prompt = fmt.Sprintf("%s %s", name, categoryHint)
	}
	imageURL := fmt.Sprintf("%s/prompt/%s", c.baseURL, url.PathEscape(prompt))
	span.SetAttributes(attribute.String("image.url", imageURL))

	if c.verify {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
		if err != nil {
			span.RecordError(err)
			return "", fmt.Errorf("failed to build image probe request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Image probe failed")
			return "", fmt.Errorf("image probe failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			err := fmt.Errorf("image probe returned status %d", resp.StatusCode)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Image probe rejected")
			return "", err
		}
	}

	span.SetStatus(codes.Ok, "Image URL resolved")
	return imageURL, nil
}
