package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/poiesic/symptomap/ai"
	"github.com/poiesic/symptomap/core"
)

// DefaultTimeout bounds a single prediction request.
const DefaultTimeout = 30 * time.Second

// Classifier implements ai.Classifier against a JSON-over-HTTP prediction
// service. The service contract is one POST per description:
//
//	request:  {"text": "<description>"}
//	response: {"disease_id": "<label>", "score": <probability>}
type Classifier struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Classifier) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClassifier creates a classifier client for the given endpoint URL.
//
// Returns ai.Classifier interface to enforce abstraction.
func NewClassifier(endpoint string, opts ...Option) (ai.Classifier, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	c := &Classifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   slog.Default().With("component", "rest-classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	DiseaseID string  `json:"disease_id"`
	Score     float64 `json:"score"`
}

// Predict maps a free-text description to the service's most likely disease
// label. A transport failure, a non-200 status and a response that fails
// prediction validation are all errors; the caller never receives a partial
// prediction.
func (c *Classifier) Predict(ctx context.Context, text string) (core.Prediction, error) {
	c.logger.Debug("requesting prediction", "length", len(text))

	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return core.Prediction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return core.Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("prediction request failed", "err", err)
		return core.Prediction{}, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("prediction service returned error", "status", resp.StatusCode)
		return core.Prediction{}, fmt.Errorf("%w: status %d: %s",
			ErrPredictionFailed, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var decoded predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return core.Prediction{}, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}

	prediction := core.Prediction{
		DiseaseID: decoded.DiseaseID,
		Score:     decoded.Score,
	}
	if err := core.ValidatePrediction(&prediction); err != nil {
		return core.Prediction{}, err
	}
	return prediction, nil
}
