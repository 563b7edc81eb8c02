package gateway

import (
	"context"
	"errors"

	"cloud.google.com/go/vertexai/genai"
)

// Request is a single structured-output generation call.
type Request struct {
	Operation string
	Prompt    string
	// Schema constrains the JSON the model returns. Nil means free text.
	Schema *genai.Schema
}

// Provider produces raw model output for a request.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrProviderDisabled is returned by DisabledProvider for every call.
var ErrProviderDisabled = errors.New("ai provider is not configured")

// DisabledProvider is used when no AI backend is configured. Every gateway
// operation then serves its fallback payload.
type DisabledProvider struct{}

func (DisabledProvider) Generate(context.Context, Request) (string, error) {
	return "", ErrProviderDisabled
}
