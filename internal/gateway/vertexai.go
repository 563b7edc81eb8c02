package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// VertexConfig selects the Gemini deployment.
type VertexConfig struct {
	Project         string
	Location        string
	Model           string
	CredentialsFile string
}

// VertexProvider calls Gemini on Vertex AI with JSON-constrained output.
type VertexProvider struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewVertexProvider creates the Vertex AI client. Credentials come from the
// given service account file, or from application default credentials.
func NewVertexProvider(ctx context.Context, cfg VertexConfig, log zerolog.Logger) (*VertexProvider, error) {
	if cfg.Project == "" {
		return nil, errors.New("vertex ai: project is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	} else {
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("vertex ai: find default credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	client, err := genai.NewClient(ctx, cfg.Project, cfg.Location, opts...)
	if err != nil {
		return nil, fmt.Errorf("vertex ai: create client: %w", err)
	}

	log.Info().
		Str("project", cfg.Project).
		Str("location", cfg.Location).
		Str("model", cfg.Model).
		Msg("Vertex AI provider ready")

	return &VertexProvider{client: client, model: cfg.Model, log: log}, nil
}

// Generate sends the prompt and concatenates the text parts of the first candidate.
// A model handle is built per call because its generation config is mutable.
func (v *VertexProvider) Generate(ctx context.Context, req Request) (string, error) {
	model := v.client.GenerativeModel(v.model)
	model.SetTemperature(0.4)
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = req.Schema
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response candidates returned")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("empty response text")
	}
	return b.String(), nil
}

// Close releases the underlying gRPC connection.
func (v *VertexProvider) Close() error {
	return v.client.Close()
}
