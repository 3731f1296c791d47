// Package chat orchestrates completion calls: model resolution,
// credential lookup, dispatch to the blocking or streaming wire path,
// and output-mode policy.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rdelgado/orbit/internal/credential"
	"github.com/rdelgado/orbit/internal/observability"
	"github.com/rdelgado/orbit/internal/openrouter"
)

// Service is the public entry point for completion calls.
type Service struct {
	client     *openrouter.Client
	creds      credential.Store
	models     *ModelStore
	aggregator *Aggregator
}

// NewService creates a completion service (DI constructor).
func NewService(
	client *openrouter.Client,
	creds credential.Store,
	models *ModelStore,
	aggregator *Aggregator,
) *Service {
	return &Service{
		client:     client,
		creds:      creds,
		models:     models,
		aggregator: aggregator,
	}
}

// Complete sends a text prompt to the resolved model and routes the
// response per the requested output modes. The returned Result is nil
// when the plan captures no value or the response was empty.
func (s *Service) Complete(ctx context.Context, prompt string, opts Options) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	return s.complete(ctx, prompt, opts)
}

// CompleteContent sends a structured prompt (mixed text and image
// parts) through the same pipeline as Complete. Parts are forwarded in
// order.
func (s *Service) CompleteContent(ctx context.Context, content []openrouter.ContentPart, opts Options) (*Result, error) {
	if len(content) == 0 {
		return nil, ErrEmptyPrompt
	}

	return s.complete(ctx, content, opts)
}

func (s *Service) complete(ctx context.Context, content any, opts Options) (*Result, error) {
	model := opts.Model
	if model == "" {
		model = s.models.Get()
	}
	if model == "" {
		return nil, ErrNoModel
	}

	ctx = observability.WithRequestID(ctx, observability.GenerateRequestID())
	ctx = observability.WithModel(ctx, model)
	logger := observability.FromContext(ctx)

	// No credential, no network I/O.
	apiKey, err := s.creds.Get(ctx)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	req := openrouter.NewRequest(model, content, opts.Temperature, opts.MaxTokens, opts.Stream)
	plan := PlanOutput(opts.Stream, opts.Return, opts.OutFile)

	logger.Debug("dispatching completion",
		observability.Bool("stream", opts.Stream),
		observability.Bool("return", opts.Return),
		observability.String("out_file", opts.OutFile),
	)

	if opts.Stream {
		events, streamErr := s.client.Stream(ctx, apiKey, req)
		if streamErr != nil {
			return nil, streamErr
		}
		return s.aggregator.ConsumeStream(ctx, events, plan, opts.FullFidelity)
	}

	resp, err := s.client.Complete(ctx, apiKey, req)
	if err != nil {
		return nil, err
	}
	return s.aggregator.ConsumeResponse(ctx, resp, plan, opts.FullFidelity)
}
