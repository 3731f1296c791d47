package chat_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdelgado/orbit/internal/chat"
	"github.com/rdelgado/orbit/internal/config"
	"github.com/rdelgado/orbit/internal/credential"
	"github.com/rdelgado/orbit/internal/openrouter"
)

// staticStore is a credential.Store with a fixed secret (or none).
type staticStore struct {
	secret string
}

func (s *staticStore) Get(_ context.Context) (string, error) {
	if s.secret == "" {
		return "", credential.ErrNotFound
	}
	return s.secret, nil
}

func (s *staticStore) Set(_ context.Context, secret string) error {
	s.secret = secret
	return nil
}

func (s *staticStore) Name() string {
	return "static"
}

// completionServer answers both the blocking and the streaming path
// with a fixed response, recording every request it sees.
type completionServer struct {
	*httptest.Server

	requests   atomic.Int64
	lastModel  atomic.Value
	streamText []string
	blockText  string
}

func newCompletionServer(t *testing.T) *completionServer {
	t.Helper()

	cs := &completionServer{
		streamText: []string{"Hel", "lo, ", "world"},
		blockText:  "Hello, world",
	}

	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.requests.Add(1)

		var req struct {
			Model  string `json:"model"`
			Stream bool   `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		cs.lastModel.Store(req.Model)

		if req.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, fragment := range cs.streamText {
				frame, err := json.Marshal(map[string]any{
					"choices": []map[string]any{{"delta": map[string]string{"content": fragment}}},
				})
				require.NoError(t, err)
				_, _ = w.Write([]byte("data: " + string(frame) + "\n\n"))
			}
			_, _ = w.Write([]byte("data: [DONE]\n"))
			return
		}

		frame, err := json.Marshal(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": cs.blockText}}},
		})
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(frame)
	}))
	t.Cleanup(cs.Server.Close)

	return cs
}

type serviceFixture struct {
	service *chat.Service
	models  *chat.ModelStore
	console *bytes.Buffer
	server  *completionServer
}

func newServiceFixture(t *testing.T, creds credential.Store) *serviceFixture {
	t.Helper()

	server := newCompletionServer(t)
	console := &bytes.Buffer{}
	models := chat.NewModelStore(&config.ChatConfig{DefaultModel: "openai/gpt-4o-mini"})
	client := openrouter.NewClient(&config.RouterConfig{BaseURL: server.URL, Timeout: 5})

	return &serviceFixture{
		service: chat.NewService(client, creds, models, chat.NewAggregator(console)),
		models:  models,
		console: console,
		server:  server,
	}
}

func TestService_Complete_UsesDefaultModelAtCallTime(t *testing.T) {
	f := newServiceFixture(t, &staticStore{secret: "sk-test"})

	_, err := f.service.Complete(context.Background(), "hi", chat.Options{Temperature: 0.7, MaxTokens: 100})
	require.NoError(t, err)
	require.Equal(t, "openai/gpt-4o-mini", f.server.lastModel.Load())

	// A later default change is picked up by the next omitted-model call.
	require.NoError(t, f.models.Set("anthropic/claude-sonnet-4"))

	_, err = f.service.Complete(context.Background(), "hi again", chat.Options{Temperature: 0.7, MaxTokens: 100})
	require.NoError(t, err)
	require.Equal(t, "anthropic/claude-sonnet-4", f.server.lastModel.Load())
}

func TestService_Complete_ExplicitModelWins(t *testing.T) {
	f := newServiceFixture(t, &staticStore{secret: "sk-test"})

	_, err := f.service.Complete(context.Background(), "hi", chat.Options{
		Model:       "mistralai/mistral-large",
		Temperature: 0.7,
		MaxTokens:   100,
	})

	require.NoError(t, err)
	require.Equal(t, "mistralai/mistral-large", f.server.lastModel.Load())
}

func TestService_Complete_NoCredentialNoRequest(t *testing.T) {
	f := newServiceFixture(t, &staticStore{})

	result, err := f.service.Complete(context.Background(), "hi", chat.Options{Temperature: 0.7, MaxTokens: 100})

	require.ErrorIs(t, err, chat.ErrCredentialNotFound)
	require.Nil(t, result)
	require.Equal(t, int64(0), f.server.requests.Load())
}

func TestService_Complete_EmptyPromptRejectedBeforeRequest(t *testing.T) {
	f := newServiceFixture(t, &staticStore{secret: "sk-test"})

	result, err := f.service.Complete(context.Background(), "   ", chat.Options{Temperature: 0.7, MaxTokens: 100})

	require.ErrorIs(t, err, chat.ErrEmptyPrompt)
	require.Nil(t, result)
	require.Equal(t, int64(0), f.server.requests.Load())
}

func TestService_Complete_NoModelAnywhere(t *testing.T) {
	server := newCompletionServer(t)
	models := chat.NewModelStore(&config.ChatConfig{})
	client := openrouter.NewClient(&config.RouterConfig{BaseURL: server.URL, Timeout: 5})
	service := chat.NewService(client, &staticStore{secret: "sk-test"}, models, chat.NewAggregator(&bytes.Buffer{}))

	result, err := service.Complete(context.Background(), "hi", chat.Options{Temperature: 0.7, MaxTokens: 100})

	require.ErrorIs(t, err, chat.ErrNoModel)
	require.Nil(t, result)
	require.Equal(t, int64(0), server.requests.Load())
}

func TestService_Complete_OutputModeTruthTable(t *testing.T) {
	tests := []struct {
		name        string
		stream      bool
		returnFlag  bool
		useFile     bool
		wantConsole bool
		wantValue   bool
	}{
		{name: "blocking no flags", wantConsole: true, wantValue: true},
		{name: "blocking return", returnFlag: true, wantConsole: true, wantValue: true},
		{name: "blocking file only", useFile: true, wantConsole: false, wantValue: false},
		{name: "blocking return and file", returnFlag: true, useFile: true, wantConsole: true, wantValue: true},
		{name: "streaming no flags", stream: true, wantConsole: true, wantValue: false},
		{name: "streaming return", stream: true, returnFlag: true, wantConsole: true, wantValue: true},
		{name: "streaming file only", stream: true, useFile: true, wantConsole: false, wantValue: false},
		{name: "streaming return and file", stream: true, returnFlag: true, useFile: true, wantConsole: true, wantValue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t, &staticStore{secret: "sk-test"})

			opts := chat.Options{
				Temperature: 0.7,
				MaxTokens:   100,
				Stream:      tt.stream,
				Return:      tt.returnFlag,
			}
			if tt.useFile {
				opts.OutFile = filepath.Join(t.TempDir(), "out.md")
			}

			result, err := f.service.Complete(context.Background(), "hi", opts)
			require.NoError(t, err)

			if tt.wantConsole {
				require.Equal(t, "Hello, world\n", f.console.String())
			} else {
				require.Empty(t, f.console.String())
			}

			if tt.wantValue {
				require.NotNil(t, result)
				require.Equal(t, "Hello, world", result.TextContent)
			} else {
				require.Nil(t, result)
			}
		})
	}
}

func TestService_CompleteContent_StructuredPrompt(t *testing.T) {
	f := newServiceFixture(t, &staticStore{secret: "sk-test"})

	content := []openrouter.ContentPart{
		openrouter.TextPart("Describe this image."),
		openrouter.ImagePart("image/png", "aGVsbG8="),
	}

	result, err := f.service.CompleteContent(context.Background(), content, chat.Options{
		Temperature: 0.7,
		MaxTokens:   300,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "Hello, world", result.TextContent)
}

func TestService_CompleteContent_EmptyContentRejected(t *testing.T) {
	f := newServiceFixture(t, &staticStore{secret: "sk-test"})

	result, err := f.service.CompleteContent(context.Background(), nil, chat.Options{Temperature: 0.7, MaxTokens: 100})

	require.ErrorIs(t, err, chat.ErrEmptyPrompt)
	require.Nil(t, result)
	require.Equal(t, int64(0), f.server.requests.Load())
}

func TestService_Complete_FullFidelityStream(t *testing.T) {
	f := newServiceFixture(t, &staticStore{secret: "sk-test"})

	result, err := f.service.Complete(context.Background(), "hi", chat.Options{
		Temperature:  0.7,
		MaxTokens:    100,
		Stream:       true,
		Return:       true,
		FullFidelity: true,
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "Hello, world", result.TextContent)
	require.Len(t, result.RawEvents, 3)
}
