package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rdelgado/orbit/internal/observability"
	"github.com/rdelgado/orbit/internal/openrouter"
)

const (
	outputFileMode = 0o644
	outputDirMode  = 0o755
)

// Aggregator reconciles streaming and non-streaming results with the
// destinations of an OutputPlan: console echo, in-memory capture for
// the return value, and file persistence.
type Aggregator struct {
	console io.Writer
}

// NewAggregator creates an aggregator writing console output to the
// given writer (stdout in production, a buffer in tests).
func NewAggregator(console io.Writer) *Aggregator {
	return &Aggregator{console: console}
}

// ConsumeStream drains the event channel, echoing deltas to the console
// as they arrive when the plan calls for it. Malformed frames are
// logged at debug level and skipped; a terminal event error aborts the
// call. Side effects run in a fixed order: console, then file, then
// return value.
func (a *Aggregator) ConsumeStream(
	ctx context.Context,
	events <-chan openrouter.Event,
	plan OutputPlan,
	fullFidelity bool,
) (*Result, error) {
	logger := observability.FromContext(ctx)

	var text strings.Builder
	var raw []json.RawMessage

	for ev := range events {
		if ev.Err != nil {
			return nil, fmt.Errorf("stream failed: %w", ev.Err)
		}

		switch ev.Kind {
		case openrouter.EventDelta:
			text.WriteString(ev.Delta)
			if fullFidelity {
				raw = append(raw, ev.Raw)
			}
			if plan.EmitToConsole {
				// No added newline; the delta is echoed exactly as it
				// arrived.
				fmt.Fprint(a.console, ev.Delta)
			}
		case openrouter.EventMalformed:
			logger.Debug("skipping malformed stream frame",
				observability.String("frame", string(ev.Raw)))
		case openrouter.EventDone:
		}
	}

	if plan.EmitToConsole && text.Len() > 0 {
		// Exactly one trailing newline once the stream completes.
		fmt.Fprintln(a.console)
	}

	return a.finish(ctx, text.String(), raw, plan)
}

// ConsumeResponse handles the blocking path: the whole content is
// written to the console at once, then the file and return-value rules
// apply as for streams.
func (a *Aggregator) ConsumeResponse(
	ctx context.Context,
	resp *openrouter.Response,
	plan OutputPlan,
	fullFidelity bool,
) (*Result, error) {
	content := resp.Content()

	if plan.EmitToConsole && content != "" {
		fmt.Fprintln(a.console, content)
	}

	var raw []json.RawMessage
	if fullFidelity && len(resp.Raw) > 0 {
		raw = append(raw, resp.Raw)
	}

	return a.finish(ctx, content, raw, plan)
}

// finish applies the file and return-value rules shared by both paths.
// An empty result is absorbed: it surfaces as an absent value plus a
// log line, at error severity unless file-only mode already suppresses
// output.
func (a *Aggregator) finish(
	ctx context.Context,
	text string,
	raw []json.RawMessage,
	plan OutputPlan,
) (*Result, error) {
	logger := observability.FromContext(ctx)

	if text == "" {
		if plan.fileOnly() {
			logger.Debug("response contained no content")
		} else {
			logger.Error("response contained no content")
		}
		return nil, nil
	}

	if plan.FilePath != "" {
		if err := writeOutputFile(plan.FilePath, text); err != nil {
			return nil, err
		}
		logger.Info("response written to file",
			observability.String("path", plan.FilePath),
			observability.Int("bytes", len(text)),
		)
	}

	if !plan.CaptureForReturn {
		return nil, nil
	}

	return &Result{TextContent: text, RawEvents: raw}, nil
}

// writeOutputFile persists the response text byte-for-byte, creating
// parent directories as needed. No template wrapper, no front matter.
func writeOutputFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, outputDirMode); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(text), outputFileMode); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}
