package chat

import (
	"encoding/json"

	"github.com/rdelgado/orbit/internal/config"
)

// Options controls a single completion call.
type Options struct {
	// Model overrides the process default when non-empty.
	Model string

	// Temperature is forwarded to the service unclamped.
	Temperature float64

	// MaxTokens caps the generation length.
	MaxTokens int

	// Stream requests incremental delivery.
	Stream bool

	// Return requests the result as a value even when it is also
	// streamed to the console.
	Return bool

	// OutFile, when set, receives the response text verbatim.
	OutFile string

	// FullFidelity retains every raw provider record alongside the
	// reassembled text.
	FullFidelity bool
}

// DefaultOptions returns Options seeded with the configured call defaults.
func DefaultOptions(cfg *config.ChatConfig) Options {
	return Options{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

// Result is the aggregate outcome of one completion call.
type Result struct {
	// TextContent is the accumulated response text.
	TextContent string

	// RawEvents holds the provider-native records in arrival order.
	// Populated only for full-fidelity calls.
	RawEvents []json.RawMessage
}

// OutputPlan is the derived combination of destinations for one call.
// It is computed once from the requested flags and never stored.
type OutputPlan struct {
	EmitToConsole    bool
	CaptureForReturn bool
	FilePath         string
}

// PlanOutput derives the destinations for a call. When no destination
// is requested at all, the console wins by default: a call that
// produces no value and no file must still be observable by something.
// Writing to a file suppresses the console unless a return value was
// also requested, and a non-streaming call without a file always
// yields its value.
func PlanOutput(stream, returnRequested bool, outFile string) OutputPlan {
	return OutputPlan{
		EmitToConsole:    returnRequested || outFile == "",
		CaptureForReturn: returnRequested || (!stream && outFile == ""),
		FilePath:         outFile,
	}
}

// fileOnly reports whether the plan suppresses all observable output
// except the destination file.
func (p OutputPlan) fileOnly() bool {
	return p.FilePath != "" && !p.EmitToConsole
}
