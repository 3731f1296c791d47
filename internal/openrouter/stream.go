package openrouter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"

	// Generous line buffer; a single frame can carry a large delta.
	maxFrameSize = 1 << 20
)

// EventKind discriminates stream events.
type EventKind int

const (
	// EventDelta carries an incremental content fragment.
	EventDelta EventKind = iota

	// EventDone marks the [DONE] sentinel.
	EventDone

	// EventMalformed carries a data frame that failed to parse as JSON.
	// Malformed frames never abort the stream.
	EventMalformed
)

// Event is one decoded server-sent event. A non-nil Err is terminal:
// the channel closes after it is delivered.
type Event struct {
	Kind  EventKind
	Delta string
	// Raw is the provider-native record for delta events, or the
	// offending frame text for malformed events.
	Raw json.RawMessage
	Err error
}

// streamChunk covers both shapes a provider may emit per frame: an
// incremental delta (preferred) or a whole message (fallback).
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// content extracts the one content string a frame may carry, trying the
// delta shape first and falling back to the message shape.
func (c *streamChunk) content() string {
	if len(c.Choices) == 0 {
		return ""
	}

	if delta := c.Choices[0].Delta.Content; delta != "" {
		return delta
	}

	return c.Choices[0].Message.Content
}

// decodeStream reads SSE frames from body until the [DONE] sentinel,
// EOF, or a read error, and sends events on the channel.
//
// Framing rules:
//   - lines without the "data:" prefix (including blanks) are skipped
//   - "[DONE]" terminates the stream immediately
//   - unparseable JSON yields an EventMalformed and decoding continues
//   - parseable frames with no content, and empty deltas, yield nothing
//   - EOF without [DONE] is a clean, if unconfirmed, end of stream
func decodeStream(body io.Reader, events chan<- Event) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		if payload == doneSentinel {
			events <- Event{Kind: EventDone}
			return
		}
		if payload == "" {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			events <- Event{Kind: EventMalformed, Raw: json.RawMessage(payload)}
			continue
		}

		content := chunk.content()
		if content == "" {
			continue
		}

		events <- Event{
			Kind:  EventDelta,
			Delta: content,
			Raw:   json.RawMessage(payload),
		}
	}

	if err := scanner.Err(); err != nil {
		events <- Event{Err: fmt.Errorf("failed to read stream: %w", err)}
	}
}
