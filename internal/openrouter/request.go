package openrouter

// Identification headers required by the routing service. The referer
// and title identify the calling application in the provider dashboard.
const (
	refererValue = "https://github.com/rdelgado/orbit"
	titleValue   = "orbit"
)

// Request is the chat-completion payload. It is built once per call and
// never mutated. Temperature is forwarded to the service unclamped;
// out-of-range values are the remote API's problem to reject.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

// Message is a single chat message. Content is either a plain string or
// an ordered []ContentPart for vision requests.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a structured prompt. Parts are rendered
// by the provider in sequence, so order is preserved.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image as a data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{
		Type: "text",
		Text: text,
	}
}

// ImagePart builds an image content part from pre-encoded data.
func ImagePart(mimeType, base64Data string) ContentPart {
	return ContentPart{
		Type: "image_url",
		ImageURL: &ImageURL{
			URL: "data:" + mimeType + ";base64," + base64Data,
		},
	}
}

// NewRequest assembles the payload for a single-user-message completion
// call. Content must be a string or a []ContentPart.
func NewRequest(model string, content any, temperature float64, maxTokens int, stream bool) Request {
	return Request{
		Model: model,
		Messages: []Message{
			{Role: "user", Content: content},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      stream,
	}
}
