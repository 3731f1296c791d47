// Package vision prepares image prompts for the alt-text variant of a
// completion call: file loading, MIME sniffing, base64 encoding, and
// the fixed instruction that sets the desired description style.
package vision

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rdelgado/orbit/internal/openrouter"
)

// AltTextInstruction is the fixed prompt sent alongside every image.
const AltTextInstruction = "Write concise, descriptive alt text for this image. " +
	"Describe the key subjects and their context in one or two sentences. " +
	"Do not begin with phrases like \"image of\" or \"picture of\"."

// Extension fallbacks for formats the content sniffer cannot identify.
var extensionMIMEs = map[string]string{
	".svg": "image/svg+xml",
	".bmp": "image/bmp",
}

// LoadImage reads an image file and returns its MIME type and
// base64-encoded content, ready for an image content part.
func LoadImage(path string) (mimeType, base64Data string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read image file: %w", err)
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("image file %s is empty", path)
	}

	mimeType = http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		ext := strings.ToLower(filepath.Ext(path))
		fallback, ok := extensionMIMEs[ext]
		if !ok {
			return "", "", fmt.Errorf("file %s is not a recognized image (detected %s)", path, mimeType)
		}
		mimeType = fallback
	}

	return mimeType, base64.StdEncoding.EncodeToString(data), nil
}

// AltTextContent builds the structured prompt for an alt-text request:
// the instruction first, then the image, in that order.
func AltTextContent(mimeType, base64Data string) []openrouter.ContentPart {
	return []openrouter.ContentPart{
		openrouter.TextPart(AltTextInstruction),
		openrouter.ImagePart(mimeType, base64Data),
	}
}
