package convert

import (
	"fmt"
	"strings"

	"github.com/promptweave/promptweave/internal/imageio"
	"github.com/promptweave/promptweave/internal/prompt"
)

// FormatAnthropic is the registry name of the Anthropic Messages API shape.
const FormatAnthropic = "anthropic"

// anthropicDefaultMediaType is assumed when an inline image's data URL header
// cannot be parsed.
const anthropicDefaultMediaType = "image/png"

// AnthropicConverter renders messages into the Anthropic Messages API shape.
// Inline data URLs become base64 image sources with an explicit media type;
// every other reference becomes a URL image source.
type AnthropicConverter struct{}

func (AnthropicConverter) Format() string { return FormatAnthropic }

func (AnthropicConverter) Convert(messages []prompt.Message) ([]WireMessage, error) {
	out := make([]WireMessage, 0, len(messages))
	for i, msg := range messages {
		parts := make([]map[string]any, 0, len(msg.Blocks))
		for _, block := range msg.Blocks {
			switch b := block.(type) {
			case prompt.TextBlock:
				parts = append(parts, map[string]any{
					"type": "text",
					"text": b.Text,
				})
			case prompt.ImageBlock:
				if part, ok := anthropicImagePart(b); ok {
					parts = append(parts, part)
				}
			default:
				return nil, fmt.Errorf("message %d: unhandled content block %T", i, block)
			}
		}
		out = append(out, WireMessage{Role: msg.Role, Content: parts})
	}
	return out, nil
}

// anthropicImagePart builds the image source. A data: URL that cannot be
// split into header and payload yields no part at all.
func anthropicImagePart(b prompt.ImageBlock) (map[string]any, bool) {
	if b.Source != nil {
		return base64ImagePart(b.Source.MediaType, b.Source.Data), true
	}
	if strings.HasPrefix(b.URL, imageio.DataURLPrefix) {
		mediaType, data, ok := splitDataURL(b.URL)
		if !ok {
			return nil, false
		}
		return base64ImagePart(mediaType, data), true
	}
	return map[string]any{
		"type": "image",
		"source": map[string]any{
			"type": "url",
			"url":  b.URL,
		},
	}, true
}

func base64ImagePart(mediaType, data string) map[string]any {
	return map[string]any{
		"type": "image",
		"source": map[string]any{
			"type":       "base64",
			"media_type": mediaType,
			"data":       data,
		},
	}
}

// splitDataURL re-derives media type and payload from a raw data URL,
// tolerating malformed headers by assuming PNG. A URL with no
// header/payload separator reports !ok.
func splitDataURL(url string) (mediaType, data string, ok bool) {
	if parsed, err := imageio.ParseDataURL(url); err == nil {
		return parsed.MediaType, parsed.Data, true
	}

	rest := strings.TrimPrefix(url, imageio.DataURLPrefix)
	header, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}
	mediaType = strings.TrimSuffix(header, ";base64")
	if mediaType == "" || !strings.Contains(mediaType, "/") {
		mediaType = anthropicDefaultMediaType
	}
	return mediaType, payload, true
}
