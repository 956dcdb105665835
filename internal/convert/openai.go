package convert

import (
	"fmt"

	"github.com/promptweave/promptweave/internal/prompt"
)

// FormatOpenAI is the registry name of the OpenAI chat-completions shape.
const FormatOpenAI = "openai"

// OpenAIConverter renders messages into the OpenAI chat-completions content
// part shape: text parts and image_url parts. Data URLs pass through
// unchanged since OpenAI accepts them inline.
type OpenAIConverter struct{}

func (OpenAIConverter) Format() string { return FormatOpenAI }

func (OpenAIConverter) Convert(messages []prompt.Message) ([]WireMessage, error) {
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
				parts = append(parts, map[string]any{
					"type": "image_url",
					"image_url": map[string]any{
						"url": b.URL,
					},
				})
			default:
				return nil, fmt.Errorf("message %d: unhandled content block %T", i, block)
			}
		}
		out = append(out, WireMessage{Role: msg.Role, Content: parts})
	}
	return out, nil
}
