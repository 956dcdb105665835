package convert

import (
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"

	"github.com/promptweave/promptweave/internal/prompt"
)

// ToOpenAIParams adapts formatted messages to the official OpenAI SDK's chat
// completion parameter types, for callers that invoke the API directly
// instead of marshaling wire messages themselves. System and assistant
// messages must be text-only; user messages may mix text and image parts.
func ToOpenAIParams(messages []prompt.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system", "assistant":
			text, err := joinTextBlocks(msg)
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			if msg.Role == "system" {
				out = append(out, openai.SystemMessage(text))
			} else {
				out = append(out, openai.AssistantMessage(text))
			}

		default:
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(msg.Blocks))
			for _, block := range msg.Blocks {
				switch b := block.(type) {
				case prompt.TextBlock:
					parts = append(parts, openai.TextContentPart(b.Text))
				case prompt.ImageBlock:
					parts = append(parts, openai.ImageContentPart(
						openai.ChatCompletionContentPartImageImageURLParam{URL: b.URL}))
				default:
					return nil, fmt.Errorf("message %d: unhandled content block %T", i, block)
				}
			}
			out = append(out, openai.UserMessage(parts))
		}
	}
	return out, nil
}

func joinTextBlocks(msg prompt.Message) (string, error) {
	texts := make([]string, 0, len(msg.Blocks))
	for _, block := range msg.Blocks {
		tb, ok := block.(prompt.TextBlock)
		if !ok {
			return "", fmt.Errorf("%s messages accept text content only, got %T", msg.Role, block)
		}
		texts = append(texts, tb.Text)
	}
	return strings.Join(texts, "\n"), nil
}
