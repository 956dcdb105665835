package prompt

import "github.com/promptweave/promptweave/internal/imageio"

// ContentBlock is one provider-agnostic unit of message content.
type ContentBlock interface {
	// BlockType returns the block discriminator ("text" or "image_url").
	BlockType() string
}

// TextBlock is formatted text content.
type TextBlock struct {
	Text string
}

func (TextBlock) BlockType() string { return TypeText }

// ImageBlock references an image by URL. Source is set when the URL is a
// parsed inline data URL.
type ImageBlock struct {
	URL    string
	Source *imageio.DataURL
}

func (ImageBlock) BlockType() string { return "image_url" }

// Message is one formatted message: a role and its ordered content blocks.
type Message struct {
	Role   string
	Blocks []ContentBlock
}
