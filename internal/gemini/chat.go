package gemini

import (
	"context"

	"google.golang.org/genai"
)

func (c *Client) Chat(ctx context.Context, careerTitle, message string) (string, error) {
	prompt, err := prompts.render(promptChat, map[string]any{
		"CareerTitle": careerTitle,
		"Message":     message,
	})
	if err != nil {
		return "", err
	}

	return c.generateText(ctx, "chat", prompt, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompts.system[promptChat]}},
		},
	})
}
