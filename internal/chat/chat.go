package chat

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"

	"tala/internal/convo"
	"tala/internal/intent"
)

// Client wraps the completion endpoint for open-domain replies and headline
// summaries.
type Client struct {
	client openai.Client
	model  openai.ChatModel
}

func NewClient(client openai.Client) *Client {
	return &Client{client: client, model: openai.ChatModelGPT5Nano}
}

// Complete sends system prompt + conversation history + the new user turn and
// returns the reply text verbatim.
func (c *Client) Complete(ctx context.Context, system string, history []convo.Turn, user string) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(system))
	for _, turn := range history {
		switch turn.Role {
		case convo.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(turn.Content))
		default:
			msgs = append(msgs, openai.UserMessage(turn.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(user))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    c.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}
	return content, nil
}

// SummarizeHeadlines condenses up to five headlines into a short spoken
// summary in the requested language. Reuses the completion endpoint.
func (c *Client) SummarizeHeadlines(ctx context.Context, headlines []string, lang intent.Lang) (string, error) {
	language := "English"
	if lang == intent.LangFilipino {
		language = "Filipino"
	}

	system := fmt.Sprintf("Summarize the following news headlines into at most three "+
		"spoken sentences in %s. No lists, no preamble.", language)

	return c.Complete(ctx, system, nil, strings.Join(headlines, "\n"))
}
