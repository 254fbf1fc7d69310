package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"k8s.io/klog/v2"
)

// OpenAICompat is a Client for any OpenAI-compatible chat-completions
// endpoint (OpenAI, Groq, OpenRouter, local gateways).
type OpenAICompat struct {
	BaseURL string
	APIKey  string
	Model   string

	// HTTPClient overrides the default transport, mainly for tests.
	HTTPClient *http.Client
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Infer posts the image as a base64 data URL alongside the prompt and
// parses the JSON reply.
func (c *OpenAICompat) Infer(ctx context.Context, image []byte, prompt string) (*Metadata, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		}},
		MaxTokens: 1000,
	})
	if err != nil {
		return nil, Errf(Malformed, "encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, Errf(Malformed, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 2 * time.Minute}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, Errf(Transient, "%v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Errf(Transient, "read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, Errf(kindForStatus(resp.StatusCode), "%s returned %d: %s", c.Model, resp.StatusCode, truncate(string(raw), 200))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, Errf(Transient, "decode response: %v", err)
	}
	if cr.Error != nil {
		return nil, Errf(Transient, "%s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return nil, Errf(Transient, "no choices in response")
	}

	text := cr.Choices[0].Message.Content
	klog.V(2).Infof("%s response: %s", c.Model, text)
	return ParseMetadata(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}
