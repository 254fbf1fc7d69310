package vision

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"
	"k8s.io/klog/v2"
)

// Gemini is a Client backed by the Google GenAI API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini client for the given model using apiKey.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: model}, nil
}

// Infer sends the image and prompt to the model and parses its JSON reply.
func (g *Gemini) Infer(ctx context.Context, image []byte, prompt string) (*Metadata, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(image, "image/jpeg"),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, classifyGenAIErr(err)
	}

	text := resp.Text()
	klog.V(2).Infof("gemini response: %s", text)
	if text == "" {
		return nil, Errf(Transient, "empty response from %s", g.model)
	}
	return ParseMetadata(text)
}

func classifyGenAIErr(err error) error {
	var ae genai.APIError
	if !errors.As(err, &ae) {
		return Errf(Transient, "%v", err)
	}
	return Errf(kindForStatus(ae.Code), "%s (%d)", ae.Message, ae.Code)
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusTooManyRequests:
		return RateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return InvalidAuth
	case http.StatusBadRequest:
		return Malformed
	default:
		return Transient
	}
}
