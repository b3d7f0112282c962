package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/workflow"
	"google.golang.org/genai"
)

// Interface compliance checks.
var (
	_ workflow.Provider       = (*Client)(nil)
	_ workflow.Suggester      = (*Client)(nil)
	_ workflow.ImageGenerator = (*Client)(nil)
)

// Client talks to the Gemini API. A Client built without an API key is
// valid; every call on it fails with [workflow.ErrMissingCredential] so the
// UI can explain the problem in place of a reply.
type Client struct {
	client     *genai.Client
	model      string
	imageModel string
	baseURL    string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the chat and suggestion model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithImageModel sets the image model ID. Default is imagen-3.0-generate-002.
func WithImageModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.imageModel = model
		}
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		model:      defaultModel,
		imageModel: defaultImageModel,
	}
	for _, o := range opts {
		o(c)
	}
	if apiKey == "" {
		return c, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.client = gc
	return c, nil
}

// Stream sends a streaming chat request and returns a [workflow.Stream]
// that emits text deltas.
func (c *Client) Stream(ctx context.Context, req workflow.Request) (workflow.Stream, error) {
	if c.client == nil {
		return nil, fmt.Errorf("gemini: %w", workflow.ErrMissingCredential)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	model := req.Model
	if model == "" {
		model = c.model
	}
	contents := append(ConvertHistory(req.History), genai.NewContentFromText(req.Prompt, genai.RoleUser))
	iter := c.client.Models.GenerateContentStream(ctx, model, contents, buildConfig(req))
	return newStream(ctx, iter), nil
}

// Suggest returns a single completion for prompt.
func (c *Client) Suggest(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("gemini: %w", workflow.ErrMissingCredential)
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", convertError(err))
	}
	if blocked := blockReason(resp); blocked != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", blocked)
	}
	return responseText(resp), nil
}

// GenerateImage renders one square JPEG for prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*workflow.Image, error) {
	if c.client == nil {
		return nil, fmt.Errorf("gemini: %w", workflow.ErrMissingCredential)
	}
	resp, err := c.client.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: imageMIMEType,
		AspectRatio:    imageAspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", convertError(err))
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("gemini: no image in response")
	}
	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = imageMIMEType
	}
	return &workflow.Image{Data: img.ImageBytes, MIMEType: mime}, nil
}

func buildConfig(req workflow.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	return config
}

// ConvertHistory converts workflow Messages to genai Contents. Messages with
// empty text are dropped.
// Exported for testing.
func ConvertHistory(msgs []workflow.Message) []*genai.Content {
	var result []*genai.Content
	for _, m := range msgs {
		if m.Text == "" {
			continue
		}
		role := genai.RoleUser
		if m.Role == workflow.RoleModel {
			role = genai.RoleModel
		}
		result = append(result, &genai.Content{
			Role:  string(role),
			Parts: []*genai.Part{{Text: m.Text}},
		})
	}
	return result
}

// responseText concatenates the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		text += p.Text
	}
	return text
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) > 0 || resp.PromptFeedback == nil {
		return ""
	}
	return string(resp.PromptFeedback.BlockReason)
}
