package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/skypost/internal/models"
)

// Client talks to the text-generation gateway.
type Client struct {
	client    *resty.Client
	apiKey    string
	model     string
	baseURL   string
	verbosity string
	reasoning string
	maxTokens int
}

type gatewayRequest struct {
	Model           string `json:"model"`
	Input           string `json:"input"`
	Verbosity       string `json:"verbosity"`
	MaxOutputTokens int    `json:"max_output_tokens"`
	ReasoningEffort string `json:"reasoning_effort"`
}

type gatewayResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ClientOptions configures the gateway client.
type ClientOptions struct {
	APIKey    string
	Model     string
	BaseURL   string
	Verbosity string
	Reasoning string
	MaxTokens int
	Timeout   time.Duration
}

func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		client:    resty.New().SetTimeout(timeout),
		apiKey:    opts.APIKey,
		model:     opts.Model,
		baseURL:   opts.BaseURL,
		verbosity: opts.Verbosity,
		reasoning: opts.Reasoning,
		maxTokens: opts.MaxTokens,
	}
}

// Complete sends one prompt and returns the raw response text plus usage
// counters. Non-2xx statuses and gateway-reported errors both fail.
func (c *Client) Complete(ctx context.Context, prompt string) (string, models.Usage, error) {
	req := gatewayRequest{
		Model:           c.model,
		Input:           prompt,
		Verbosity:       c.verbosity,
		MaxOutputTokens: c.maxTokens,
		ReasoningEffort: c.reasoning,
	}

	var resp gatewayResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(req).
		SetResult(&resp).
		Post(c.baseURL + "/responses")

	if err != nil {
		return "", models.Usage{}, fmt.Errorf("generation request failed: %w", err)
	}
	if httpResp.IsError() {
		return "", models.Usage{}, fmt.Errorf("generation gateway returned status %d: %s", httpResp.StatusCode(), httpResp.String())
	}
	if resp.Error != nil {
		return "", models.Usage{}, fmt.Errorf("generation gateway error: %s", resp.Error.Message)
	}
	if resp.Text == "" {
		return "", models.Usage{}, fmt.Errorf("no text in generation response")
	}

	usage := models.Usage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	return resp.Text, usage, nil
}
