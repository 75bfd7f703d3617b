package llm

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jasonyao09/active-recall-study-assistant/config"

	"github.com/go-resty/resty/v2"
)

// Gateway is the global model client, initialized in main
var Gateway *Client

// Client talks to a local Ollama instance over its chat API. One completion
// call per request, no streaming.
type Client struct {
	baseURL string
	model   string
	timeout time.Duration
	http    *resty.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Init builds the global Gateway from loaded configuration
func Init() {
	Gateway = NewClient(
		config.AppConfig.OllamaBaseURL,
		config.AppConfig.OllamaModel,
		time.Duration(config.AppConfig.LLMTimeoutSeconds)*time.Second,
	)
}

// NewClient creates a model client for the given Ollama endpoint
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		http:    resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")),
	}
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.model
}

// Complete sends one chat completion request and returns the raw response
// text. Transient failures (unreachable daemon, timeout) are retried once with
// a fresh timeout; local-model cold starts make first attempts flaky.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := c.complete(ctx, systemPrompt, userPrompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		// Never retry on caller cancellation or parse-level failures.
		if ctx.Err() != nil || !errors.Is(err, ErrModelUnavailable) && !errors.Is(err, ErrModelTimeout) {
			return "", err
		}
		if attempt == 0 {
			log.Printf("Model call failed (%v), retrying once", err)
		}
	}
	return "", lastErr
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []chatMessage{}
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	var result chatResponse
	resp, err := c.http.R().
		SetContext(callCtx).
		SetBody(chatRequest{Model: c.model, Messages: messages, Stream: false}).
		SetResult(&result).
		Post("/api/chat")
	if err != nil {
		if callCtx.Err() != nil && ctx.Err() == nil {
			return "", ErrModelTimeout
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", ErrModelUnavailable
	}

	if resp.StatusCode() != http.StatusOK {
		log.Printf("Ollama returned status %d: %s", resp.StatusCode(), resp.String())
		return "", ErrModelUnavailable
	}

	if strings.TrimSpace(result.Message.Content) == "" {
		return "", ErrMalformedResponse
	}

	return result.Message.Content, nil
}

// Status reports whether Ollama is reachable and which models it serves
func (c *Client) Status(ctx context.Context) (bool, []string, error) {
	callCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result tagsResponse
	resp, err := c.http.R().
		SetContext(callCtx).
		SetResult(&result).
		Get("/api/tags")
	if err != nil {
		return false, nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return false, nil, ErrModelUnavailable
	}

	names := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		names = append(names, m.Name)
	}
	return true, names, nil
}

// ModelAvailable reports whether the configured model appears in the tag list
func (c *Client) ModelAvailable(names []string) bool {
	for _, name := range names {
		if strings.Contains(name, c.model) {
			return true
		}
	}
	return false
}
