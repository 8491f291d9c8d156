// Package aiclue generates (answer, clue) candidates from a topic, URL,
// PDF, or free text input through a VertexAI-backed Gemini model. It is
// the system's one genuinely external collaborator: every other package
// is pure compute over values already in hand.
package aiclue

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
)

// InputType selects how InputValue should be interpreted.
type InputType string

const (
	Topic InputType = "TOPIC"
	URL   InputType = "URL"
	PDF   InputType = "PDF"
	Text  InputType = "TEXT"
)

// Request describes one clue-generation call.
type Request struct {
	InputType        InputType
	InputValue       string
	NumItems         int
	UserInstructions string
}

// Candidate is one (answer, clue) pair proposed by the model, not yet
// validated or graphemized.
type Candidate struct {
	Answer string `json:"answer"`
	Clue   string `json:"clue"`
}

// GenerationError wraps a failure to extract usable clues from the model,
// carrying the raw response text for diagnostics.
type GenerationError struct {
	Raw string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("aiclue: %v (raw response: %s)", e.Err, e.Raw)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Client wraps the Google GenAI client for VertexAI.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates a client using Application Default Credentials. Set
// GOOGLE_APPLICATION_CREDENTIALS to the service account key file path.
func NewClient(ctx context.Context, projectID, region string) (*Client, error) {
	if region == "" {
		region = defaultRegion
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client:    client,
		modelName: defaultModel,
	}, nil
}

// Close does nothing and always returns nil.
func (c *Client) Close() error {
	return nil
}

// RawResult is the unparsed model interaction, persisted verbatim into
// gemini_raw.json by the caller.
type RawResult struct {
	Prompt   string
	Model    string
	Response string
}

// Generate asks the model for req.NumItems (answer, clue) candidates
// about req.InputValue and returns the parsed list alongside the raw
// interaction for persistence. A malformed or empty response is returned
// as a *GenerationError naming the raw text, matching the teacher's
// AnalyzeImage posture of wrapping the raw response into the error rather
// than discarding it.
func (c *Client) Generate(ctx context.Context, req Request) ([]Candidate, RawResult, error) {
	prompt := buildPrompt(req)

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.4)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, RawResult{}, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	raw := RawResult{Prompt: prompt, Model: c.modelName, Response: text}

	if text == "" {
		return nil, raw, &GenerationError{Raw: text, Err: fmt.Errorf("empty gemini response")}
	}

	var candidates []Candidate
	if err := json.Unmarshal([]byte(text), &candidates); err != nil {
		return nil, raw, &GenerationError{Raw: text, Err: fmt.Errorf("parse candidate JSON: %w", err)}
	}
	if len(candidates) == 0 {
		return nil, raw, &GenerationError{Raw: text, Err: fmt.Errorf("no candidates in response")}
	}

	return candidates, raw, nil
}

func buildPrompt(req Request) string {
	instructions := req.UserInstructions
	if instructions == "" {
		instructions = "Keep clues concise and unambiguous."
	}

	return fmt.Sprintf(`Generate exactly %d crossword (answer, clue) pairs about the following %s:

%s

Rules:
- Every answer must be a single word or short phrase with no punctuation.
- %s
- Respond ONLY with a JSON array of objects shaped {"answer": "...", "clue": "..."}, no markdown, no commentary.`,
		req.NumItems, inputTypeLabel(req.InputType), req.InputValue, instructions)
}

func inputTypeLabel(t InputType) string {
	switch t {
	case URL:
		return "web page"
	case PDF:
		return "document"
	case Text:
		return "text"
	default:
		return "topic"
	}
}
