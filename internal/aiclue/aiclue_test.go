package aiclue

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestBuildPrompt_IncludesCountAndInput(t *testing.T) {
	prompt := buildPrompt(Request{
		InputType:  Topic,
		InputValue: "ocean animals",
		NumItems:   12,
	})

	if !strings.Contains(prompt, "12") {
		t.Errorf("prompt missing requested count: %s", prompt)
	}
	if !strings.Contains(prompt, "ocean animals") {
		t.Errorf("prompt missing input value: %s", prompt)
	}
	if !strings.Contains(prompt, "topic") {
		t.Errorf("prompt missing input type label: %s", prompt)
	}
}

func TestBuildPrompt_UsesDefaultInstructionsWhenUnset(t *testing.T) {
	prompt := buildPrompt(Request{InputType: URL, InputValue: "https://example.com", NumItems: 5})
	if !strings.Contains(prompt, "concise and unambiguous") {
		t.Errorf("expected default instructions in prompt: %s", prompt)
	}
}

func TestGenerationError_WrapsRawResponse(t *testing.T) {
	err := &GenerationError{Raw: "not json", Err: errUnparseable}
	if !strings.Contains(err.Error(), "not json") {
		t.Errorf("error message should carry raw response: %s", err.Error())
	}
}

var errUnparseable = &testError{"unparseable"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

// TestGenerate_Integration exercises a live VertexAI call when
// GCP_PROJECT_ID is set, mirroring the teacher's own integration-test
// posture for Gemini calls.
func TestGenerate_Integration(t *testing.T) {
	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		t.Skip("GCP_PROJECT_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, projectID, "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()

	candidates, _, err := client.Generate(ctx, Request{
		InputType:  Topic,
		InputValue: "solar system",
		NumItems:   5,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatalf("expected at least one candidate")
	}
}
