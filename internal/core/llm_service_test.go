package core

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("\"Sip often, "), genai.Text("smile more.\"\n")}},
		}},
	}
	if got := responseText(resp); got != "Sip often, smile more." {
		t.Fatalf("text = %q", got)
	}
	if got := responseText(&genai.GenerateContentResponse{}); got != "" {
		t.Fatalf("empty response text = %q", got)
	}
	if got := responseText(nil); got != "" {
		t.Fatalf("nil response text = %q", got)
	}
}
