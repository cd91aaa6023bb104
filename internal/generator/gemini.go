package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/qodex-ai/apimesh/internal/swagger"
)

const geminiPrompt = `You are an API documentation assistant. Given the source
code of one HTTP endpoint handler and the definitions of the symbols it
depends on, produce an OpenAPI 3.0 fragment for exactly that endpoint.

Respond with a single JSON object of the form:
{"paths": {"<route>": {"<method>": { ...operation object... }}}}

Use the provided route and method verbatim as the keys. Document path and
query parameters, the request body when the handler reads one, and the
response shapes the handler actually produces. Do not invent endpoints that
are not in the code. Respond with JSON only, no prose and no markdown fences.`

// GeminiGenerator documents endpoints with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a generator backed by the Gemini API. The key is
// read from the environment by the genai client when apiKey is empty.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// GenerateOperation prompts the model with the endpoint's sliced context and
// parses the JSON fragment out of the reply. Transient API failures are
// retried with exponential backoff. A reply that is not parseable JSON
// degrades to an empty fragment for the route so the endpoint still appears
// in the final document.
func (g *GeminiGenerator) GenerateOperation(ctx context.Context, req Request) (*swagger.Fragment, error) {
	prompt := buildPrompt(req)

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
			}
		}

		resp, err := g.client.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
		)
		if err != nil {
			lastErr = err
			log.Printf("gemini call failed for %s %s (attempt %d): %v", req.Method, req.Route, attempt+1, err)
			continue
		}

		return parseFragment(resp.Text(), req.Route), nil
	}
	return nil, fmt.Errorf("generate operation for %s %s: %w", req.Method, req.Route, lastErr)
}

func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(geminiPrompt)
	fmt.Fprintf(&b, "\n\nEndpoint: %s %s\n", strings.ToUpper(req.Method), req.Route)
	if req.FilePath != "" {
		fmt.Fprintf(&b, "Defined in: %s\n", req.FilePath)
	}
	b.WriteString("\nHandler source:\n")
	b.WriteString(strings.Join(req.HandlerLines, "\n"))
	for i, block := range req.ContextBlocks {
		fmt.Fprintf(&b, "\n\nDependency context %d:\n", i+1)
		b.WriteString(strings.Join(block, "\n"))
	}
	return b.String()
}

// parseFragment extracts the outermost JSON object from the model reply.
// Anything unusable becomes an empty fragment keyed by the route, so a noisy
// reply never loses the endpoint entirely.
func parseFragment(text, route string) *swagger.Fragment {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var fragment swagger.Fragment
		if err := json.Unmarshal([]byte(text[start:end+1]), &fragment); err == nil && len(fragment.Paths) > 0 {
			return &fragment
		}
	}
	log.Printf("unparseable model reply for %s; emitting empty fragment", route)
	return &swagger.Fragment{Paths: map[string]swagger.PathItem{route: {}}}
}
