package ai

import "context"

// Request is one structured-generation call: a prompt plus the JSON schema
// the response must conform to.
type Request struct {
	System     string         // optional system instruction
	Prompt     string         // user prompt
	SchemaName string         // schema identifier sent to the endpoint
	Schema     map[string]any // JSON Schema enforced server-side
}

// Provider submits a structured-generation request and returns the raw JSON
// text of the response. The planner, summarizer and classifier all sit
// behind this one interface, so tests can swap in deterministic stubs.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}
