package ai

// JSON Schemas enforced server-side via structured outputs. Each matches its
// raw response struct exactly so responses can be parsed directly.

var queryPlanSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"location": map[string]any{"type": "string"},
		"queries": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []string{"location", "queries"},
}

var jobSummarySchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"key_requirements": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"role_details": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []string{"key_requirements", "role_details"},
}

var relevanceSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"relevant":   map[string]any{"type": "boolean"},
		"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		"explanation": map[string]any{
			"type": "string",
		},
	},
	"required": []string{"relevant", "confidence", "explanation"},
}
