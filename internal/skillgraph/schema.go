package skillgraph

// definitionsSchema is the JSON schema for a skill definitions file.
var definitionsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"skills": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"title": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"description": map[string]any{
						"type": "string",
					},
					"prerequisites": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"mastery_threshold": map[string]any{
						"type":             "number",
						"exclusiveMinimum": 0,
						"maximum":          1,
					},
					"difficulty_bands": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 5,
					},
					"bank_ref": map[string]any{
						"type": "string",
					},
				},
				"required":             []any{"id", "title", "mastery_threshold", "difficulty_bands"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"skills"},
	"additionalProperties": false,
}
