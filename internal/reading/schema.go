package reading

import "github.com/abhisek/lezen/internal/llm"

// ContentSchema defines the JSON the model must return.
var ContentSchema = &llm.Schema{
	Name:        "reading-comprehension",
	Description: "A Dutch reading passage with multiple-choice comprehension questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Een pakkende titel voor de tekst.",
			},
			"text": map[string]any{
				"type":        "string",
				"description": "De leestekst, opgedeeld in alinea's.",
			},
			"questions": map[string]any{
				"type":        "array",
				"description": "De meerkeuzevragen over de tekst.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "De vraag.",
						},
						"options": map[string]any{
							"type":        "object",
							"description": "Vier antwoordopties (A, B, C, D).",
							"properties": map[string]any{
								"A": map[string]any{"type": "string"},
								"B": map[string]any{"type": "string"},
								"C": map[string]any{"type": "string"},
								"D": map[string]any{"type": "string"},
							},
							"required":             []any{"A", "B", "C", "D"},
							"additionalProperties": false,
						},
						"answer": map[string]any{
							"type":        "string",
							"enum":        []any{"A", "B", "C", "D"},
							"description": "De letter van het juiste antwoord.",
						},
					},
					"required":             []any{"question", "options", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "text", "questions"},
		"additionalProperties": false,
	},
}
