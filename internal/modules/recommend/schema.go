package recommend

const outputSchemaName = "media_recommendations"

// outputSchema declares the strict output contract for the model: an object
// with a "recommendations" array, every field required, nothing extra
// permitted anywhere.
func outputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"recommendations": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"title": map[string]interface{}{"type": "string"},
						"type": map[string]interface{}{
							"type": "string",
							"enum": []string{TypeBook, TypeMovie, TypeSong, TypeTVShow},
						},
						"creator":     map[string]interface{}{"type": "string"},
						"year":        map[string]interface{}{"type": "string"},
						"description": map[string]interface{}{"type": "string"},
					},
					"required":             []string{"title", "type", "creator", "year", "description"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"recommendations"},
		"additionalProperties": false,
	}
}
