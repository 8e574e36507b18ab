package recommend

import (
	"fmt"
	"strings"
)

const generateSystemPrompt = "You are a helpful media recommendation assistant. Always respond with valid JSON."

// allMediaTypesPhrase replaces the raw "all" wildcard in the rendered prompt.
const allMediaTypesPhrase = "all types of media (books, movies, songs, and TV shows)"

const generatePromptTemplate = `You are a media recommendation expert. Based on the user's preferences, provide 8-10 personalized recommendations.

User's favorite media: %s
%s
Recommendation types: %s

Provide recommendations in the following JSON format:
{
  "recommendations": [
    {
      "title": "Title of the media",
      "type": "book" | "movie" | "song" | "tv_show",
      "creator": "Author/Director/Artist name",
      "year": "Release year (if known)",
      "description": "2-3 sentence description explaining the plot/content and why it matches the user's preferences"
    }
  ]
}

Make sure each recommendation is relevant and includes a compelling explanation.`

// buildGeneratePrompt renders the user instruction sent to the model.
func buildGeneratePrompt(dto *GenerateDTO) string {
	mediaTypesStr := strings.Join(dto.MediaTypes, ", ")
	for _, t := range dto.MediaTypes {
		if t == FilterAll {
			mediaTypesStr = allMediaTypesPhrase
			break
		}
	}

	favoritesStr := strings.Join(dto.FavoriteMedia, ", ")

	lines := make([]string, 0, 3)
	if strings.TrimSpace(dto.Themes) != "" {
		lines = append(lines, "Themes: "+dto.Themes)
	}
	if strings.TrimSpace(dto.Plots) != "" {
		lines = append(lines, "Plot preferences: "+dto.Plots)
	}
	if strings.TrimSpace(dto.Genres) != "" {
		lines = append(lines, "Genres: "+dto.Genres)
	}
	additional := ""
	if len(lines) > 0 {
		additional = "\nAdditional preferences:\n" + strings.Join(lines, "\n") + "\n"
	}

	return fmt.Sprintf(generatePromptTemplate, favoritesStr, additional, mediaTypesStr)
}
