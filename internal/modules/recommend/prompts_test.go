package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildGeneratePromptFavorites(t *testing.T) {
	prompt := buildGeneratePrompt(&GenerateDTO{
		FavoriteMedia: []string{"The Matrix", "Inception", "Interstellar"},
		MediaTypes:    []string{FilterMovies},
	})

	assert.Contains(t, prompt, "User's favorite media: The Matrix, Inception, Interstellar")
	assert.Contains(t, prompt, "Recommendation types: movies")
	assert.Contains(t, prompt, "8-10 personalized recommendations")
	assert.Contains(t, prompt, `"recommendations"`)
	assert.NotContains(t, prompt, "Additional preferences:")
}

func TestBuildGeneratePromptAllTypesPhrase(t *testing.T) {
	prompt := buildGeneratePrompt(&GenerateDTO{
		FavoriteMedia: []string{"Harry Potter"},
		MediaTypes:    []string{FilterAll},
	})

	assert.Contains(t, prompt, "Recommendation types: all types of media (books, movies, songs, and TV shows)")
	assert.NotContains(t, prompt, "Recommendation types: all\n")
}

func TestBuildGeneratePromptAllWinsOverSpecific(t *testing.T) {
	prompt := buildGeneratePrompt(&GenerateDTO{
		FavoriteMedia: []string{"Harry Potter"},
		MediaTypes:    []string{FilterBooks, FilterAll},
	})

	assert.Contains(t, prompt, allMediaTypesPhrase)
}

func TestBuildGeneratePromptOptionalFields(t *testing.T) {
	prompt := buildGeneratePrompt(&GenerateDTO{
		FavoriteMedia: []string{"Dune"},
		Themes:        "science fiction, mind-bending",
		Plots:         "complex narratives",
		Genres:        "sci-fi, thriller",
		MediaTypes:    []string{FilterBooks, FilterMovies},
	})

	assert.Contains(t, prompt, "Additional preferences:")
	assert.Contains(t, prompt, "Themes: science fiction, mind-bending")
	assert.Contains(t, prompt, "Plot preferences: complex narratives")
	assert.Contains(t, prompt, "Genres: sci-fi, thriller")
	assert.Contains(t, prompt, "Recommendation types: books, movies")
}

func TestBuildGeneratePromptSkipsBlankOptionals(t *testing.T) {
	prompt := buildGeneratePrompt(&GenerateDTO{
		FavoriteMedia: []string{"Dune"},
		Themes:        "   ",
		Genres:        "fantasy",
		MediaTypes:    []string{FilterBooks},
	})

	assert.NotContains(t, prompt, "Themes:")
	assert.NotContains(t, prompt, "Plot preferences:")
	assert.Contains(t, prompt, "Genres: fantasy")
	assert.Equal(t, 1, strings.Count(prompt, "Additional preferences:"))
}

func TestOutputSchemaShape(t *testing.T) {
	schema := outputSchema()

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"recommendations"}, schema["required"])
	assert.Equal(t, false, schema["additionalProperties"])

	props := schema["properties"].(map[string]interface{})
	items := props["recommendations"].(map[string]interface{})["items"].(map[string]interface{})
	assert.Equal(t, false, items["additionalProperties"])
	assert.ElementsMatch(t, []string{"title", "type", "creator", "year", "description"}, items["required"].([]string))

	itemProps := items["properties"].(map[string]interface{})
	typeEnum := itemProps["type"].(map[string]interface{})["enum"].([]string)
	assert.ElementsMatch(t, []string{TypeBook, TypeMovie, TypeSong, TypeTVShow}, typeEnum)
}
