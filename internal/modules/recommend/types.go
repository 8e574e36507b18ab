package recommend

// Request-side media-type filter values. "all" is a wildcard over the four
// categories; the result-side enum in models.RecommendationItem stays
// separate on purpose.
const (
	FilterBooks   = "books"
	FilterMovies  = "movies"
	FilterSongs   = "songs"
	FilterTVShows = "tv_shows"
	FilterAll     = "all"
)

// Result-side item types the model may classify a recommendation as.
const (
	TypeBook   = "book"
	TypeMovie  = "movie"
	TypeSong   = "song"
	TypeTVShow = "tv_show"
)

// GenerateDTO is the input for the generate operation.
type GenerateDTO struct {
	FavoriteMedia []string `json:"favoriteMedia" binding:"required,min=1"`
	Themes        string   `json:"themes"`
	Plots         string   `json:"plots"`
	Genres        string   `json:"genres"`
	MediaTypes    []string `json:"mediaTypes"    binding:"required,min=1,dive,oneof=books movies songs tv_shows all"`
}

func isValidFilter(v string) bool {
	switch v {
	case FilterBooks, FilterMovies, FilterSongs, FilterTVShows, FilterAll:
		return true
	}
	return false
}
