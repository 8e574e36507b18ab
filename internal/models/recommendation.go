package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// RecommendationItem is one generated recommendation. Type is the concrete
// per-item classification (book|movie|song|tv_show) — narrower than the
// request-side category filter, which also carries plural names and "all".
// Year is free text: the model may return ranges or "unknown".
type RecommendationItem struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Creator     string `json:"creator"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

// RecommendationList stores the generated items as JSON text in a
// relational column. Items are never queried individually.
type RecommendationList []RecommendationItem

func (l RecommendationList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]RecommendationItem(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *RecommendationList) Scan(value interface{}) error {
	if l == nil {
		return fmt.Errorf("models.RecommendationList: Scan on nil pointer")
	}
	if value == nil {
		*l = []RecommendationItem{}
		return nil
	}

	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("models.RecommendationList: unsupported Scan type %T", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*l = []RecommendationItem{}
		return nil
	}

	var items []RecommendationItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return fmt.Errorf("models.RecommendationList: %w", err)
	}
	*l = items
	return nil
}

// RecommendationSessionModel is one generate-request-and-result record.
// Rows are append-only: no update or delete path exists.
type RecommendationSessionModel struct {
	Base
	UserID        string             `json:"user_id"        gorm:"index;not null"`
	FavoriteMedia StringArray        `json:"favorite_media" gorm:"type:text;not null"`
	Themes        *string            `json:"themes"         gorm:"type:text"`
	Plots         *string            `json:"plots"          gorm:"type:text"`
	Genres        *string            `json:"genres"         gorm:"type:text"`
	MediaTypes    StringArray        `json:"media_types"    gorm:"type:text;not null"`
	Results       RecommendationList `json:"results"        gorm:"type:longtext;not null"`
}

func (RecommendationSessionModel) TableName() string { return "recommendation_sessions" }
