package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mediamuse/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrInvalidInput marks validation failures surfaced before any model
	// call or store write.
	ErrInvalidInput = errors.New("invalid input")
	// ErrGeneration marks upstream-model and malformed-output failures.
	ErrGeneration = errors.New("failed to generate recommendations")
)

// Service implements the generate and history operations.
type Service struct {
	db        *gorm.DB
	completer Completer
	logger    *zap.Logger
}

func NewService(db *gorm.DB, completer Completer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, completer: completer, logger: logger}
}

// Generate builds a prompt from the user's preferences, calls the model under
// the strict output schema, persists one session row and returns the parsed
// items. Exactly one model call and at most one store write per invocation.
func (s *Service) Generate(ctx context.Context, userID string, dto *GenerateDTO) ([]models.RecommendationItem, error) {
	if err := validateGenerateInput(dto); err != nil {
		return nil, err
	}

	content, err := s.completer.Complete(ctx, CompletionRequest{
		System:     generateSystemPrompt,
		Prompt:     buildGeneratePrompt(dto),
		SchemaName: outputSchemaName,
		Schema:     outputSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var parsed struct {
		Recommendations []models.RecommendationItem `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON from model: %v", ErrGeneration, err)
	}

	row := models.RecommendationSessionModel{
		UserID:        userID,
		FavoriteMedia: models.StringArray(dto.FavoriteMedia),
		Themes:        nullableText(dto.Themes),
		Plots:         nullableText(dto.Plots),
		Genres:        nullableText(dto.Genres),
		MediaTypes:    models.StringArray(dto.MediaTypes),
		Results:       models.RecommendationList(parsed.Recommendations),
	}
	if err := s.db.Create(&row).Error; err != nil {
		// The generated items are still returned; the lost row is logged,
		// not compensated (no transaction spans the external model call).
		s.logger.Error("recommendation session persist failed",
			zap.Error(err),
			zap.String("user_id", userID),
		)
	}

	return parsed.Recommendations, nil
}

// History returns all sessions owned by userID, newest first, with the
// serialized columns decoded. A user with no sessions gets an empty slice.
func (s *Service) History(userID string) ([]models.RecommendationSessionModel, error) {
	sessions := make([]models.RecommendationSessionModel, 0)
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// validateGenerateInput re-checks the transport-layer contract so the
// operations stay safe when called without the binding layer.
func validateGenerateInput(dto *GenerateDTO) error {
	if dto == nil || len(dto.FavoriteMedia) == 0 {
		return fmt.Errorf("%w: favoriteMedia must contain at least one item", ErrInvalidInput)
	}
	for _, fav := range dto.FavoriteMedia {
		if strings.TrimSpace(fav) == "" {
			return fmt.Errorf("%w: favoriteMedia entries must not be blank", ErrInvalidInput)
		}
	}
	if len(dto.MediaTypes) == 0 {
		return fmt.Errorf("%w: mediaTypes must contain at least one value", ErrInvalidInput)
	}
	for _, mt := range dto.MediaTypes {
		if !isValidFilter(mt) {
			return fmt.Errorf("%w: unknown media type %q", ErrInvalidInput, mt)
		}
	}
	return nil
}

func nullableText(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
