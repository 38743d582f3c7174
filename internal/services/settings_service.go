package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arcbsr/studentadmission-backend/internal/models"
	"github.com/arcbsr/studentadmission-backend/internal/utils/validator"
)

type SettingsService struct {
	repo SettingsRepository
}

func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// GetSettings returns stored settings, falling back to defaults when none
// were ever saved.
func (s *SettingsService) GetSettings(ctx context.Context) (*models.CompanySettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.CompanySettings{
				BaseCommissionAmount: models.DefaultBaseCommissionAmount,
			}, nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *SettingsService) SaveSettings(ctx context.Context, settings *models.CompanySettings) error {
	if err := validator.GetValidator().Struct(settings); err != nil {
		errs := validator.ParseErrors(err)
		return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(errs, " // "))
	}
	return s.repo.SaveSettings(ctx, settings)
}
