package services

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arcbsr/studentadmission-backend/internal/models"
	"github.com/arcbsr/studentadmission-backend/internal/utils"
)

type UniversityRepository interface {
	GetAllUniversities(ctx context.Context) ([]models.University, error)
	GetActiveUniversities(ctx context.Context) ([]models.University, error)
	GetUniversityByID(ctx context.Context, id primitive.ObjectID) (*models.University, error)
	CreateUniversity(ctx context.Context, university *models.University) error
	UpdateUniversity(ctx context.Context, university *models.University) error
	UpdateUniversityStatus(ctx context.Context, id primitive.ObjectID, isActive bool) error
	DeleteUniversity(ctx context.Context, id primitive.ObjectID) error
}

const activeUniversitiesCacheKey = "universities:active"

type UniversityService struct {
	repo  UniversityRepository
	redis *utils.RedisClient
}

func NewUniversityService(repo UniversityRepository, redis *utils.RedisClient) *UniversityService {
	return &UniversityService{repo: repo, redis: redis}
}

func (s *UniversityService) GetAllUniversities(ctx context.Context) ([]models.University, error) {
	return s.repo.GetAllUniversities(ctx)
}

// GetActiveUniversities serves the public catalog with a short Redis cache
// in front of it.
func (s *UniversityService) GetActiveUniversities(ctx context.Context) ([]models.University, error) {
	var cached []models.University
	if err := s.redis.Get(ctx, activeUniversitiesCacheKey, &cached); err == nil {
		return cached, nil
	}

	universities, err := s.repo.GetActiveUniversities(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, activeUniversitiesCacheKey, universities, utils.CatalogCacheDuration); err != nil {
		log.Printf("[UNIVERSITY] Failed to cache active universities: %v", err)
	}
	return universities, nil
}

func (s *UniversityService) GetUniversityByID(ctx context.Context, id string) (*models.University, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}
	return s.repo.GetUniversityByID(ctx, objID)
}

func (s *UniversityService) CreateUniversity(ctx context.Context, university *models.University) error {
	if err := university.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateUniversity(ctx, university); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *UniversityService) UpdateUniversity(ctx context.Context, university *models.University) error {
	if university.ID.IsZero() {
		return models.ErrInvalidID
	}
	if err := university.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateUniversity(ctx, university); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *UniversityService) UpdateUniversityStatus(ctx context.Context, id string, isActive bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	if err := s.repo.UpdateUniversityStatus(ctx, objID, isActive); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *UniversityService) DeleteUniversity(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	if err := s.repo.DeleteUniversity(ctx, objID); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *UniversityService) invalidateCache(ctx context.Context) {
	if err := s.redis.Delete(ctx, activeUniversitiesCacheKey); err != nil {
		log.Printf("[UNIVERSITY] Failed to invalidate catalog cache: %v", err)
	}
}
