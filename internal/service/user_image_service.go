package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"odontofast/internal/domain"
	"odontofast/internal/repository"
)

var (
	ErrImageNotFound = errors.New("user image not found")
	ErrImageExists   = errors.New("user image already exists")
	ErrInvalidImage  = errors.New("invalid image path")
)

// UserImageService gestiona la imagen de perfil. Crear exige que no exista
// imagen previa; actualizar y borrar exigen usuario existente.
type UserImageService struct {
	logger *zap.Logger
	images repository.UserImageRepository
	users  repository.UserRepository
}

func NewUserImageService(logger *zap.Logger, images repository.UserImageRepository, users repository.UserRepository) *UserImageService {
	return &UserImageService{logger: logger, images: images, users: users}
}

func (s *UserImageService) GetImage(ctx context.Context, userID int64) (domain.UserImage, error) {
	image, err := s.images.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserImage{}, ErrImageNotFound
		}
		return domain.UserImage{}, err
	}
	return image, nil
}

func (s *UserImageService) CreateImage(ctx context.Context, userID int64, imagePath string) (domain.UserImage, error) {
	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return domain.UserImage{}, ErrInvalidImage
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return domain.UserImage{}, err
	}

	exists, err := s.images.Exists(ctx, userID)
	if err != nil {
		return domain.UserImage{}, err
	}
	if exists {
		return domain.UserImage{}, ErrImageExists
	}

	image := domain.UserImage{UserID: userID, ImagePath: imagePath}
	if err := s.images.Create(ctx, image); err != nil {
		return domain.UserImage{}, err
	}
	return image, nil
}

func (s *UserImageService) UpdateImage(ctx context.Context, userID int64, imagePath string) (domain.UserImage, error) {
	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return domain.UserImage{}, ErrInvalidImage
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return domain.UserImage{}, err
	}

	image := domain.UserImage{UserID: userID, ImagePath: imagePath}
	updated, err := s.images.Update(ctx, image)
	if err != nil {
		return domain.UserImage{}, err
	}
	if !updated {
		return domain.UserImage{}, ErrImageNotFound
	}
	return image, nil
}

func (s *UserImageService) DeleteImage(ctx context.Context, userID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	deleted, err := s.images.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrImageNotFound
	}
	return nil
}

func (s *UserImageService) HasImage(ctx context.Context, userID int64) (bool, error) {
	return s.images.Exists(ctx, userID)
}

func (s *UserImageService) requireUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
