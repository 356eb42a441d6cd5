package usecase

import (
	"errors"
	"strings"
	"unicode/utf8"

	tagdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"

	"gorm.io/gorm"
)

const maxNameLength = 50

type TagUsecase interface {
	Create(name string) (*tagdomain.Tag, error)
	GetByName(name string) (*tagdomain.Tag, error)
	List() ([]tagdomain.Tag, error)
	Rename(id uint, name string) (*tagdomain.Tag, error)
}

type tagUsecase struct {
	tagRepo repository.TagRepository
}

func NewTagUsecase(tagRepo repository.TagRepository) TagUsecase {
	return &tagUsecase{tagRepo: tagRepo}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.Validation("tag name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", apperror.Validation("tag name must be at most %d characters", maxNameLength)
	}
	return name, nil
}

func (u *tagUsecase) Create(name string) (*tagdomain.Tag, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	existing, err := u.tagRepo.FindByName(name)
	if err != nil {
		return nil, apperror.Internal("failed to load tag", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("tag already exists")
	}

	tag := &tagdomain.Tag{Name: name}
	if err := u.tagRepo.Create(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("tag already exists")
		}
		return nil, apperror.Internal("failed to create tag", err)
	}
	return tag, nil
}

func (u *tagUsecase) GetByName(name string) (*tagdomain.Tag, error) {
	tag, err := u.tagRepo.FindByName(strings.TrimSpace(name))
	if err != nil {
		return nil, apperror.Internal("failed to load tag", err)
	}
	if tag == nil {
		return nil, apperror.NotFound("tag not found")
	}
	return tag, nil
}

func (u *tagUsecase) List() ([]tagdomain.Tag, error) {
	tags, err := u.tagRepo.List()
	if err != nil {
		return nil, apperror.Internal("failed to list tags", err)
	}
	return tags, nil
}

func (u *tagUsecase) Rename(id uint, name string) (*tagdomain.Tag, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	tag, err := u.tagRepo.FindByID(id)
	if err != nil {
		return nil, apperror.Internal("failed to load tag", err)
	}
	if tag == nil {
		return nil, apperror.NotFound("tag not found")
	}

	other, err := u.tagRepo.FindByName(name)
	if err != nil {
		return nil, apperror.Internal("failed to load tag", err)
	}
	if other != nil && other.ID != id {
		return nil, apperror.Conflict("tag already exists")
	}

	tag.Name = name
	if err := u.tagRepo.Update(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("tag already exists")
		}
		return nil, apperror.Internal("failed to update tag", err)
	}
	return tag, nil
}
