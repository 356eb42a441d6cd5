package repository

import (
	"errors"
	"strings"

	tagdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	Create(tag *tagdomain.Tag) error
	Update(tag *tagdomain.Tag) error
	FindByID(id uint) (*tagdomain.Tag, error)
	FindByName(name string) (*tagdomain.Tag, error)
	List() ([]tagdomain.Tag, error)
	// FindOrCreate returns one tag per distinct non-blank name, creating
	// the missing ones.
	FindOrCreate(names []string) ([]tagdomain.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) Create(tag *tagdomain.Tag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) Update(tag *tagdomain.Tag) error {
	return r.db.Save(tag).Error
}

func (r *tagRepository) FindByID(id uint) (*tagdomain.Tag, error) {
	var tag tagdomain.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByName(name string) (*tagdomain.Tag, error) {
	var tag tagdomain.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) List() ([]tagdomain.Tag, error) {
	var tags []tagdomain.Tag
	err := r.db.Order("name").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) FindOrCreate(names []string) ([]tagdomain.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	var wanted []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		wanted = append(wanted, n)
	}
	if len(wanted) == 0 {
		return []tagdomain.Tag{}, nil
	}

	missing := make([]tagdomain.Tag, 0, len(wanted))
	for _, n := range wanted {
		missing = append(missing, tagdomain.Tag{Name: n})
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&missing).Error; err != nil {
		return nil, err
	}

	var tags []tagdomain.Tag
	if err := r.db.Where("name IN ?", wanted).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
