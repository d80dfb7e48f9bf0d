package tags

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/internal/repo"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
)

// Repository persists tags and their coffee associations.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// List returns every tag ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	if err := r.DB(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	return repo.First[models.Tag](ctx, r.Base, "id = ?", id)
}

func (r *Repository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	return repo.First[models.Tag](ctx, r.Base, "name = ?", name)
}

func (r *Repository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if err := r.DB(ctx).Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes the tag and its coffee links, reporting how many tags were removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	db := r.DB(ctx)
	if err := db.Where("tag_id = ?", id).Delete(&models.CoffeeTag{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id = ?", id).Delete(&models.Tag{})
	return res.RowsAffected, res.Error
}
