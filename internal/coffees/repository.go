package coffees

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/internal/repo"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/enums"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/pagination"
)

// Repository persists coffees and their tag links. Reads return flat rows;
// the service assembles them into aggregates.
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

const catalogOrder = "coffees.created_at DESC, coffees.id ASC"

func (r *Repository) List(ctx context.Context) ([]models.Coffee, error) {
	var out []models.Coffee
	if err := r.DB(ctx).Order(catalogOrder).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coffee, error) {
	return repo.First[models.Coffee](ctx, r.Base, "id = ?", id)
}

func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Coffee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Coffee
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, coffee *models.Coffee) (*models.Coffee, error) {
	if err := r.DB(ctx).Create(coffee).Error; err != nil {
		return nil, err
	}
	return coffee, nil
}

// Update writes the supplied columns; updated_at is maintained by GORM.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	return r.DB(ctx).Model(&models.Coffee{}).Where("id = ?", id).Updates(columns).Error
}

// Delete removes the coffee with its tag links and open cart lines. Order
// snapshots keep their rows with coffee_id cleared.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	db := r.DB(ctx)
	if err := db.Where("coffee_id = ?", id).Delete(&models.CoffeeTag{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("coffee_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&models.OrderItem{}).Where("coffee_id = ?", id).Update("coffee_id", nil).Error; err != nil {
		return 0, err
	}
	res := db.Where("id = ?", id).Delete(&models.Coffee{})
	return res.RowsAffected, res.Error
}

// ExistingTagIDs returns which of ids are present in the tags table.
func (r *Repository) ExistingTagIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	found := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []uuid.UUID
	if err := r.DB(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &rows).Error; err != nil {
		return nil, err
	}
	for _, id := range rows {
		found[id] = struct{}{}
	}
	return found, nil
}

func (r *Repository) TagIDs(ctx context.Context, coffeeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.DB(ctx).Model(&models.CoffeeTag{}).Where("coffee_id = ?", coffeeID).Pluck("tag_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) AddTags(ctx context.Context, coffeeID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.CoffeeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, models.CoffeeTag{CoffeeID: coffeeID, TagID: tagID})
	}
	return r.DB(ctx).Create(&links).Error
}

func (r *Repository) RemoveTags(ctx context.Context, coffeeID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return r.DB(ctx).Where("coffee_id = ? AND tag_id IN ?", coffeeID, tagIDs).Delete(&models.CoffeeTag{}).Error
}

// TagRow is one coffee/tag pair from the association join.
type TagRow struct {
	CoffeeID uuid.UUID
	TagID    uuid.UUID
	Name     string
}

// TagsForCoffees loads tag names for the given coffees, grouped by coffee.
func (r *Repository) TagsForCoffees(ctx context.Context, coffeeIDs []uuid.UUID) (map[uuid.UUID][]TagRow, error) {
	grouped := make(map[uuid.UUID][]TagRow, len(coffeeIDs))
	if len(coffeeIDs) == 0 {
		return grouped, nil
	}
	var rows []TagRow
	if err := r.DB(ctx).
		Table("coffee_tags AS ct").
		Select("ct.coffee_id AS coffee_id, t.id AS tag_id, t.name AS name").
		Joins("JOIN tags t ON t.id = ct.tag_id").
		Where("ct.coffee_id IN ?", coffeeIDs).
		Order("t.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		grouped[row.CoffeeID] = append(grouped[row.CoffeeID], row)
	}
	return grouped, nil
}

// SearchFilter is the normalized catalog search input.
type SearchFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Name      string
	Tags      []string
	TagMode   enums.TagMatchMode
	Page      pagination.Params
}

// Search returns one page of coffees matching filter plus the total match count.
func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]models.Coffee, int64, error) {
	filtered := func(db *gorm.DB) *gorm.DB {
		return r.applySearchFilter(ctx, db, filter)
	}

	var total int64
	if err := r.DB(ctx).Model(&models.Coffee{}).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Coffee
	if err := r.DB(ctx).
		Model(&models.Coffee{}).
		Scopes(filtered, repo.Paginate(filter.Page)).
		Order(catalogOrder).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) applySearchFilter(ctx context.Context, db *gorm.DB, filter SearchFilter) *gorm.DB {
	if filter.StartDate != nil {
		db = db.Where("coffees.created_at >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		db = db.Where("coffees.created_at <= ?", filter.EndDate.UTC())
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		db = db.Where(`LOWER(coffees.name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(name))+"%")
	}
	if names := lowerUnique(filter.Tags); len(names) > 0 {
		matching := r.DB(ctx).
			Table("coffee_tags AS ct").
			Select("ct.coffee_id").
			Joins("JOIN tags t ON t.id = ct.tag_id").
			Where("LOWER(t.name) IN ?", names)
		if filter.TagMode == enums.TagMatchAll {
			matching = matching.
				Group("ct.coffee_id").
				Having("COUNT(DISTINCT LOWER(t.name)) = ?", len(names))
		}
		db = db.Where("coffees.id IN (?)", matching)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func lowerUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
