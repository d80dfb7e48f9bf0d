package coffees

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/enums"
	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/logger"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/pagination"
)

// Service exposes catalog operations for coffees.
type Service interface {
	ListCoffees(ctx context.Context) ([]CoffeeDTO, error)
	GetCoffee(ctx context.Context, id uuid.UUID) (*CoffeeDTO, error)
	CreateCoffee(ctx context.Context, input CreateCoffeeInput) (*CoffeeDTO, error)
	UpdateCoffee(ctx context.Context, id uuid.UUID, input UpdateCoffeeInput) (*CoffeeDTO, error)
	DeleteCoffee(ctx context.Context, id uuid.UUID) error
	SearchCoffees(ctx context.Context, params SearchParams) (*pagination.Page[CoffeeDTO], error)
}

type CreateCoffeeInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	TagIDs      []uuid.UUID
}

// UpdateCoffeeInput holds optional mutations; nil fields are left untouched.
type UpdateCoffeeInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	TagIDs      *[]uuid.UUID
}

type SearchParams struct {
	StartDate *time.Time
	EndDate   *time.Time
	Name      string
	Tags      []string
	TagMode   enums.TagMatchMode
	Limit     int
	Offset    int
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
}

func NewService(repo *Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coffee repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) ListCoffees(ctx context.Context) ([]CoffeeDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coffees")
	}
	return s.hydrate(ctx, s.repo, rows)
}

func (s *service) GetCoffee(ctx context.Context, id uuid.UUID) (*CoffeeDTO, error) {
	return s.load(ctx, s.repo, id)
}

// CreateCoffee writes the coffee and its tag links in one transaction. Every
// tag id must already exist.
func (s *service) CreateCoffee(ctx context.Context, input CreateCoffeeInput) (*CoffeeDTO, error) {
	if err := ValidateCreate(input); err != nil {
		return nil, err
	}
	tagIDs := uniqueIDs(input.TagIDs)

	var created *CoffeeDTO
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := ensureTagsExist(ctx, txRepo, tagIDs); err != nil {
			return err
		}

		coffee, err := txRepo.Create(ctx, &models.Coffee{
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			Price:       input.Price,
			ImageURL:    strings.TrimSpace(input.ImageURL),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert coffee")
		}
		if err := txRepo.AddTags(ctx, coffee.ID, tagIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link coffee tags")
		}

		created, err = s.load(ctx, txRepo, coffee.ID)
		return err
	}); err != nil {
		return nil, asTyped(err, "create coffee")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "coffee_id", created.ID.String()), "coffee.created")
	}
	return created, nil
}

// UpdateCoffee applies a partial update. A supplied tag list replaces the
// association set by diff: links not in the list are removed and new ones added.
func (s *service) UpdateCoffee(ctx context.Context, id uuid.UUID, input UpdateCoffeeInput) (*CoffeeDTO, error) {
	if err := ValidateUpdate(input); err != nil {
		return nil, err
	}

	var updated *CoffeeDTO
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindByID(ctx, id); err != nil {
			return notFoundOr(err, id, "load coffee")
		}

		if err := txRepo.Update(ctx, id, updateColumns(input)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update coffee")
		}

		if input.TagIDs != nil {
			if err := s.syncTags(ctx, txRepo, id, uniqueIDs(*input.TagIDs)); err != nil {
				return err
			}
		}

		var err error
		updated, err = s.load(ctx, txRepo, id)
		return err
	}); err != nil {
		return nil, asTyped(err, "update coffee")
	}
	return updated, nil
}

func (s *service) DeleteCoffee(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		removed, err := s.repo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete coffee")
		}
		if removed == 0 {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "coffee %s not found", id)
		}
		return nil
	})
	if err != nil {
		return asTyped(err, "delete coffee")
	}
	return nil
}

func (s *service) SearchCoffees(ctx context.Context, params SearchParams) (*pagination.Page[CoffeeDTO], error) {
	if params.StartDate != nil && params.EndDate != nil && params.StartDate.After(*params.EndDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date must not be after end_date").
			WithDetails(map[string]any{"field": "start_date"})
	}
	mode := params.TagMode
	if mode == "" {
		mode = enums.TagMatchAny
	}
	if !mode.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid tag mode %q", mode)
	}

	page := pagination.Params{Limit: params.Limit, Offset: params.Offset}.Normalize()
	rows, total, err := s.repo.Search(ctx, SearchFilter{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Name:      params.Name,
		Tags:      params.Tags,
		TagMode:   mode,
		Page:      page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search coffees")
	}

	dtos, err := s.hydrate(ctx, s.repo, rows)
	if err != nil {
		return nil, err
	}
	result := pagination.NewPage(page, dtos, total)
	return &result, nil
}

func (s *service) syncTags(ctx context.Context, repo *Repository, coffeeID uuid.UUID, desired []uuid.UUID) error {
	current, err := repo.TagIDs(ctx, coffeeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load coffee tags")
	}
	toAdd, toRemove := diffIDs(current, desired)

	if err := ensureTagsExist(ctx, repo, toAdd); err != nil {
		return err
	}
	if err := repo.RemoveTags(ctx, coffeeID, toRemove); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: unlink coffee tags")
	}
	if err := repo.AddTags(ctx, coffeeID, toAdd); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link coffee tags")
	}
	return nil
}

func (s *service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*CoffeeDTO, error) {
	coffee, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id, "load coffee")
	}
	dtos, err := s.hydrate(ctx, repo, []models.Coffee{*coffee})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *service) hydrate(ctx context.Context, repo *Repository, rows []models.Coffee) ([]CoffeeDTO, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	tagsByCoffee, err := repo.TagsForCoffees(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coffee tags")
	}
	out := make([]CoffeeDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewCoffeeDTO(row, tagsByCoffee[row.ID]))
	}
	return out, nil
}

func ensureTagsExist(ctx context.Context, repo *Repository, ids []uuid.UUID) error {
	found, err := repo.ExistingTagIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check tags")
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "tag %s not found", id).
				WithDetails(map[string]any{"tag_id": id})
		}
	}
	return nil
}

func updateColumns(input UpdateCoffeeInput) map[string]any {
	columns := map[string]any{}
	if input.Name != nil {
		columns["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		columns["description"] = *input.Description
	}
	if input.Price != nil {
		columns["price"] = *input.Price
	}
	if input.ImageURL != nil {
		columns["image_url"] = strings.TrimSpace(*input.ImageURL)
	}
	return columns
}

// diffIDs returns the ids to insert and the ids to delete to turn current into desired.
func diffIDs(current, desired []uuid.UUID) (toAdd, toRemove []uuid.UUID) {
	have := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}
	want := make(map[uuid.UUID]struct{}, len(desired))
	for _, id := range desired {
		want[id] = struct{}{}
		if _, ok := have[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := want[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

func notFoundOr(err error, id uuid.UUID, op string) error {
	if db.IsNotFound(err) {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "coffee %s not found", id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func asTyped(err error, op string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
