package tags

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/validation"
)

const MaxNameLength = 50

// Service exposes tag management operations.
type Service interface {
	ListTags(ctx context.Context) ([]TagDTO, error)
	GetTag(ctx context.Context, id uuid.UUID) (*TagDTO, error)
	CreateTag(ctx context.Context, input CreateTagInput) (*TagDTO, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type CreateTagInput struct {
	Name string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tag repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListTags(ctx context.Context) ([]TagDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tags")
	}
	return NewTagDTOs(rows), nil
}

func (s *service) GetTag(ctx context.Context, id uuid.UUID) (*TagDTO, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "tag %s not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tag")
	}
	dto := NewTagDTO(*tag)
	return &dto, nil
}

// CreateTag rejects duplicate names with a conflict; the unique index covers
// concurrent inserts that slip past the pre-check.
func (s *service) CreateTag(ctx context.Context, input CreateTagInput) (*TagDTO, error) {
	name := strings.TrimSpace(input.Name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, duplicateName(name, nil)
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check tag name")
	}

	created, err := s.repo.Create(ctx, &models.Tag{Name: name})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, duplicateName(name, err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert tag")
	}
	dto := NewTagDTO(*created)
	return &dto, nil
}

func (s *service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		removed, err := s.repo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tag")
		}
		if removed == 0 {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "tag %s not found", id)
		}
		return nil
	})
}

// ValidateName checks a trimmed tag name.
func ValidateName(name string) error {
	var v validation.Violations
	switch {
	case name == "":
		v.Add("name", "required", "is required")
	case utf8.RuneCountInString(name) > MaxNameLength:
		v.Add("name", "max_length", "must be at most %d characters", MaxNameLength)
	}
	return v.Err()
}

func duplicateName(name string, cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodeConflict, cause, fmt.Sprintf("tag %q already exists", name))
}
