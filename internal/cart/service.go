package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/checkout"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/enums"
	pkgerrors "github.com/cafeteria-labs/coffeeshop-backend/pkg/errors"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/logger"
)

// addItemAttempts bounds the merge retry after a concurrent insert of the same coffee.
const addItemAttempts = 2

var errConcurrentInsert = errors.New("cart item inserted concurrently")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart lifecycle operations.
type Service interface {
	GetOrCreateCart(ctx context.Context, userID *uuid.UUID) (*CartDTO, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*CartItemDTO, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*CartItemDTO, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*RemoveItemResult, error)
}

type AddItemInput struct {
	CoffeeID uuid.UUID
	Quantity int
}

type service struct {
	repo    CartRepository
	tx      txRunner
	catalog coffeeCatalog
	logg    *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, catalog coffeeCatalog, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("coffee catalog required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		catalog: catalog,
		logg:    logg,
	}, nil
}

// GetOrCreateCart returns the user's oldest cart when one exists; otherwise a
// new cart is created with default statuses.
func (s *service) GetOrCreateCart(ctx context.Context, userID *uuid.UUID) (*CartDTO, error) {
	if userID != nil {
		existing, err := s.repo.FindFirstByUser(ctx, *userID)
		if err == nil {
			return s.view(ctx, *existing)
		}
		if !db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user cart")
		}
	}

	created, err := s.repo.CreateCart(ctx, &models.Cart{
		UserID:        userID,
		Status:        enums.CartStatusAbandoned,
		StatusPayment: enums.PaymentStatusPending,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithCartID(ctx, created.ID.String()), "cart.created")
	}
	return s.view(ctx, *created)
}

func (s *service) GetCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindCartByID(ctx, cartID)
	if err != nil {
		return nil, cartNotFoundOr(err, cartID)
	}
	return s.view(ctx, *cart)
}

// AddItem merges into an existing line for the same coffee or inserts a new
// line priced at the coffee's current price. The merged quantity must stay
// within bounds.
func (s *service) AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*CartItemDTO, error) {
	if err := checkout.ValidateQuantity(&input.CoffeeID, input.Quantity); err != nil {
		return nil, err
	}

	coffee, err := s.catalog.FindByID(ctx, input.CoffeeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "coffee %s not found", input.CoffeeID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coffee")
	}

	var item *models.CartItem
	for attempt := 1; attempt <= addItemAttempts; attempt++ {
		item, err = s.addOrMerge(ctx, cartID, coffee, input.Quantity)
		if !errors.Is(err, errConcurrentInsert) {
			break
		}
	}
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}

	dto := newCartItemDTO(*item, coffee)
	return &dto, nil
}

func (s *service) addOrMerge(ctx context.Context, cartID uuid.UUID, coffee *models.Coffee, quantity int) (*models.CartItem, error) {
	var out *models.CartItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindCartByID(ctx, cartID); err != nil {
			return cartNotFoundOr(err, cartID)
		}

		existing, err := txRepo.FindItemByCoffee(ctx, cartID, coffee.ID)
		switch {
		case err == nil:
			merged := existing.Quantity + quantity
			if err := checkout.ValidateQuantity(&coffee.ID, merged); err != nil {
				return err
			}
			if err := txRepo.UpdateItemQuantity(ctx, existing.ID, merged); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart item")
			}
			out, err = txRepo.FindItem(ctx, cartID, existing.ID)
			return err
		case db.IsNotFound(err):
			created, err := txRepo.CreateItem(ctx, &models.CartItem{
				CartID:    cartID,
				CoffeeID:  coffee.ID,
				Quantity:  quantity,
				UnitPrice: coffee.Price,
			})
			if err != nil {
				if db.IsUniqueViolation(err, "") {
					return errConcurrentInsert
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert cart item")
			}
			out = created
			return nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart item")
		}
	})
	return out, err
}

// UpdateItemQuantity overwrites the line quantity; the unit price is kept.
func (s *service) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*CartItemDTO, error) {
	if err := checkout.ValidateQuantity(nil, quantity); err != nil {
		return nil, err
	}

	var item *models.CartItem
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindItem(ctx, cartID, itemID); err != nil {
			return itemNotFoundOr(err, cartID, itemID)
		}
		if err := txRepo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart item")
		}
		var err error
		item, err = txRepo.FindItem(ctx, cartID, itemID)
		return err
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}

	coffee, err := s.catalog.FindByID(ctx, item.CoffeeID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coffee")
	}
	dto := newCartItemDTO(*item, coffee)
	return &dto, nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*RemoveItemResult, error) {
	removed, err := s.repo.DeleteItem(ctx, cartID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	if removed == 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "cart item %s not found in cart %s", itemID, cartID)
	}
	return &RemoveItemResult{Success: true}, nil
}

// view assembles the cart aggregate from the cart row, its lines and one
// catalog read for the referenced coffees.
func (s *service) view(ctx context.Context, cart models.Cart) (*CartDTO, error) {
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.CoffeeID)
	}
	rows, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart coffees")
	}
	coffees := make(map[uuid.UUID]*models.Coffee, len(rows))
	for i := range rows {
		coffees[rows[i].ID] = &rows[i]
	}

	dto := newCartDTO(cart, items, coffees)
	return &dto, nil
}

func cartNotFoundOr(err error, cartID uuid.UUID) error {
	if db.IsNotFound(err) {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "cart %s not found", cartID)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
}

func itemNotFoundOr(err error, cartID, itemID uuid.UUID) error {
	if db.IsNotFound(err) {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "cart item %s not found in cart %s", itemID, cartID)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
}
