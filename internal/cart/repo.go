package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/internal/repo"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
)

// Repository implements CartRepository on GORM.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.DB(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return r.FindCartByID(ctx, cart.ID)
}

func (r *Repository) FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return repo.First[models.Cart](ctx, r.Base, "id = ?", id)
}

// FindFirstByUser returns the oldest cart owned by the user.
func (r *Repository) FindFirstByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *Repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	return repo.First[models.CartItem](ctx, r.Base, "id = ? AND cart_id = ?", itemID, cartID)
}

func (r *Repository) FindItemByCoffee(ctx context.Context, cartID, coffeeID uuid.UUID) (*models.CartItem, error) {
	return repo.First[models.CartItem](ctx, r.Base, "cart_id = ? AND coffee_id = ?", cartID, coffeeID)
}

func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.DB(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.DB(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (int64, error) {
	res := r.DB(ctx).Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
