package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	FindFirstByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	FindItemByCoffee(ctx context.Context, cartID, coffeeID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (int64, error)
}

// coffeeCatalog is the read-only catalog surface the cart needs for prices and names.
type coffeeCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coffee, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Coffee, error)
}
