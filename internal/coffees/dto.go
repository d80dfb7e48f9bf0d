package coffees

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
)

// CoffeeDTO is the catalog payload returned to clients, with tags flattened.
type CoffeeDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Tags        []CoffeeTagDTO  `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CoffeeTagDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func NewCoffeeDTO(coffee models.Coffee, tags []TagRow) CoffeeDTO {
	dto := CoffeeDTO{
		ID:          coffee.ID,
		Name:        coffee.Name,
		Description: coffee.Description,
		Price:       coffee.Price,
		ImageURL:    coffee.ImageURL,
		Tags:        make([]CoffeeTagDTO, 0, len(tags)),
		CreatedAt:   coffee.CreatedAt,
		UpdatedAt:   coffee.UpdatedAt,
	}
	for _, tag := range tags {
		dto.Tags = append(dto.Tags, CoffeeTagDTO{ID: tag.TagID, Name: tag.Name})
	}
	return dto
}
