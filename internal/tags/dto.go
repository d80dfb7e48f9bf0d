package tags

import (
	"time"

	"github.com/google/uuid"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
)

type TagDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func NewTagDTO(tag models.Tag) TagDTO {
	return TagDTO{ID: tag.ID, Name: tag.Name, CreatedAt: tag.CreatedAt}
}

func NewTagDTOs(tags []models.Tag) []TagDTO {
	out := make([]TagDTO, 0, len(tags))
	for _, tag := range tags {
		out = append(out, NewTagDTO(tag))
	}
	return out
}
