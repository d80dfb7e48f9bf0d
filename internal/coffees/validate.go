package coffees

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/validation"
)

const (
	MaxNameLength        = 255
	MinDescriptionLength = 10
	MaxDescriptionLength = 200
	MaxPriceDecimals     = 2
)

// MaxPrice is the catalog price ceiling. Five units of it keep a line
// subtotal far inside the numeric(10,2) money columns.
var MaxPrice = decimal.RequireFromString("10000.00")

var urlValidator = validator.New()

// ValidateCreate checks every field of a new coffee.
func ValidateCreate(input CreateCoffeeInput) error {
	var v validation.Violations
	checkName(&v, input.Name)
	checkDescription(&v, input.Description)
	checkPrice(&v, input.Price)
	checkImageURL(&v, input.ImageURL)
	checkTagIDs(&v, input.TagIDs)
	return v.Err()
}

// ValidateUpdate applies the create rules to the fields that are present.
func ValidateUpdate(input UpdateCoffeeInput) error {
	var v validation.Violations
	if input.Name != nil {
		checkName(&v, *input.Name)
	}
	if input.Description != nil {
		checkDescription(&v, *input.Description)
	}
	if input.Price != nil {
		checkPrice(&v, *input.Price)
	}
	if input.ImageURL != nil {
		checkImageURL(&v, *input.ImageURL)
	}
	if input.TagIDs != nil {
		checkTagIDs(&v, *input.TagIDs)
	}
	return v.Err()
}

func checkName(v *validation.Violations, name string) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		v.Add("name", "required", "is required")
	case utf8.RuneCountInString(name) > MaxNameLength:
		v.Add("name", "max_length", "must be at most %d characters", MaxNameLength)
	}
}

func checkDescription(v *validation.Violations, description string) {
	n := utf8.RuneCountInString(description)
	switch {
	case n < MinDescriptionLength:
		v.Add("description", "min_length", "must be at least %d characters", MinDescriptionLength)
	case n > MaxDescriptionLength:
		v.Add("description", "max_length", "must be at most %d characters", MaxDescriptionLength)
	}
}

func checkPrice(v *validation.Violations, price decimal.Decimal) {
	if !price.IsPositive() {
		v.Add("price", "positive", "must be greater than 0")
		return
	}
	if price.GreaterThan(MaxPrice) {
		v.Add("price", "max", "must be at most %s", MaxPrice.StringFixed(MaxPriceDecimals))
		return
	}
	if !price.Equal(price.Round(MaxPriceDecimals)) {
		v.Add("price", "max_decimals", "must have at most %d decimal places", MaxPriceDecimals)
	}
}

func checkImageURL(v *validation.Violations, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add("image_url", "required", "is required")
		return
	}
	if err := urlValidator.Var(raw, "url"); err != nil {
		v.Add("image_url", "url", "must be a valid URL")
		return
	}
	if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		v.Add("image_url", "url", "must use http or https")
	}
}

func checkTagIDs(v *validation.Violations, ids []uuid.UUID) {
	if len(ids) == 0 {
		v.Add("tag_ids", "required", "must contain at least one tag")
		return
	}
	for _, id := range ids {
		if id == uuid.Nil {
			v.Add("tag_ids", "uuid", "must not contain empty ids")
			return
		}
	}
}

// uniqueIDs drops duplicates while keeping first-seen order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
