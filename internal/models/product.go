package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Dimensions struct {
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Value stores dimensions as JSONB text.
func (d Dimensions) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (d *Dimensions) Scan(value any) error {
	if value == nil {
		*d = Dimensions{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return errors.New("unsupported type for dimensions")
	}
}

type Product struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	Slug               string      `json:"slug"`
	Description        string      `json:"description"`
	ShortDescription   string      `json:"shortDescription,omitempty"`
	BasePrice          float64     `json:"basePrice"`
	CurrentPrice       float64     `json:"currentPrice"`
	SalePrice          *float64    `json:"salePrice"`
	DiscountPercentage int         `json:"discountPercentage"`
	SKU                string      `json:"sku"`
	Stock              int         `json:"stock"`
	LowStockThreshold  int         `json:"lowStockThreshold"`
	Images             []string    `json:"images"`
	Thumbnail          string      `json:"thumbnail"`
	CategoryID         uuid.UUID   `json:"categoryId"`
	Category           *Category   `json:"category,omitempty"`
	Tags               []string    `json:"tags"`
	MetaTitle          string      `json:"metaTitle,omitempty"`
	MetaDescription    string      `json:"metaDescription,omitempty"`
	MetaKeywords       []string    `json:"metaKeywords"`
	IsActive           bool        `json:"isActive"`
	IsFeatured         bool        `json:"isFeatured"`
	IsOnSale           bool        `json:"isOnSale"`
	Weight             *float64    `json:"weight,omitempty"`
	Dimensions         *Dimensions `json:"dimensions,omitempty"`
	ViewsCount         int         `json:"viewsCount"`
	SalesCount         int         `json:"salesCount"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// EnsureThumbnail defaults the thumbnail to the first image.
func (p *Product) EnsureThumbnail() {
	if p.Thumbnail == "" && len(p.Images) > 0 {
		p.Thumbnail = p.Images[0]
	}
}

// IsLowStock reports whether the stock is at or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// CreateProductRequest mirrors the admin create payload. Numeric keys are
// pointers so a missing key can be told apart from a zero value.
type CreateProductRequest struct {
	Name              string      `json:"name" validate:"max=200"`
	Slug              string      `json:"slug"`
	Description       string      `json:"description" validate:"max=5000"`
	ShortDescription  string      `json:"shortDescription" validate:"max=300"`
	BasePrice         *float64    `json:"basePrice" validate:"omitempty,gte=0"`
	CurrentPrice      *float64    `json:"currentPrice" validate:"omitempty,gte=0"`
	SalePrice         *float64    `json:"salePrice" validate:"omitempty,gte=0"`
	SKU               string      `json:"sku"`
	Stock             *int        `json:"stock" validate:"omitempty,gte=0"`
	LowStockThreshold *int        `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	Images            []string    `json:"images" validate:"dive,required"`
	Thumbnail         string      `json:"thumbnail"`
	Category          string      `json:"category"`
	Tags              []string    `json:"tags"`
	MetaTitle         string      `json:"metaTitle" validate:"max=70"`
	MetaDescription   string      `json:"metaDescription" validate:"max=160"`
	MetaKeywords      []string    `json:"metaKeywords"`
	IsActive          *bool       `json:"isActive"`
	IsFeatured        *bool       `json:"isFeatured"`
	Weight            *float64    `json:"weight" validate:"omitempty,gte=0"`
	Dimensions        *Dimensions `json:"dimensions"`
}

// MissingFields lists the required keys absent from the request, in the
// order they are reported to the caller.
func (r *CreateProductRequest) MissingFields() []string {
	var missing []string

	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.BasePrice == nil {
		missing = append(missing, "basePrice")
	}
	if r.CurrentPrice == nil {
		missing = append(missing, "currentPrice")
	}
	if r.SKU == "" {
		missing = append(missing, "sku")
	}
	if r.Category == "" {
		missing = append(missing, "category")
	}
	if len(r.Images) == 0 {
		missing = append(missing, "images")
	}

	return missing
}

// UpdateProductRequest is a partial update; nil means "leave unchanged".
// SalePrice distinguishes an absent key from an explicit null.
type UpdateProductRequest struct {
	Name              *string       `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Slug              *string       `json:"slug,omitempty" validate:"omitempty,min=1"`
	Description       *string       `json:"description,omitempty" validate:"omitempty,max=5000"`
	ShortDescription  *string       `json:"shortDescription,omitempty" validate:"omitempty,max=300"`
	BasePrice         *float64      `json:"basePrice,omitempty" validate:"omitempty,gte=0"`
	SalePrice         NullableFloat `json:"salePrice,omitzero"`
	SKU               *string       `json:"sku,omitempty" validate:"omitempty,min=1"`
	Stock             *int          `json:"stock,omitempty" validate:"omitempty,gte=0"`
	LowStockThreshold *int          `json:"lowStockThreshold,omitempty" validate:"omitempty,gte=0"`
	Images            *[]string     `json:"images,omitempty" validate:"omitempty,min=1,dive,required"`
	Thumbnail         *string       `json:"thumbnail,omitempty"`
	Category          *string       `json:"category,omitempty"`
	Tags              *[]string     `json:"tags,omitempty"`
	MetaTitle         *string       `json:"metaTitle,omitempty" validate:"omitempty,max=70"`
	MetaDescription   *string       `json:"metaDescription,omitempty" validate:"omitempty,max=160"`
	MetaKeywords      *[]string     `json:"metaKeywords,omitempty"`
	IsActive          *bool         `json:"isActive,omitempty"`
	IsFeatured        *bool         `json:"isFeatured,omitempty"`
	Weight            *float64      `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Dimensions        *Dimensions   `json:"dimensions,omitempty"`
}

// TouchesPrice reports whether the update changes a price input.
func (r *UpdateProductRequest) TouchesPrice() bool {
	return r.BasePrice != nil || r.SalePrice.Set
}

type ProductDetail struct {
	Product         *Product   `json:"product"`
	RelatedProducts []*Product `json:"relatedProducts"`
}

type ProductPage struct {
	Products   []*Product `json:"products"`
	Pagination Pagination `json:"pagination"`
}
