package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description,omitempty"`
	Image        string     `json:"image,omitempty"`
	ParentID     *uuid.UUID `json:"parentCategory,omitempty"`
	IsActive     bool       `json:"isActive"`
	DisplayOrder int        `json:"displayOrder"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type CreateCategoryRequest struct {
	Name         string     `json:"name" validate:"required,max=100"`
	Slug         string     `json:"slug,omitempty"`
	Description  string     `json:"description,omitempty" validate:"max=500"`
	Image        string     `json:"image,omitempty" validate:"omitempty,url"`
	ParentID     *uuid.UUID `json:"parentCategory,omitempty"`
	IsActive     *bool      `json:"isActive,omitempty"`
	DisplayOrder int        `json:"displayOrder"`
}

// UpdateCategoryRequest is partial. ClearParent detaches the category
// from its parent; it wins over ParentID.
type UpdateCategoryRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Slug         *string    `json:"slug,omitempty" validate:"omitempty,min=1"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Image        *string    `json:"image,omitempty" validate:"omitempty,url"`
	ParentID     *uuid.UUID `json:"parentCategory,omitempty"`
	ClearParent  bool       `json:"clearParent,omitempty"`
	IsActive     *bool      `json:"isActive,omitempty"`
	DisplayOrder *int       `json:"displayOrder,omitempty"`
}
