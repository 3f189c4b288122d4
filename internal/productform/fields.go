package productform

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/chucuoi/flower-storefront/internal/utils"
	"github.com/go-playground/validator/v10"
)

// Fields holds the raw form input. Numbers stay text until submit so a
// bad value can be reported instead of silently coerced.
type Fields struct {
	Name             string   `json:"name" validate:"required,max=200"`
	Slug             string   `json:"slug" validate:"required"`
	Description      string   `json:"description" validate:"required,max=5000"`
	ShortDescription string   `json:"shortDescription" validate:"max=300"`
	BasePrice        string   `json:"basePrice" validate:"required,numeric,nonnegative"`
	SalePrice        string   `json:"salePrice" validate:"omitempty,numeric,nonnegative"`
	SKU              string   `json:"sku" validate:"required"`
	Stock            string   `json:"stock" validate:"required,numeric,nonnegative,whole"`
	Category         string   `json:"category" validate:"required"`
	MetaTitle        string   `json:"metaTitle" validate:"max=70"`
	MetaDescription  string   `json:"metaDescription" validate:"max=160"`
	Tags             []string `json:"tags"`
	IsActive         bool     `json:"isActive"`
	IsFeatured       bool     `json:"isFeatured"`
}

// Patch carries the fields a client changed; nil leaves a field alone.
type Patch struct {
	Name             *string   `json:"name,omitempty"`
	Slug             *string   `json:"slug,omitempty"`
	Description      *string   `json:"description,omitempty"`
	ShortDescription *string   `json:"shortDescription,omitempty"`
	BasePrice        *string   `json:"basePrice,omitempty"`
	SalePrice        *string   `json:"salePrice,omitempty"`
	SKU              *string   `json:"sku,omitempty"`
	Stock            *string   `json:"stock,omitempty"`
	Category         *string   `json:"category,omitempty"`
	MetaTitle        *string   `json:"metaTitle,omitempty"`
	MetaDescription  *string   `json:"metaDescription,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
	IsActive         *bool     `json:"isActive,omitempty"`
	IsFeatured       *bool     `json:"isFeatured,omitempty"`
}

// FieldError is the first field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

var labels = map[string]string{
	"name":             "Product name",
	"slug":             "Slug",
	"description":      "Description",
	"shortDescription": "Short description",
	"basePrice":        "Base price",
	"salePrice":        "Sale price",
	"sku":              "SKU",
	"stock":            "Stock",
	"category":         "Category",
	"metaTitle":        "SEO title",
	"metaDescription":  "SEO description",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := utils.NewValidator()

	mustRegister(v, "nonnegative", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(fl.Field().String(), 64)
		return err == nil && n >= 0
	})
	mustRegister(v, "whole", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(fl.Field().String())
		return err == nil
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateFields returns the first failing field in declaration order.
func validateFields(fields *Fields) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	first := validationErrs[0]

	return &FieldError{Field: first.Field(), Message: fieldMessage(first)}
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := labels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "numeric":
		return label + " must be a number"
	case "nonnegative":
		return label + " must not be negative"
	case "whole":
		return label + " must be a whole number"
	default:
		return label + " is invalid"
	}
}

func (p *Patch) apply(fields *Fields) {
	setString(&fields.Name, p.Name)
	if p.Name != nil && *p.Name != "" {
		fields.Slug = Slugify(*p.Name)
	}

	setString(&fields.Slug, p.Slug)
	setString(&fields.Description, p.Description)
	setString(&fields.ShortDescription, p.ShortDescription)
	setString(&fields.BasePrice, p.BasePrice)
	setString(&fields.SalePrice, p.SalePrice)
	setString(&fields.SKU, p.SKU)
	setString(&fields.Stock, p.Stock)
	setString(&fields.Category, p.Category)
	setString(&fields.MetaTitle, p.MetaTitle)
	setString(&fields.MetaDescription, p.MetaDescription)

	if p.Tags != nil {
		fields.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.IsActive != nil {
		fields.IsActive = *p.IsActive
	}
	if p.IsFeatured != nil {
		fields.IsFeatured = *p.IsFeatured
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
