package client

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chucuoi/flower-storefront/internal/catalog"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNoSelection      = stdErrors.New("no product selected")
	ErrNotOnPage        = stdErrors.New("product is not on the current page")
	ErrInvalidSalePrice = stdErrors.New("sale price must be a number or empty")
)

// EditFields is the subset of a product the admin editor can change.
// SalePrice is free text; an empty value clears the sale.
type EditFields struct {
	Name       string
	BasePrice  float64
	SalePrice  string
	Stock      int
	CategoryID uuid.UUID
	IsActive   bool
	IsFeatured bool
}

func fieldsFrom(p *models.Product) EditFields {
	f := EditFields{
		Name:       p.Name,
		BasePrice:  p.BasePrice,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		IsActive:   p.IsActive,
		IsFeatured: p.IsFeatured,
	}

	if p.SalePrice != nil {
		f.SalePrice = strconv.FormatFloat(*p.SalePrice, 'f', -1, 64)
	}

	return f
}

func (f EditFields) request() (*models.UpdateProductRequest, error) {
	name := f.Name
	basePrice := f.BasePrice
	stock := f.Stock
	category := f.CategoryID.String()
	active := f.IsActive
	featured := f.IsFeatured

	req := &models.UpdateProductRequest{
		Name:       &name,
		BasePrice:  &basePrice,
		Stock:      &stock,
		Category:   &category,
		IsActive:   &active,
		IsFeatured: &featured,
		SalePrice:  models.NullFloat(),
	}

	if s := strings.TrimSpace(f.SalePrice); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSalePrice, f.SalePrice)
		}
		req.SalePrice = models.NewNullableFloat(v)
	}

	return req, nil
}

// ProductEditor drives the admin product table: one page of products, an
// optional selection and its editable fields. Every mutation refetches
// the page so server-computed prices are shown as stored.
type ProductEditor struct {
	client *Client

	Search   string
	Limit    int
	Page     *models.ProductPage
	Selected *models.Product
	Fields   EditFields

	page int
}

func NewProductEditor(c *Client) *ProductEditor {
	return &ProductEditor{client: c, Limit: catalog.DefaultAdminLimit, page: 1}
}

// Load fetches the given page of the admin listing.
func (e *ProductEditor) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	limit := e.Limit
	if limit <= 0 {
		limit = catalog.DefaultAdminLimit
	}

	result, err := e.client.ListProducts(ctx, ListOptions{
		Page:   page,
		Limit:  limit,
		Search: e.Search,
		Admin:  true,
	})
	if err != nil {
		return err
	}

	e.Page = result
	e.page = page

	return nil
}

// Refresh reloads the current page.
func (e *ProductEditor) Refresh(ctx context.Context) error {
	return e.Load(ctx, e.page)
}

// Select opens the editor on a product of the current page.
func (e *ProductEditor) Select(id uuid.UUID) error {
	if e.Page != nil {
		for _, p := range e.Page.Products {
			if p.ID == id {
				e.Selected = p
				e.Fields = fieldsFrom(p)
				return nil
			}
		}
	}

	return ErrNotOnPage
}

// Close drops the selection without saving.
func (e *ProductEditor) Close() {
	e.Selected = nil
	e.Fields = EditFields{}
}

// Save sends the edit fields as a partial update and reloads the page.
func (e *ProductEditor) Save(ctx context.Context) (*models.Product, error) {
	if e.Selected == nil {
		return nil, ErrNoSelection
	}

	req, err := e.Fields.request()
	if err != nil {
		return nil, err
	}

	updated, err := e.client.UpdateProduct(ctx, e.Selected.ID, req)
	if err != nil {
		return nil, err
	}

	e.Selected = updated
	e.Fields = fieldsFrom(updated)

	if err := e.Refresh(ctx); err != nil {
		return updated, err
	}

	return updated, nil
}

// Delete hard-deletes the selected product and reloads the page.
func (e *ProductEditor) Delete(ctx context.Context) error {
	if e.Selected == nil {
		return ErrNoSelection
	}

	if err := e.client.DeleteProduct(ctx, e.Selected.ID); err != nil {
		return err
	}

	e.Close()

	return e.Refresh(ctx)
}
