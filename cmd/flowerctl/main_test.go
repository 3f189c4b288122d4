package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductsCommands(t *testing.T) {
	product := &models.Product{
		ID:           uuid.New(),
		Name:         "Sunflower Basket",
		SKU:          "SUN-007",
		BasePrice:    800000,
		CurrentPrice: 800000,
		Stock:        5,
		IsActive:     true,
	}

	var patched map[string]json.RawMessage
	var deleted string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, models.ProductPage{
			Products:   []*models.Product{product},
			Pagination: models.Pagination{CurrentPage: 1, TotalPages: 1, TotalProducts: 1, Limit: 10},
		})
	})
	mux.HandleFunc("PATCH /api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&patched)
		updated := *product
		updated.Stock = 2
		response.Success(w, http.StatusOK, &updated)
	})
	mux.HandleFunc("DELETE /api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		response.SuccessWithMessage(w, http.StatusOK, nil, "Product deleted successfully")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		argv := append([]string{"flowerctl", "--api", srv.URL + "/api/v1", "--token", "t"}, args...)
		err := newRootCommand(&out).Run(context.Background(), argv)
		return out.String(), err
	}

	t.Run("Success - List", func(t *testing.T) {
		// Act
		out, err := run("products", "list")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, "SUN-007")
		assert.Contains(t, out, "800.000 ₫")
		assert.Contains(t, out, "page 1/1, 1 products")
	})

	t.Run("Success - Update stock only changes stock", func(t *testing.T) {
		// Act
		out, err := run("products", "update", "--stock", "2", product.ID.String())

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, "updated SUN-007")
		assert.JSONEq(t, "2", string(patched["stock"]))
		assert.JSONEq(t, `"Sunflower Basket"`, string(patched["name"]))
		assert.Equal(t, "null", string(patched["salePrice"]))
	})

	t.Run("Success - Delete", func(t *testing.T) {
		// Act
		out, err := run("products", "delete", product.ID.String())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product.ID.String(), deleted)
		assert.Contains(t, out, "deleted")
	})

	t.Run("Failure - Update without id", func(t *testing.T) {
		// Act
		_, err := run("products", "update", "--stock", "2")

		// Assert
		require.Error(t, err)
	})
}
