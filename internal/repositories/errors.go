package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record changed since it was read")
)

// Postgres error codes the services react to.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Constraint names from the schema.
const (
	ConstraintProductSKU      = "products_sku_key"
	ConstraintProductSlug     = "products_slug_key"
	ConstraintCategorySlug    = "categories_slug_key"
	ConstraintProductCategory = "products_category_id_fkey"
	ConstraintCategoryParent  = "categories_parent_id_fkey"
)

type UniqueViolation struct {
	Constraint string
	Err        error
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("unique constraint %s violated", e.Constraint)
}

func (e *UniqueViolation) Unwrap() error {
	return e.Err
}

type ForeignKeyViolation struct {
	Constraint string
	Err        error
}

func (e *ForeignKeyViolation) Error() string {
	return fmt.Sprintf("foreign key %s violated", e.Constraint)
}

func (e *ForeignKeyViolation) Unwrap() error {
	return e.Err
}

// mapError turns driver errors into the package's error vocabulary and
// wraps everything else with op.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return &UniqueViolation{Constraint: pqErr.Constraint, Err: err}
		case pqForeignKeyViolation:
			return &ForeignKeyViolation{Constraint: pqErr.Constraint, Err: err}
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func IsUniqueViolation(err error, constraint string) bool {
	var uv *UniqueViolation

	return errors.As(err, &uv) && uv.Constraint == constraint
}

func IsForeignKeyViolation(err error, constraint string) bool {
	var fk *ForeignKeyViolation

	return errors.As(err, &fk) && fk.Constraint == constraint
}
