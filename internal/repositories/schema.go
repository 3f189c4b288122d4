package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent; Migrate may run on every start.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name          VARCHAR(100) NOT NULL,
	slug          TEXT NOT NULL,
	description   VARCHAR(500) NOT NULL DEFAULT '',
	image         TEXT NOT NULL DEFAULT '',
	parent_id     UUID NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	display_order INT NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT categories_slug_key UNIQUE (slug),
	CONSTRAINT categories_parent_id_fkey FOREIGN KEY (parent_id) REFERENCES categories (id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS products (
	id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name                VARCHAR(200) NOT NULL,
	slug                TEXT NOT NULL,
	description         VARCHAR(5000) NOT NULL,
	short_description   VARCHAR(300) NOT NULL DEFAULT '',
	base_price          NUMERIC(14, 2) NOT NULL CHECK (base_price >= 0),
	sale_price          NUMERIC(14, 2) NULL CHECK (sale_price >= 0),
	current_price       NUMERIC(14, 2) NOT NULL,
	discount_percentage INT NOT NULL DEFAULT 0,
	sku                 TEXT NOT NULL,
	stock               INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
	low_stock_threshold INT NOT NULL DEFAULT 10,
	images              TEXT[] NOT NULL,
	thumbnail           TEXT NOT NULL DEFAULT '',
	category_id         UUID NOT NULL,
	tags                TEXT[] NOT NULL DEFAULT '{}',
	meta_title          VARCHAR(70) NOT NULL DEFAULT '',
	meta_description    VARCHAR(160) NOT NULL DEFAULT '',
	meta_keywords       TEXT[] NOT NULL DEFAULT '{}',
	is_active           BOOLEAN NOT NULL DEFAULT TRUE,
	is_featured         BOOLEAN NOT NULL DEFAULT FALSE,
	is_on_sale          BOOLEAN NOT NULL DEFAULT FALSE,
	weight              NUMERIC NULL,
	dimensions          JSONB NULL,
	views_count         INT NOT NULL DEFAULT 0,
	sales_count         INT NOT NULL DEFAULT 0,
	search_vector       TSVECTOR,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT products_sku_key UNIQUE (sku),
	CONSTRAINT products_slug_key UNIQUE (slug),
	CONSTRAINT products_category_id_fkey FOREIGN KEY (category_id) REFERENCES categories (id)
);

CREATE INDEX IF NOT EXISTS products_search_idx ON products USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS products_category_idx ON products (category_id);
CREATE INDEX IF NOT EXISTS products_active_created_idx ON products (is_active, created_at DESC);
CREATE INDEX IF NOT EXISTS products_current_price_idx ON products (current_price);

CREATE TABLE IF NOT EXISTS users (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email       TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	provider    TEXT NOT NULL DEFAULT '',
	provider_id TEXT NOT NULL DEFAULT '',
	role        TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}
