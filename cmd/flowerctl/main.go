// Command flowerctl manages the shop catalog through the admin API.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/pricing"
	"github.com/chucuoi/flower-storefront/pkg/client"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newRootCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "flowerctl",
		Usage: "Admin tool for the flower storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "API base URL",
				Value:   "http://localhost:8080/api/v1",
				Sources: cli.EnvVars("FLOWER_API_URL"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "admin session token",
				Sources: cli.EnvVars("FLOWER_API_TOKEN"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "List, edit and delete products",
				Commands: []*cli.Command{
					productsListCommand(out),
					productsUpdateCommand(out),
					productsDeleteCommand(out),
				},
			},
			{
				Name:  "categories",
				Usage: "Inspect categories",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List active categories",
						Action: func(ctx context.Context, c *cli.Command) error {
							categories, err := apiClient(c).ListCategories(ctx)
							if err != nil {
								return err
							}

							tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
							fmt.Fprintln(tw, "ID\tNAME\tSLUG\tORDER")
							for _, cat := range categories {
								fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", cat.ID, cat.Name, cat.Slug, cat.DisplayOrder)
							}

							return tw.Flush()
						},
					},
				},
			},
			{
				Name:  "images",
				Usage: "Manage hosted images",
				Commands: []*cli.Command{
					{
						Name:      "delete",
						Usage:     "Delete an image at the media host",
						ArgsUsage: "<publicId>",
						Action: func(ctx context.Context, c *cli.Command) error {
							publicID := c.Args().First()
							if publicID == "" {
								return fmt.Errorf("publicId is required")
							}

							result, err := apiClient(c).DeleteImage(ctx, publicID)
							if err != nil {
								return err
							}

							fmt.Fprintf(out, "%s: %s\n", result.PublicID, result.Result)
							return nil
						},
					},
				},
			},
		},
	}
}

func apiClient(c *cli.Command) *client.Client {
	return client.New(c.String("api"), c.String("token"))
}

func productID(c *cli.Command) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return uuid.Nil, fmt.Errorf("a product id is required: %w", err)
	}

	return id, nil
}

// loadEditor fetches pages until the product is found, since the editor
// only selects from the current page.
func loadEditor(ctx context.Context, c *cli.Command, id uuid.UUID) (*client.ProductEditor, error) {
	editor := client.NewProductEditor(apiClient(c))
	editor.Limit = 100

	for page := 1; ; page++ {
		if err := editor.Load(ctx, page); err != nil {
			return nil, err
		}

		if err := editor.Select(id); err == nil {
			return editor, nil
		}

		if !editor.Page.Pagination.HasNextPage {
			return nil, fmt.Errorf("product %s not found", id)
		}
	}
}

func printProducts(out io.Writer, page *models.ProductPage) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSKU\tNAME\tPRICE\tSTOCK\tACTIVE")
	for _, p := range page.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\n", p.ID, p.SKU, p.Name, pricing.Format(p.CurrentPrice), p.Stock, p.IsActive)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pg := page.Pagination
	_, err := fmt.Fprintf(out, "page %d/%d, %d products\n", pg.CurrentPage, pg.TotalPages, pg.TotalProducts)

	return err
}

func productsListCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List products including inactive ones",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "limit", Value: 10},
			&cli.StringFlag{Name: "search", Usage: "match name or SKU"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			editor := client.NewProductEditor(apiClient(c))
			editor.Limit = int(c.Int("limit"))
			editor.Search = c.String("search")

			if err := editor.Load(ctx, int(c.Int("page"))); err != nil {
				return err
			}

			return printProducts(out, editor.Page)
		},
	}
}

func productsUpdateCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Edit the name, prices, stock, category or flags of a product",
		ArgsUsage: "<productId>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name"},
			&cli.FloatFlag{Name: "base-price"},
			&cli.StringFlag{Name: "sale-price", Usage: "empty clears the sale"},
			&cli.IntFlag{Name: "stock"},
			&cli.StringFlag{Name: "category", Usage: "category id"},
			&cli.BoolFlag{Name: "active"},
			&cli.BoolFlag{Name: "featured"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := productID(c)
			if err != nil {
				return err
			}

			editor, err := loadEditor(ctx, c, id)
			if err != nil {
				return err
			}

			if c.IsSet("name") {
				editor.Fields.Name = c.String("name")
			}
			if c.IsSet("base-price") {
				editor.Fields.BasePrice = c.Float("base-price")
			}
			if c.IsSet("sale-price") {
				editor.Fields.SalePrice = c.String("sale-price")
			}
			if c.IsSet("stock") {
				editor.Fields.Stock = int(c.Int("stock"))
			}
			if c.IsSet("category") {
				categoryID, err := uuid.Parse(c.String("category"))
				if err != nil {
					return fmt.Errorf("invalid category id: %w", err)
				}
				editor.Fields.CategoryID = categoryID
			}
			if c.IsSet("active") {
				editor.Fields.IsActive = c.Bool("active")
			}
			if c.IsSet("featured") {
				editor.Fields.IsFeatured = c.Bool("featured")
			}

			updated, err := editor.Save(ctx)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(out, "updated %s: %s (%d%% off)\n", updated.SKU, pricing.Format(updated.CurrentPrice), updated.DiscountPercentage)
			return err
		},
	}
}

func productsDeleteCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Hard-delete a product",
		ArgsUsage: "<productId>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := productID(c)
			if err != nil {
				return err
			}

			if err := apiClient(c).DeleteProduct(ctx, id); err != nil {
				return err
			}

			_, err = fmt.Fprintf(out, "deleted %s\n", id)
			return err
		},
	}
}
