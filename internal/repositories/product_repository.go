package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/sebagonz91/promo-storefront/internal/models"
	"github.com/sebagonz91/promo-storefront/internal/utils"
)

// ProductRepository loads the product snapshot the session's catalog is built
// from. The catalog is read once at startup; stock authority for the session
// lives in the snapshot, not in later database state.
type ProductRepository interface {
	LoadCatalog(ctx context.Context) ([]models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) LoadCatalog(ctx context.Context) ([]models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, sku, category, supplier, description, base_price, stock, status, colors, sizes
		FROM products
		ORDER BY id
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []models.Product

	byID := make(map[int64]int)

	for rows.Next() {
		var p models.Product

		err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.Supplier, &p.Description,
			&p.BasePrice, &p.Stock, &p.Status, pq.Array(&p.Colors), pq.Array(&p.Sizes))
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}

		byID[p.ID] = len(products)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	if err := r.loadPriceBreaks(dbCtx, products, byID); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) loadPriceBreaks(ctx context.Context, products []models.Product, byID map[int64]int) error {
	query := `
		SELECT product_id, min_qty, price
		FROM price_breaks
		ORDER BY product_id
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying price breaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID int64
			pb        models.PriceBreak
		)

		if err := rows.Scan(&productID, &pb.MinQty, &pb.Price); err != nil {
			return fmt.Errorf("scanning price break row: %w", err)
		}

		// Breaks for delisted products are dropped silently.
		if i, ok := byID[productID]; ok {
			products[i].PriceBreaks = append(products[i].PriceBreaks, pb)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating price break rows: %w", err)
	}

	return nil
}
