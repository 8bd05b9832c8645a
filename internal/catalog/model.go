package catalog

import "time"

type Product struct {
	ID            int64
	ArtisanID     string
	Name          string
	Description   *string
	PriceCents    int64
	Category      *string
	Images        *string
	StockQuantity int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated by list/detail joins.
	ArtisanName  string
	ArtisanImage *string
}

type CreateProductInput struct {
	Name          string
	Description   *string
	PriceCents    int64
	Category      *string
	Images        *string
	StockQuantity int
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Category    *string
	Images      *string
}
