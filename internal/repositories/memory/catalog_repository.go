package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

// CatalogRepository serves the immutable product catalog. Products are
// validated and price-parsed once at construction and never mutated.
type CatalogRepository struct {
	mu       sync.RWMutex
	ordered  []domain.Product
	products map[string]domain.Product
}

var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository seeds the catalog, parsing every display price into cents.
func NewCatalogRepository(products []domain.Product) (*CatalogRepository, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog repository: at least one product is required")
	}

	repo := &CatalogRepository{
		ordered:  make([]domain.Product, 0, len(products)),
		products: make(map[string]domain.Product, len(products)),
	}

	for _, product := range products {
		product.ID = strings.TrimSpace(product.ID)
		product.Name = strings.TrimSpace(product.Name)
		if product.ID == "" || product.Name == "" {
			return nil, fmt.Errorf("catalog repository: product id and name are required")
		}
		if _, exists := repo.products[product.ID]; exists {
			return nil, fmt.Errorf("catalog repository: duplicate product id %s", product.ID)
		}
		if !domain.ValidCategory(product.Category) {
			return nil, fmt.Errorf("catalog repository: product %s has unknown category %q", product.ID, product.Category)
		}
		if product.Line == "" {
			product.Line = domain.LineStandard
		}

		cents, err := domain.ParsePrice(product.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog repository: product %s: %w", product.ID, err)
		}
		product.PriceCents = cents

		repo.products[product.ID] = product
		repo.ordered = append(repo.ordered, product)
	}

	return repo, nil
}

// ListProducts returns products matching the filter in seed order.
func (r *CatalogRepository) ListProducts(_ context.Context, filter repositories.CatalogFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.Product, 0, len(r.ordered))
	for _, product := range r.ordered {
		if filter.Line != "" && product.Line != filter.Line {
			continue
		}
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		results = append(results, product)
	}
	return results, nil
}

// GetProduct looks up a product across all lines.
func (r *CatalogRepository) GetProduct(_ context.Context, productID string) (domain.Product, error) {
	id := strings.TrimSpace(productID)
	if id == "" {
		return domain.Product{}, invalidError("catalog repository: get", "product id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, notFoundError("catalog repository: get", "no product %s", id)
	}
	return product, nil
}

// AllProducts returns the full searchable catalog in seed order.
func (r *CatalogRepository) AllProducts(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dup := make([]domain.Product, len(r.ordered))
	copy(dup, r.ordered)
	return dup, nil
}
