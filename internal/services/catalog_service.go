package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

var errCatalogRepositoryRequired = errors.New("catalog service: repository is required")

// ErrCatalogInvalidInput indicates the caller supplied invalid input.
var ErrCatalogInvalidInput = errors.New("catalog service: invalid input")

// ErrCatalogNotFound indicates the requested product does not exist.
var ErrCatalogNotFound = errors.New("catalog service: not found")

// ErrCatalogUnavailable indicates the catalog cannot be served due to backend issues.
var ErrCatalogUnavailable = errors.New("catalog service: unavailable")

const maxSearchQueryLength = 120

// CatalogServiceDeps wires the repository dependency for catalog reads.
type CatalogServiceDeps struct {
	Repository repositories.CatalogRepository
	Logger     func(context.Context, string, map[string]any)
}

type catalogService struct {
	repo      repositories.CatalogRepository
	sanitizer *bluemonday.Policy
	logger    func(context.Context, string, map[string]any)
}

// NewCatalogService constructs a CatalogService enforcing dependency validation.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Repository == nil {
		return nil, errCatalogRepositoryRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &catalogService{
		repo:      deps.Repository,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}, nil
}

// ListProducts returns the filtered catalog in seed order. When no line is
// requested the standard line is browsed.
func (s *catalogService) ListProducts(ctx context.Context, filter CatalogListFilter) ([]Product, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCatalogUnavailable
	}

	category := domain.ProductCategory(strings.ToLower(strings.TrimSpace(string(filter.Category))))
	if category == "all" {
		category = ""
	}
	if category != "" && !domain.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrCatalogInvalidInput, category)
	}

	line := domain.ProductLine(strings.ToLower(strings.TrimSpace(string(filter.Line))))
	switch line {
	case "":
		// Category browsing applies to the standard grid; limited and
		// collab drops are requested as explicit lines.
		line = domain.LineStandard
	case domain.LineStandard, domain.LineLimited, domain.LineCollab:
	default:
		return nil, fmt.Errorf("%w: unknown line %q", ErrCatalogInvalidInput, line)
	}

	products, err := s.repo.ListProducts(ctx, repositories.CatalogFilter{Category: category, Line: line})
	if err != nil {
		return nil, s.translateRepoError(err)
	}

	return s.sanitizeProducts(products), nil
}

// GetProduct looks a product up across all three catalog lines.
func (s *catalogService) GetProduct(ctx context.Context, productID string) (Product, error) {
	if s == nil || s.repo == nil {
		return Product{}, ErrCatalogUnavailable
	}

	id := strings.TrimSpace(productID)
	if id == "" {
		return Product{}, fmt.Errorf("%w: product id is required", ErrCatalogInvalidInput)
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return Product{}, s.translateRepoError(err)
	}

	product.Description = s.sanitizer.Sanitize(product.Description)
	return product, nil
}

// SearchProducts matches the query against name, anime, and category across the full catalog.
func (s *catalogService) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCatalogUnavailable
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []Product{}, nil
	}
	if len(trimmed) > maxSearchQueryLength {
		return nil, fmt.Errorf("%w: query must be %d characters or fewer", ErrCatalogInvalidInput, maxSearchQueryLength)
	}

	needle := strings.ToLower(trimmed)

	products, err := s.repo.AllProducts(ctx)
	if err != nil {
		return nil, s.translateRepoError(err)
	}

	matches := make([]Product, 0)
	for _, product := range products {
		if strings.Contains(strings.ToLower(product.Name), needle) ||
			strings.Contains(strings.ToLower(product.Anime), needle) ||
			strings.Contains(strings.ToLower(string(product.Category)), needle) {
			matches = append(matches, product)
		}
	}

	s.logger(ctx, "catalog.search", map[string]any{
		"query":   needle,
		"matches": len(matches),
	})

	return s.sanitizeProducts(matches), nil
}

func (s *catalogService) sanitizeProducts(products []Product) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	for i := range out {
		out[i].Description = s.sanitizer.Sanitize(out[i].Description)
	}
	return out
}

func (s *catalogService) translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return ErrCatalogNotFound
		case repoErr.IsUnavailable():
			return ErrCatalogUnavailable
		}
		return ErrCatalogUnavailable
	}
	return ErrCatalogUnavailable
}
