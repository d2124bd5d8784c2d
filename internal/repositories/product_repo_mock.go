package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"warung/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository, used by tests and as a fallback when no remote
// service is reachable.
type MockProductRepository struct {
	mu         sync.RWMutex
	products   map[int]models.Product
	categories []string
	nextID     int
}

// NewMockProductRepository creates an empty in-memory repository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[int]models.Product),
		nextID:   1,
	}
}

// SetCategories seeds the category enumeration.
func (r *MockProductRepository) SetCategories(categories []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = categories
}

// List filters the stored products the way the remote service would:
// search matches the title case-insensitively, category matches exactly,
// limit 0 means everything.
func (r *MockProductRepository) List(ctx context.Context, q ListQuery) (*models.ProductList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Search)) {
			continue
		}
		if q.Search == "" && q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if q.Skip > 0 {
		if q.Skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Skip:]
		}
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	return &models.ProductList{
		Products: matched,
		Total:    total,
		Skip:     q.Skip,
		Limit:    q.Limit,
	}, nil
}

// Get returns a product by its id.
func (r *MockProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

// Categories returns the seeded enumeration.
func (r *MockProductRepository) Categories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.categories, nil
}

// Create stores a new product, assigning the next free id.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *product
	if created.ID == 0 {
		created.ID = r.nextID
	}
	if created.ID >= r.nextID {
		r.nextID = created.ID + 1
	}
	r.products[created.ID] = created
	return &created, nil
}

// Update replaces an existing product.
func (r *MockProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return nil, ErrNotFound
	}
	updated := *product
	r.products[product.ID] = updated
	return &updated, nil
}

// Delete removes a product by its id.
func (r *MockProductRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}
