package services

import (
	"context"
	"time"

	"warung/internal/models"
	"warung/internal/repositories"
	"warung/internal/validation"

	"github.com/rs/zerolog"
)

// EventPublisher pushes product mutation events to a message broker. A nil
// publisher disables the feature.
type EventPublisher interface {
	PublishProductEvent(event map[string]interface{}) error
}

// ProductService handles business logic related to products: query
// normalization, validation before any request is sent, and accurate
// reporting of mutation outcomes.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.Validator
	events    EventPublisher
	logger    zerolog.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		validator: validation.New(),
		events:    events,
		logger:    logger.With().Str("service", "product").Logger(),
	}
}

// ListProducts retrieves a page of products. Search and category filters
// are mutually exclusive: an active search term forces the category back to
// "all" before the query reaches the repository.
func (s *ProductService) ListProducts(ctx context.Context, q repositories.ListQuery) (*models.ProductList, error) {
	if q.Search != "" {
		q.Category = "all"
	}
	return s.repo.List(ctx, q)
}

// GetProduct retrieves a single product by its id.
func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.repo.Get(ctx, id)
}

// Categories returns the category enumeration.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// CreateProduct validates raw form input and, only when every rule passes,
// submits the coerced record to the remote service. Field errors come back
// in the map; the error return is reserved for remote failures.
func (s *ProductService) CreateProduct(ctx context.Context, form models.ProductForm) (*models.Product, validation.Errors, error) {
	product := validation.CoerceProduct(form)
	if errs := s.validator.ValidateProduct(product); len(errs) > 0 {
		return nil, errs, nil
	}

	product.ID = 0 // the remote service assigns ids
	created, err := s.repo.Create(ctx, &product)
	if err != nil {
		return nil, nil, err
	}
	s.publish("created", created)
	return created, nil, nil
}

// UpdateProduct validates raw form input and PUTs the full coerced record,
// keyed by its id. An unchanged form round-trips to a record equal to the
// one loaded.
func (s *ProductService) UpdateProduct(ctx context.Context, form models.ProductForm) (*models.Product, validation.Errors, error) {
	product := validation.CoerceProduct(form)
	if errs := s.validator.ValidateProduct(product); len(errs) > 0 {
		return nil, errs, nil
	}

	updated, err := s.repo.Update(ctx, &product)
	if err != nil {
		return nil, nil, err
	}
	s.publish("updated", updated)
	return updated, nil, nil
}

// DeleteProduct removes a product. The outcome is reported exactly as the
// remote service returned it; a failed delete is never masked as success.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish("deleted", &models.Product{ID: id})
	return nil
}

// publish sends a mutation event on a best-effort basis; broker trouble
// must not fail the mutation that already happened.
func (s *ProductService) publish(action string, product *models.Product) {
	if s.events == nil {
		return
	}
	event := map[string]interface{}{
		"action":    action,
		"productId": product.ID,
		"title":     product.Title,
		"at":        time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishProductEvent(event); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Int("product_id", product.ID).
			Msg("failed to publish product event")
	}
}
