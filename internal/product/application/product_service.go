package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/menulab/internal/product/domain"
)

// ProductService define los casos de uso relacionados con Product.
// Tras cada operación de dominio con éxito emite el evento correspondiente;
// un fallo al publicar se registra pero no revierte la operación.
type ProductService struct {
	repo   domain.ProductRepository
	events domain.EventPublisher
	log    *zap.Logger
}

// NewProductService constructor
func NewProductService(repo domain.ProductRepository, events domain.EventPublisher, log *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, p domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidProduct)
	}
	if p.CookingTime < 0 {
		return fmt.Errorf("%w: cooking time must be >= 0", domain.ErrInvalidProduct)
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return err
	}

	s.publish(ctx, domain.NewProductCreated(p))
	return nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, p domain.Product) error {
	p.ID = id
	if err := s.repo.Update(ctx, &p); err != nil {
		return err
	}

	s.publish(ctx, domain.NewProductUpdated(p))
	return nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, domain.NewProductDeleted(id))
	return nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// publish no forma parte de la unidad de trabajo: el evento se pierde si
// falla y el llamador decide si reintenta la operación completa.
func (s *ProductService) publish(ctx context.Context, event domain.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("⚠️ No se pudo publicar el evento de dominio",
			zap.String("event_id", event.EventID()),
			zap.Error(err),
		)
	}
}
