package service

import (
	"context"
	"errors"
	"strings"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/foodfacts"
	"nutriai/nutrition-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Errors returned by PantryService
var (
	ErrInvalidBarcode     = errors.New("barcode must be a non-empty string of digits")
	ErrPantryItemNotFound = errors.New("pantry item not found")
	ErrProductNotFound    = errors.New("product not found")
)

// Values stored when a scanned barcode has no usable product data
const (
	UnknownProductName  = "Produto desconhecido"
	PlaceholderImageURL = "https://via.placeholder.com/80"
)

// ProductLookup resolves a barcode against the food database.
type ProductLookup interface {
	Product(ctx context.Context, code string) (*domain.Product, error)
}

// PantryService manages the per-user pantry built from barcode scans.
type PantryService interface {
	// ScanProduct adds qty units of the scanned barcode, creating the item if new.
	ScanProduct(ctx context.Context, userID primitive.ObjectID, code string, qty int) (*domain.PantryItem, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.PantryItem, error)
	// SetQuantity overwrites the quantity; values below 1 are raised to 1.
	SetQuantity(ctx context.Context, userID primitive.ObjectID, code string, qty int) (*domain.PantryItem, error)
	Remove(ctx context.Context, userID primitive.ObjectID, code string) error
	ProductDetails(ctx context.Context, code string) (*domain.Product, error)
}

type pantryService struct {
	pantryRepo repository.PantryRepository
	products   ProductLookup
	log        *zap.SugaredLogger
}

// NewPantryService creates a new PantryService. products may be any barcode lookup.
func NewPantryService(pantryRepo repository.PantryRepository, products ProductLookup, log *zap.SugaredLogger) PantryService {
	return &pantryService{pantryRepo: pantryRepo, products: products, log: log}
}

func (s *pantryService) ScanProduct(ctx context.Context, userID primitive.ObjectID, code string, qty int) (*domain.PantryItem, error) {
	code, err := normalizeBarcode(code)
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		qty = 1
	}

	item := &domain.PantryItem{
		UserID:   userID,
		Code:     code,
		Name:     UnknownProductName,
		Image:    PlaceholderImageURL,
		Quantity: qty,
	}

	// A failed lookup still records the scan under placeholder values.
	product, err := s.products.Product(ctx, code)
	switch {
	case err == nil:
		if product.Name != "" {
			item.Name = product.Name
		}
		if product.Image != "" {
			item.Image = product.Image
		}
	case errors.Is(err, foodfacts.ErrProductNotFound):
		s.log.Infow("scanned barcode not in food database", "code", code)
	default:
		s.log.Warnw("product lookup failed", "code", code, "error", err)
	}

	return s.pantryRepo.AddOrIncrement(ctx, item)
}

func (s *pantryService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.PantryItem, error) {
	return s.pantryRepo.ListByUser(ctx, userID)
}

func (s *pantryService) SetQuantity(ctx context.Context, userID primitive.ObjectID, code string, qty int) (*domain.PantryItem, error) {
	if qty < 1 {
		qty = 1
	}
	item, err := s.pantryRepo.SetQuantity(ctx, userID, code, qty)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPantryItemNotFound
	}
	return item, err
}

func (s *pantryService) Remove(ctx context.Context, userID primitive.ObjectID, code string) error {
	err := s.pantryRepo.Delete(ctx, userID, code)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPantryItemNotFound
	}
	return err
}

func (s *pantryService) ProductDetails(ctx context.Context, code string) (*domain.Product, error) {
	code, err := normalizeBarcode(code)
	if err != nil {
		return nil, err
	}
	product, err := s.products.Product(ctx, code)
	if err != nil {
		if errors.Is(err, foodfacts.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// normalizeBarcode trims surrounding space and accepts EAN/UPC style codes
// made only of ASCII digits.
func normalizeBarcode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrInvalidBarcode
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return "", ErrInvalidBarcode
		}
	}
	return code, nil
}
