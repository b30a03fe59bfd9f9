package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veloretail/bulkcart-backend/internal/pricing"
	"github.com/veloretail/bulkcart-backend/pkg/db/models"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
)

// Service exposes cart staging operations. All mutations run inside a DB
// transaction holding the cart row lock, so concurrent requests against the
// same cart serialize instead of losing updates.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo     CartRepository
	products productLoader
	tx       transactor
}

// NewService constructs the cart service.
func NewService(repo CartRepository, products productLoader, tx transactor) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

// AddItem adds quantity to the user's line for the product, creating the
// cart and the line as needed. Quantities are additive; the price snapshot
// is recomputed at the merged quantity.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.lockOrCreateCart(ctx, repo, userID)
		if err != nil {
			return err
		}

		product, err := s.loadProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := checkCorporateOnly(product, userType); err != nil {
			return err
		}

		total := quantity
		existing, err := repo.FindItem(ctx, cart.ID, productID)
		switch {
		case err == nil:
			total += existing.Quantity
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
		}

		if err := checkStock(product, total); err != nil {
			return err
		}
		if err := checkMinimumOrder(product, userType, total); err != nil {
			return err
		}

		resolution, err := pricing.Resolve(product, userType, total)
		if err != nil {
			return err
		}

		item := existing
		if item == nil {
			item = &models.CartItem{CartID: cart.ID, ProductID: productID}
		}
		item.Quantity = total
		item.PriceAtTime = resolution.UnitPrice
		item.UserType = userType

		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// UpdateItem replaces the line's quantity, re-running the same validation
// chain against the replacement value.
func (s *service) UpdateItem(ctx context.Context, userID uuid.UUID, userType enums.UserType, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
		}

		product, err := s.loadProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := checkCorporateOnly(product, userType); err != nil {
			return err
		}
		if err := checkStock(product, quantity); err != nil {
			return err
		}
		if err := checkMinimumOrder(product, userType, quantity); err != nil {
			return err
		}

		resolution, err := pricing.Resolve(product, userType, quantity)
		if err != nil {
			return err
		}

		item.Quantity = quantity
		item.PriceAtTime = resolution.UnitPrice
		item.UserType = userType
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem drops the line. Removing a product that is not in the cart is
// a no-op; only a missing cart errs.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		if _, err := repo.DeleteItem(ctx, cart.ID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// Clear empties the cart. A user without a cart clears to the same place.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if err := repo.DeleteItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
}

// GetCart returns the cart view; a user without a cart gets an empty one.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewCartDTO(nil), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return NewCartDTO(cart), nil
}

func (s *service) lockOrCreateCart(ctx context.Context, repo CartRepository, userID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByUserIDForUpdate(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	cart, err = repo.Create(ctx, &models.Cart{UserID: userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return cart, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func checkCorporateOnly(product *models.Product, userType enums.UserType) error {
	if product.CorporateOnly && userType != enums.UserTypeCorporate {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product is restricted to corporate accounts")
	}
	return nil
}

// checkStock enforces availability against the requested total quantity.
// Pre-order and back-order listings accept any quantity.
func checkStock(product *models.Product, quantity int) error {
	if product.StockStatus == enums.StockStatusOutOfStock {
		return pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock")
	}
	if product.StockStatus.BypassesQuantityCheck() {
		return nil
	}
	if quantity > product.StockQuantity {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds available stock").
			WithDetails(map[string]int{"available_quantity": product.StockQuantity})
	}
	return nil
}

func checkMinimumOrder(product *models.Product, userType enums.UserType, quantity int) error {
	if userType != enums.UserTypeCorporate {
		return nil
	}
	cp := product.CorporatePricing
	if cp == nil || !cp.Enabled {
		return nil
	}
	if quantity < cp.MOQ() {
		return pkgerrors.New(pkgerrors.CodeMinimumOrder, "minimum order quantity not met").
			WithDetails(map[string]int{
				"minimum_quantity": cp.MOQ(),
				"current_quantity": quantity,
			})
	}
	return nil
}
