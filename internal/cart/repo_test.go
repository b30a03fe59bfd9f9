package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veloretail/bulkcart-backend/pkg/db/models"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  mrp NUMERIC NOT NULL DEFAULT 0,
  selling_price NUMERIC NOT NULL DEFAULT 0,
  discount NUMERIC NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'INR',
  legacy_price NUMERIC,
  corporate_pricing TEXT,
  corporate_only INTEGER NOT NULL DEFAULT 0,
  stock_status TEXT NOT NULL DEFAULT 'in_stock',
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_at_time NUMERIC NOT NULL,
  user_type TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:   uuid.New(),
		SKU:  "SKU-" + uuid.NewString()[:8],
		Name: name,
		RetailPrice: models.RetailPrice{
			MRP:          decimal.NewFromInt(120),
			SellingPrice: decimal.NewFromInt(100),
			Currency:     "INR",
		},
		StockStatus:   enums.StockStatusInStock,
		StockQuantity: 50,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedItem(t *testing.T, repo *Repository, cartID uuid.UUID, product *models.Product, qty int, at time.Time) *models.CartItem {
	t.Helper()

	item := &models.CartItem{
		ID:          uuid.New(),
		CartID:      cartID,
		ProductID:   product.ID,
		Quantity:    qty,
		PriceAtTime: product.RetailPrice.SellingPrice,
		UserType:    enums.UserTypeIndividual,
		CreatedAt:   at,
	}
	require.NoError(t, repo.SaveItem(context.Background(), item))
	return item
}

func TestRepositoryCartLifecycle(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()

	_, err := repo.FindByUserID(ctx, userID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	created, err := repo.Create(ctx, &models.Cart{ID: uuid.New(), UserID: userID})
	require.NoError(t, err)
	require.Equal(t, userID, created.UserID)

	first := seedProduct(t, db, "Steel Bolt M8")
	second := seedProduct(t, db, "Steel Nut M8")
	base := time.Now().Add(-time.Hour)
	seedItem(t, repo, created.ID, first, 3, base)
	seedItem(t, repo, created.ID, second, 5, base.Add(time.Minute))

	cart, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, first.ID, cart.Items[0].ProductID, "items should come back in insertion order")
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Steel Bolt M8", cart.Items[0].Product.Name)
}

func TestRepositorySaveItemUpserts(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cart, err := repo.Create(ctx, &models.Cart{ID: uuid.New(), UserID: uuid.New()})
	require.NoError(t, err)
	product := seedProduct(t, db, "Copper Wire 5m")
	item := seedItem(t, repo, cart.ID, product, 2, time.Now())

	item.Quantity = 9
	item.PriceAtTime = decimal.NewFromInt(85)
	require.NoError(t, repo.SaveItem(ctx, item))

	reloaded, err := repo.FindItem(ctx, cart.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, reloaded.Quantity)
	assert.True(t, reloaded.PriceAtTime.Equal(decimal.NewFromInt(85)))
}

func TestRepositoryDeleteItem(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cart, err := repo.Create(ctx, &models.Cart{ID: uuid.New(), UserID: uuid.New()})
	require.NoError(t, err)
	product := seedProduct(t, db, "Hex Key Set")
	seedItem(t, repo, cart.ID, product, 1, time.Now())

	rows, err := repo.DeleteItem(ctx, cart.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.DeleteItem(ctx, cart.ID, product.ID)
	require.NoError(t, err)
	assert.Zero(t, rows, "deleting an absent line should report zero rows")
}

func TestRepositoryDeleteItemsEmptiesCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	cart, err := repo.Create(ctx, &models.Cart{ID: uuid.New(), UserID: userID})
	require.NoError(t, err)
	seedItem(t, repo, cart.ID, seedProduct(t, db, "Washer Pack"), 4, time.Now())
	seedItem(t, repo, cart.ID, seedProduct(t, db, "Spring Set"), 2, time.Now())

	require.NoError(t, repo.DeleteItems(ctx, cart.ID))

	reloaded, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Items)
}
