package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
)

// Cart holds the per-user staging area. One cart per user, created lazily on
// the first add and only ever emptied, never deleted.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one product line inside a cart. PriceAtTime is a snapshot taken
// when the line was last touched; it does not follow later product price
// changes.
type CartItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_product"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_product"`
	Quantity    int             `gorm:"column:quantity;not null"`
	PriceAtTime decimal.Decimal `gorm:"column:price_at_time;type:numeric(12,2);not null"`
	UserType    enums.UserType  `gorm:"column:user_type;type:text;not null"`
	Product     *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
