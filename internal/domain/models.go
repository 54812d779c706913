// Package domain defines the persistence models for marketplace ads, carts,
// orders, and notifications. These types are mapped with GORM and form the
// core data layer of the travel-planner backend.
package domain

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Ad categories accepted by the marketplace.
const (
	CategoryHotels    = "hotels"
	CategoryTrips     = "trips"
	CategoryTransport = "transport"
)

// Payment states recorded on an order. The mock payment flow marks orders
// paid synchronously with creation; pending/failed exist for completeness.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// PaymentMethodUPI is the single supported payment method.
const PaymentMethodUPI = "upi"

// ValidCategory reports whether c is one of the accepted ad categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryHotels, CategoryTrips, CategoryTransport:
		return true
	}
	return false
}

// Ad represents a purchasable inventory listing (hotel, trip, or transport
// offering) with a finite slot count. Slots are decremented only by a
// successful checkout; there is no cancellation/refund path that would
// increment them back.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Category: one of "hotels", "trips", "transport" (DB constraint).
//   - Price / DiscountPercent / DiscountedPrice: DiscountedPrice is derived,
//     never client-supplied (see BeforeSave).
//   - TotalSlots / AvailableSlots: capacity counters; AvailableSlots never
//     exceeds TotalSlots.
//   - CreatedBy: identifier of the administrative creator; notification
//     recipient for purchases of this ad.
//   - DeletedAt: soft deletion marker so carts referencing a removed ad fail
//     checkout with a clean "no longer available" error.
type Ad struct {
	ID              string         `json:"id"               gorm:"type:char(36);primaryKey"`
	Category        string         `json:"category"         gorm:"type:varchar(16);not null;index;check:category IN ('hotels','trips','transport')"`
	Title           string         `json:"title"            gorm:"type:varchar(255);not null"`
	Location        string         `json:"location"         gorm:"type:varchar(255);not null"`
	Price           float64        `json:"price"            gorm:"not null;check:price >= 0"`
	DiscountPercent int            `json:"discountPercent"  gorm:"not null;default:0;check:discount_percent BETWEEN 0 AND 100"`
	DiscountedPrice float64        `json:"discountedPrice"  gorm:"not null;default:0"`
	Rating          float64        `json:"rating"           gorm:"not null;default:4.0"`
	ImageURL        string         `json:"imageUrl"         gorm:"type:text;not null;default:''"`
	Description     string         `json:"description"      gorm:"type:text;not null;default:''"`
	TotalSlots      int            `json:"totalSlots"       gorm:"not null;default:0;check:total_slots >= 0"`
	AvailableSlots  int            `json:"availableSlots"   gorm:"not null;default:0;check:available_slots >= 0"`
	CreatedBy       string         `json:"createdBy"        gorm:"type:varchar(64);not null;index"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-"                gorm:"index"`
}

// TableName returns the database table name for Ad.
func (Ad) TableName() string { return "ads" }

// BeforeSave normalizes the derived and bounded fields in one place instead
// of at every call site:
//   - DiscountedPrice = round(Price * (100-DiscountPercent) / 100) when a
//     discount is set, otherwise exactly Price.
//   - AvailableSlots is clamped down to TotalSlots when an inconsistent pair
//     is supplied.
func (a *Ad) BeforeSave(tx *gorm.DB) error {
	if a.DiscountPercent > 0 {
		a.DiscountedPrice = math.Round(a.Price * float64(100-a.DiscountPercent) / 100)
	} else {
		a.DiscountedPrice = a.Price
	}
	if a.AvailableSlots > a.TotalSlots {
		a.AvailableSlots = a.TotalSlots
	}
	return nil
}

// Cart is the per-user mutable collection of line items. Exactly one cart
// exists per user (unique index); it is created lazily on first access and
// emptied, not deleted, by a successful checkout.
type Cart struct {
	ID        string     `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string     `json:"user_id"    gorm:"type:varchar(64);not null;uniqueIndex:ux_cart_user"`
	Items     []CartItem `json:"items"      gorm:"foreignKey:CartID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Cart.
func (Cart) TableName() string { return "carts" }

// CartItem is one (ad, quantity) line within a cart. Title, category, price,
// discounted price, and image URL are denormalized snapshots taken when the
// line was added: the buyer keeps the price they saw even if the ad changes
// later. AvailableSlots is NOT stored; reads resolve it live from the ad.
//
// Position preserves insertion order across partial updates.
type CartItem struct {
	ID              string    `json:"-"                gorm:"type:char(36);primaryKey"`
	CartID          string    `json:"-"                gorm:"type:char(36);not null;index:idx_cart_items,priority:1;uniqueIndex:ux_cart_ad,priority:1"`
	AdID            string    `json:"ad"               gorm:"type:char(36);not null;uniqueIndex:ux_cart_ad,priority:2"`
	Title           string    `json:"title"            gorm:"type:varchar(255);not null"`
	Category        string    `json:"category"         gorm:"type:varchar(16);not null"`
	Quantity        int       `json:"quantity"         gorm:"not null;default:1;check:quantity >= 1"`
	Price           float64   `json:"price"            gorm:"not null"`
	DiscountedPrice float64   `json:"discountedPrice"  gorm:"not null"`
	ImageURL        string    `json:"imageUrl"         gorm:"type:text;not null;default:''"`
	Position        int       `json:"-"                gorm:"not null;default:0;index:idx_cart_items,priority:2"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName returns the database table name for CartItem.
func (CartItem) TableName() string { return "cart_items" }

// Order is the immutable record of one completed checkout. TotalAmount is
// computed from the item snapshots at commit time and never supplied by the
// client. Orders are append-only: no update or delete path exists.
type Order struct {
	ID               string      `json:"id"                gorm:"type:char(36);primaryKey"`
	UserID           string      `json:"user_id"           gorm:"type:varchar(64);not null;index:idx_user_orders,priority:1"`
	Items            []OrderItem `json:"items"             gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	TotalAmount      float64     `json:"totalAmount"       gorm:"not null"`
	PaymentStatus    string      `json:"paymentStatus"     gorm:"type:varchar(16);not null;default:'pending';check:payment_status IN ('pending','paid','failed')"`
	PaymentMethod    string      `json:"paymentMethod"     gorm:"type:varchar(16);not null;default:'upi'"`
	PaymentReference string      `json:"paymentReference"  gorm:"type:varchar(255);not null"`
	CreatedAt        time.Time   `json:"created_at"        gorm:"index:idx_user_orders,priority:2"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// OrderItem is the frozen copy of one cart line at commit time.
type OrderItem struct {
	ID              string  `json:"-"                gorm:"type:char(36);primaryKey"`
	OrderID         string  `json:"-"                gorm:"type:char(36);not null;index"`
	AdID            string  `json:"ad"               gorm:"type:char(36);not null"`
	Title           string  `json:"title"            gorm:"type:varchar(255);not null"`
	Category        string  `json:"category"         gorm:"type:varchar(16);not null"`
	Quantity        int     `json:"quantity"         gorm:"not null;default:1"`
	Price           float64 `json:"price"            gorm:"not null"`
	DiscountedPrice float64 `json:"discountedPrice"  gorm:"not null"`
	ImageURL        string  `json:"imageUrl"         gorm:"type:text;not null;default:''"`
}

// TableName returns the database table name for OrderItem.
func (OrderItem) TableName() string { return "order_items" }

// Notification is an append-only message to an ad's creator, written in the
// same transaction as the order that triggered it. Content is never updated
// or deleted after creation; the recipient may only flip IsRead.
type Notification struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	RecipientID string    `json:"recipient"   gorm:"type:varchar(64);not null;index:idx_recipient_notifs,priority:1"`
	AdID        string    `json:"ad"          gorm:"type:char(36);not null"`
	OrderID     string    `json:"order"       gorm:"type:char(36);not null"`
	Message     string    `json:"message"     gorm:"type:text;not null"`
	IsRead      bool      `json:"isRead"      gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"  gorm:"index:idx_recipient_notifs,priority:2"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }
