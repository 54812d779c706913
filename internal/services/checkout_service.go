// Package services – CheckoutService
//
// This file implements the checkout coordinator: the single place where a
// cart becomes an order. One call performs, as an all-or-nothing unit:
// re-validate the cart against live inventory, decrement slot counts, create
// the order snapshot, fan out seller notifications, and empty the cart.
// Any failure rolls the whole unit back; from the outside a failed checkout
// is indistinguishable from one that never started.
//
// Concurrency: slot counters are the system's only multi-writer resource.
// The per-ad conditional decrement (UPDATE ... WHERE available_slots >= ?)
// inside the transaction guarantees two concurrent commits can never both
// consume the same last slots. SQLite write serialization can surface
// busy/snapshot conflicts for the losing transaction; those are retried a
// bounded number of times before surfacing as a server fault.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"

	"github.com/Rishabht13/TripPlanner/internal/domain"
	"github.com/Rishabht13/TripPlanner/internal/repo"
)

// upiRE accepts a local part of 2+ word/dot/hyphen characters, an "@", and a
// 2+ letter provider suffix, case-insensitively (e.g. "alice@upi").
var upiRE = regexp.MustCompile(`(?i)^[\w.\-]{2,}@[a-z]{2,}$`)

// checkoutAttempts counts checkout outcomes by terminal result. Kept
// deliberately low-cardinality: one label, a handful of values.
var checkoutAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tripplanner",
		Name:      "checkout_attempts_total",
		Help:      "Total number of checkout attempts by terminal result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(checkoutAttempts)
}

// CheckoutService executes the atomic cart-to-order transition.
type CheckoutService struct {
	// DB is the database handle; every checkout opens its own transaction on it.
	DB *gorm.DB

	// MaxRetries bounds re-runs of the transaction after a storage-level
	// write conflict. Values <= 0 default to 3. Validation failures are
	// never retried.
	MaxRetries int

	// Locale selects number formatting for notification messages.
	Locale language.Tag
}

// ValidUPI reports whether s (after trimming) is a syntactically valid UPI
// identifier. No settlement is performed anywhere; this is the only payment
// "verification" the system does.
func ValidUPI(s string) bool {
	return upiRE.MatchString(strings.TrimSpace(s))
}

// Checkout converts the user's cart into a paid order.
//
// Preconditions (checked before any state is touched):
//   - upiID must be syntactically valid, else ErrInvalidPaymentID;
//   - the cart must exist and be non-empty, else ErrEmptyCart.
//
// Inside one transaction it then re-reads the cart, resolves every
// referenced ad, validates capacity per line, decrements slots, creates the
// order (status "paid", computed total), inserts one notification per line
// addressed to the ad's creator, and empties the cart.
//
// Errors: ErrEmptyCart, ErrItemsUnavailable, *CapacityError (naming the
// offending title and live count), ErrInvalidPaymentID — all with the store
// unchanged. Anything else is a storage fault, also with the store
// unchanged.
func (s *CheckoutService) Checkout(ctx context.Context, userID, userName, upiID string) (*domain.Order, error) {
	ctx, span := otel.Tracer("services/checkout").Start(ctx, "checkout.transaction",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	upiID = strings.TrimSpace(upiID)
	if !upiRE.MatchString(upiID) {
		checkoutAttempts.WithLabelValues("invalid_payment_id").Inc()
		span.SetStatus(codes.Error, "invalid_payment_id")
		return nil, ErrInvalidPaymentID
	}

	// Cheap pre-check outside the transaction; re-verified inside it.
	cart, err := repo.GetCart(ctx, s.DB, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		checkoutAttempts.WithLabelValues("fault").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "fault")
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		checkoutAttempts.WithLabelValues("empty_cart").Inc()
		span.SetStatus(codes.Error, "empty_cart")
		return nil, ErrEmptyCart
	}
	span.SetAttributes(attribute.Int("checkout.cart_items", len(cart.Items)))

	retries := s.MaxRetries
	if retries <= 0 {
		retries = 3
	}

	var order *domain.Order
	for attempt := 0; ; attempt++ {
		order, err = s.commit(ctx, userID, userName, upiID)
		if err == nil || !isBusy(err) || attempt >= retries {
			break
		}
		// Losing writer of a SQLite write conflict: back off briefly and
		// re-run against the committed state.
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 25 * time.Millisecond):
			continue
		}
		break
	}
	if err != nil {
		label := resultLabel(err)
		checkoutAttempts.WithLabelValues(label).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, label)
		return nil, err
	}
	checkoutAttempts.WithLabelValues("committed").Inc()
	span.SetAttributes(attribute.Int("checkout.order_items", len(order.Items)))
	return order, nil
}

// commit runs one attempt of the atomic checkout transaction.
func (s *CheckoutService) commit(ctx context.Context, userID, userName, upiID string) (*domain.Order, error) {
	var order *domain.Order

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Re-read the cart inside the transaction; it may have changed
		// since the pre-check (or been emptied by a double submit).
		cart, err := repo.GetCart(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		// 2) Resolve every referenced ad by id.
		ids := make([]string, 0, len(cart.Items))
		for _, it := range cart.Items {
			ids = append(ids, it.AdID)
		}
		ads, err := repo.GetAdsByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		adByID := make(map[string]*domain.Ad, len(ads))
		for i := range ads {
			adByID[ads[i].ID] = &ads[i]
		}

		// 3) Validate every line before touching any counter, so a failure
		// on line N never leaves lines 1..N-1 decremented.
		for _, it := range cart.Items {
			ad, ok := adByID[it.AdID]
			if !ok {
				return ErrItemsUnavailable
			}
			if ad.AvailableSlots < it.Quantity {
				return &CapacityError{Title: ad.Title, Available: ad.AvailableSlots}
			}
		}

		// 4) Decrement each ad. The conditional write re-checks capacity at
		// the store, closing the check-then-act window left by step 3.
		for _, it := range cart.Items {
			if err := repo.DecrementSlots(ctx, tx, it.AdID, it.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ad := adByID[it.AdID]
					live, lerr := repo.GetAd(ctx, tx, it.AdID)
					if lerr == nil {
						return &CapacityError{Title: live.Title, Available: live.AvailableSlots}
					}
					return &CapacityError{Title: ad.Title, Available: ad.AvailableSlots}
				}
				return err
			}
		}

		// 5) + 6) Order snapshot with the computed total; "paid" is set
		// synchronously, no async confirmation exists.
		var total float64
		items := make([]domain.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			total += it.DiscountedPrice * float64(it.Quantity)
			items = append(items, domain.OrderItem{
				AdID:            it.AdID,
				Title:           it.Title,
				Category:        it.Category,
				Quantity:        it.Quantity,
				Price:           it.Price,
				DiscountedPrice: it.DiscountedPrice,
				ImageURL:        it.ImageURL,
			})
		}
		order = &domain.Order{
			UserID:           userID,
			Items:            items,
			TotalAmount:      total,
			PaymentStatus:    domain.PaymentStatusPaid,
			PaymentMethod:    domain.PaymentMethodUPI,
			PaymentReference: upiID,
		}
		if err := repo.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		// 7) One notification per line, addressed to the ad's creator.
		buyer := userName
		if buyer == "" {
			buyer = userID
		}
		p := message.NewPrinter(s.locale())
		notifs := make([]domain.Notification, 0, len(cart.Items))
		for _, it := range cart.Items {
			ad := adByID[it.AdID]
			notifs = append(notifs, domain.Notification{
				RecipientID: ad.CreatedBy,
				AdID:        ad.ID,
				OrderID:     order.ID,
				Message:     p.Sprintf("%s purchased %d slot(s) of %s", buyer, it.Quantity, ad.Title),
			})
		}
		if err := repo.CreateNotifications(ctx, tx, notifs); err != nil {
			return err
		}

		// 8) Empty the cart. The cart row survives for the next purchase.
		return repo.ClearCartItems(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *CheckoutService) locale() language.Tag {
	if s.Locale == (language.Tag{}) {
		return language.English
	}
	return s.Locale
}

// isBusy detects SQLite write-contention errors across drivers, which do not
// map to a stable sentinel.
//
// glebarez/sqlite typically: "database is locked (5) (SQLITE_BUSY)" or
// "database is locked (517) (SQLITE_BUSY_SNAPSHOT)".
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "database table is locked")
}

// resultLabel maps a terminal checkout error to its metrics label.
func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrItemsUnavailable):
		return "items_unavailable"
	default:
		if _, ok := AsCapacityError(err); ok {
			return "capacity_exceeded"
		}
		return "fault"
	}
}
