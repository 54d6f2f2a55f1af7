package loyalty

import (
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-loyalty/internal/pricing"
)

// Tier identifies the loyalty programme a customer belongs to.
type Tier string

const (
	TierRegular Tier = "regular"
	TierGold    Tier = "gold"
)

var (
	// ErrInvalidRate is returned for promotion or point rates outside [0, 1].
	ErrInvalidRate = errors.New("loyalty rate must be between 0 and 1")
	// ErrInvalidLimit is returned for a negative point threshold.
	ErrInvalidLimit = errors.New("loyalty point limit must not be negative")
)

// Customer is the capability shared by every loyalty tier.
type Customer interface {
	ID() int
	Name() string
	Tier() Tier
	// Promotion returns the discount for a pre-promotion subtotal, within [0, subtotal].
	Promotion(subtotal pricing.Money) pricing.Money
	// AccruePoints adds points earned on a final payment and returns the amount added.
	AccruePoints(final pricing.Money) pricing.Money
	TotalPoints() pricing.Money
}

// ledger is a monotonic points accumulator safe for concurrent use.
type ledger struct {
	mu    sync.Mutex
	total pricing.Money
}

func (l *ledger) add(points pricing.Money) pricing.Money {
	if !points.IsPositive() {
		return decimal.Zero
	}
	l.mu.Lock()
	l.total = l.total.Add(points)
	l.mu.Unlock()
	return points
}

func (l *ledger) value() pricing.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

type identity struct {
	id   int
	name string
}

func (i identity) ID() int { return i.id }
func (i identity) Name() string { return i.name }

func newIdentity(name string, id int) identity {
	return identity{id: id, name: strings.TrimSpace(name)}
}

// RegularCustomer earns a marginal discount and points only on spend above PointLimit.
type RegularCustomer struct {
	identity
	promotionRate pricing.Money
	pointLimit    pricing.Money
	pointRate     pricing.Money
	points        ledger
}

// NewRegularCustomer validates the tier parameters. promotionRate is zR, pointRate is zPR.
func NewRegularCustomer(name string, id int, promotionRate, pointLimit, pointRate pricing.Money) (*RegularCustomer, error) {
	if !validRate(promotionRate) || !validRate(pointRate) {
		return nil, ErrInvalidRate
	}
	if pointLimit.IsNegative() {
		return nil, ErrInvalidLimit
	}
	return &RegularCustomer{
		identity:      newIdentity(name, id),
		promotionRate: promotionRate,
		pointLimit:    pointLimit,
		pointRate:     pointRate,
	}, nil
}

func (c *RegularCustomer) Tier() Tier { return TierRegular }
func (c *RegularCustomer) PromotionRate() pricing.Money { return c.promotionRate }
func (c *RegularCustomer) PointLimit() pricing.Money { return c.pointLimit }
func (c *RegularCustomer) PointRate() pricing.Money { return c.pointRate }

// Promotion discounts only the part of the subtotal strictly above the point limit.
func (c *RegularCustomer) Promotion(subtotal pricing.Money) pricing.Money {
	if !subtotal.GreaterThan(c.pointLimit) {
		return decimal.Zero
	}
	return clamp(subtotal.Sub(c.pointLimit).Mul(c.promotionRate), subtotal)
}

// AccruePoints awards points on the final amount strictly above the point limit.
func (c *RegularCustomer) AccruePoints(final pricing.Money) pricing.Money {
	if !final.GreaterThan(c.pointLimit) {
		return decimal.Zero
	}
	return c.points.add(final.Sub(c.pointLimit).Mul(c.pointRate))
}

func (c *RegularCustomer) TotalPoints() pricing.Money { return c.points.value() }

// GoldCustomer gets a flat percentage discount and earns points on every payment.
type GoldCustomer struct {
	identity
	promotionRate pricing.Money
	pointRate     pricing.Money
	points        ledger
}

// NewGoldCustomer builds a gold customer whose discount and point rates are both zP.
func NewGoldCustomer(name string, id int, rate pricing.Money) (*GoldCustomer, error) {
	return NewGoldCustomerWithRates(name, id, rate, rate)
}

// NewGoldCustomerWithRates allows the discount and point multiplier to differ.
func NewGoldCustomerWithRates(name string, id int, promotionRate, pointRate pricing.Money) (*GoldCustomer, error) {
	if !validRate(promotionRate) || !validRate(pointRate) {
		return nil, ErrInvalidRate
	}
	return &GoldCustomer{
		identity:      newIdentity(name, id),
		promotionRate: promotionRate,
		pointRate:     pointRate,
	}, nil
}

func (c *GoldCustomer) Tier() Tier { return TierGold }
func (c *GoldCustomer) PromotionRate() pricing.Money { return c.promotionRate }
func (c *GoldCustomer) PointRate() pricing.Money { return c.pointRate }

func (c *GoldCustomer) Promotion(subtotal pricing.Money) pricing.Money {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	return clamp(subtotal.Mul(c.promotionRate), subtotal)
}

func (c *GoldCustomer) AccruePoints(final pricing.Money) pricing.Money {
	return c.points.add(final.Mul(c.pointRate))
}

func (c *GoldCustomer) TotalPoints() pricing.Money { return c.points.value() }

func validRate(rate pricing.Money) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(decimal.NewFromInt(1))
}

func clamp(discount, subtotal pricing.Money) pricing.Money {
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}
