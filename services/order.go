package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coffeeshop/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultPointsPerUnit is the loyalty multiplier: floor(total × 10).
const DefaultPointsPerUnit = 10

// OrderStore persists submitted orders.
type OrderStore interface {
	SaveOrder(ctx context.Context, o models.Order) error
}

// LoyaltyLedger is the append-only point log.
type LoyaltyLedger interface {
	Append(ctx context.Context, award models.LoyaltyAward) error
}

// LoyaltyPolicy converts an order total into points.
type LoyaltyPolicy struct {
	PointsPerUnit int64
}

// PointsFor returns floor(total × PointsPerUnit), never negative.
func (p LoyaltyPolicy) PointsFor(total decimal.Decimal) int64 {
	pts := total.Mul(decimal.NewFromInt(p.PointsPerUnit)).Floor().IntPart()
	if pts < 0 {
		return 0
	}
	return pts
}

// ValidateCheckout is the caller-side precondition check; OrderPipeline.Submit does not repeat it.
func ValidateCheckout(lines []models.CartLine, delivery models.DeliveryContext) error {
	if len(lines) == 0 {
		return ValidationError{Message: ErrMsgCartEmpty}
	}
	if strings.TrimSpace(delivery.TableID) == "" {
		return ValidationError{Message: ErrMsgTableMissing}
	}
	return nil
}

// OrderPipeline turns a cart snapshot into an Order. Persistence and the loyalty award are best-effort:
// their failures are logged and never reach the caller.
type OrderPipeline struct {
	orders OrderStore
	ledger LoyaltyLedger
	policy LoyaltyPolicy
	log    zerolog.Logger

	now   func() time.Time
	newID func(time.Time) string
}

func NewOrderPipeline(orders OrderStore, ledger LoyaltyLedger, policy LoyaltyPolicy, log zerolog.Logger) *OrderPipeline {
	return &OrderPipeline{
		orders: orders,
		ledger: ledger,
		policy: policy,
		log:    log,
		now:    time.Now,
		newID:  newOrderID,
	}
}

func newOrderID(t time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", t.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Submit snapshots lines into an Order, stores it and awards points to an authenticated customer.
func (p *OrderPipeline) Submit(ctx context.Context, lines []models.CartLine, delivery models.DeliveryContext, customer *models.Customer) models.Order {
	created := p.now()
	o := models.Order{
		ID:        p.newID(created),
		CreatedAt: created,
		Delivery:  delivery,
		Lines:     make([]models.OrderLine, 0, len(lines)),
		Total:     decimal.Zero,
	}
	if customer != nil {
		id := customer.ID
		o.CustomerID = &id
	}
	for _, l := range lines {
		lt := l.LineTotal()
		o.Lines = append(o.Lines, models.OrderLine{
			ItemID:    l.Item.ID,
			Name:      l.Item.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Item.Price,
			LineTotal: lt,
		})
		o.Total = o.Total.Add(lt)
	}

	if p.orders != nil {
		if err := p.orders.SaveOrder(ctx, o); err != nil {
			p.log.Error().Err(&PersistenceFailure{Op: "save order", Err: err}).
				Str("order_id", o.ID).Msg("order not persisted; reporting success")
		}
	}

	if customer != nil && p.ledger != nil {
		if points := p.policy.PointsFor(o.Total); points > 0 {
			award := models.LoyaltyAward{
				CustomerID:  customer.ID,
				Points:      points,
				Description: "Order " + o.ID,
			}
			if err := p.ledger.Append(ctx, award); err != nil {
				p.log.Error().Err(&PersistenceFailure{Op: "award points", Err: err}).
					Str("order_id", o.ID).Int64("customer_id", customer.ID).Int64("points", points).
					Msg("loyalty points not awarded")
			} else {
				o.PointsAwarded = points
			}
		}
	}
	return o
}
