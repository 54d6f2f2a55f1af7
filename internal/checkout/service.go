package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/toko-loyalty/internal/catalog"
	"github.com/noah-isme/toko-loyalty/internal/common"
	"github.com/noah-isme/toko-loyalty/internal/events"
	"github.com/noah-isme/toko-loyalty/internal/lock"
	"github.com/noah-isme/toko-loyalty/internal/loyalty"
	"github.com/noah-isme/toko-loyalty/internal/obs"
	"github.com/noah-isme/toko-loyalty/internal/pricing"
)

// ItemInput selects a catalog product by its 1-based position.
type ItemInput struct {
	Product  int `json:"product"`
	Quantity int `json:"quantity"`
}

// Input describes one checkout. Positions are 1-based, as listed by the
// catalog and the customer registry.
type Input struct {
	Customer int         `json:"customer"`
	Items    []ItemInput `json:"items" validate:"required,min=1,max=100,dive"`
}

// Service runs checkouts against the catalog and the customer registry.
type Service struct {
	Catalog  *catalog.Service
	Registry *loyalty.Registry
	// Locker serialises checkouts per customer. When nil an in-process lock is used.
	Locker  lock.Locker
	LockTTL time.Duration
	Events  *events.Bus
	Journal *Journal
	Metrics *obs.DomainMetrics
	Logger  zerolog.Logger

	local lock.Local
}

// Process validates every selection and quantity before building the
// transaction, then invoices it while holding the customer's lock. A rejected
// input never changes any customer's points.
func (s *Service) Process(ctx context.Context, in Input) (Invoice, error) {
	if s == nil || s.Catalog == nil || s.Registry == nil {
		return Invoice{}, errors.New("checkout service not configured")
	}
	ctx, span := otel.Tracer("toko-loyalty/checkout").Start(ctx, "checkout.Process")
	defer span.End()

	customer, lines, err := s.resolve(in)
	if err != nil {
		tier := ""
		if customer != nil {
			tier = string(customer.Tier())
		}
		s.Metrics.ObserveRejected(tier, rejectReason(err))
		s.Logger.Warn().Err(err).Int("customer", in.Customer).Msg("checkout rejected")
		span.SetStatus(codes.Error, err.Error())
		return Invoice{}, err
	}
	span.SetAttributes(
		attribute.Int("loyalty.customer_id", customer.ID()),
		attribute.String("loyalty.tier", string(customer.Tier())),
		attribute.Int("checkout.lines", len(lines)),
	)

	var inv Invoice
	err = s.locker().WithLock(ctx, "customer:"+strconv.Itoa(customer.ID()), s.LockTTL, func(context.Context) error {
		tx, err := NewTransaction(customer)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := tx.AddLine(line.Product, line.Qty); err != nil {
				return err
			}
		}
		inv, err = tx.Invoice()
		return err
	})
	if err != nil {
		s.Metrics.ObserveRejected(string(customer.Tier()), "error")
		span.SetStatus(codes.Error, err.Error())
		return Invoice{}, fmt.Errorf("checkout: %w", err)
	}

	if s.Journal != nil {
		s.Journal.Record(inv)
	}
	s.emit(ctx, inv)
	s.Metrics.ObserveInvoice(string(inv.Tier), inv.Total.InexactFloat64(), inv.Discount.InexactFloat64(), inv.PointsAccrued.InexactFloat64())
	s.Logger.Info().
		Str("transaction_id", inv.TransactionID.String()).
		Int("customer_id", inv.CustomerID).
		Str("tier", string(inv.Tier)).
		Str("subtotal", inv.Subtotal.String()).
		Str("discount", inv.Discount.String()).
		Str("total", inv.Total.String()).
		Str("points", inv.PointsAccrued.String()).
		Msg("transaction invoiced")
	return inv, nil
}

// Products lists the catalog.
func (s *Service) Products() []catalog.ProductView {
	return s.Catalog.List()
}

// Customers lists the customer registry with current points.
func (s *Service) Customers() []loyalty.View {
	return s.Registry.List()
}

// Points returns the accumulated points of a customer by id.
func (s *Service) Points(customerID int) (pricing.Money, error) {
	return s.Registry.Points(customerID)
}

func (s *Service) resolve(in Input) (loyalty.Customer, []pricing.Line, error) {
	customer, err := s.Registry.Select(in.Customer)
	if err != nil {
		return nil, nil, common.NewAppError(common.CodeInvalidSelection, "invalid customer choice", http.StatusUnprocessableEntity, err)
	}
	if len(in.Items) == 0 {
		return customer, nil, common.NewAppError(common.CodeMalformedInput, "at least one item is required", http.StatusBadRequest, ErrEmptyTransaction)
	}
	lines := make([]pricing.Line, 0, len(in.Items))
	for i, item := range in.Items {
		product, err := s.Catalog.Select(item.Product)
		if err != nil {
			appErr := common.NewAppError(common.CodeInvalidSelection, "invalid product choice", http.StatusUnprocessableEntity, err)
			appErr.Details = map[string]any{"item": i}
			return customer, nil, appErr
		}
		line, err := pricing.NewLine(product, item.Quantity)
		if err != nil {
			appErr := common.NewAppError(common.CodeInvalidQuantity, "invalid product amount", http.StatusUnprocessableEntity, err)
			appErr.Details = map[string]any{"item": i}
			return customer, nil, appErr
		}
		lines = append(lines, line)
	}
	return customer, lines, nil
}

func (s *Service) locker() lock.Locker {
	if s.Locker != nil {
		return s.Locker
	}
	return &s.local
}

func (s *Service) emit(ctx context.Context, inv Invoice) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, events.TopicTransactionInvoiced, inv.TransactionID, inv); err != nil {
		s.Logger.Error().Err(err).Str("topic", events.TopicTransactionInvoiced).Msg("emit event")
	}
	if !inv.PointsAccrued.IsPositive() {
		return
	}
	payload := map[string]any{
		"customerId":  inv.CustomerID,
		"points":      inv.PointsAccrued,
		"totalPoints": inv.TotalPoints,
	}
	if _, err := s.Events.Emit(ctx, events.TopicPointsAccrued, inv.TransactionID, payload); err != nil {
		s.Logger.Error().Err(err).Str("topic", events.TopicPointsAccrued).Msg("emit event")
	}
}

func rejectReason(err error) string {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case common.CodeInvalidSelection:
			return "invalid_selection"
		case common.CodeInvalidQuantity:
			return "invalid_quantity"
		case common.CodeMalformedInput:
			return "malformed"
		}
	}
	return "error"
}
