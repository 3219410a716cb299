// Package ledger composes business events into atomic write-sets. Every
// event declares up front which stores it touches; the composer executes the
// whole set inside one transaction so money, stock and documents never drift
// apart.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alumac/backend/internal/domain/inventory"
	"github.com/alumac/backend/internal/domain/ledger"
	"github.com/alumac/backend/internal/domain/numbering"
	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/domain/sale"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EventType identifies a composed business event
type EventType string

const (
	EventMaterialPurchaseRecorded EventType = "MaterialPurchaseRecorded"
	EventSalePaymentReceived      EventType = "SalePaymentReceived"
	EventQuoteConverted           EventType = "QuoteConverted"
	EventGeneralExpenseRecorded   EventType = "GeneralExpenseRecorded"
	EventStockAdjusted            EventType = "StockAdjusted"
	EventLedgerEntryVoided        EventType = "LedgerEntryVoided"
	EventLedgerEntryDeleted       EventType = "LedgerEntryDeleted"
)

// writeSets declares, per event, the tables the event writes. The executor
// tags spans and log lines with the set so a partial-write bug is visible in
// traces immediately.
var writeSets = map[EventType][]string{
	EventMaterialPurchaseRecorded: {"material_purchases", "stock_movements", "materials", "ledger_transactions", "document_numbers"},
	EventSalePaymentReceived:      {"sales", "ledger_transactions", "document_numbers"},
	EventQuoteConverted:           {"quotes", "sales", "document_numbers"},
	EventGeneralExpenseRecorded:   {"ledger_transactions", "document_numbers"},
	EventStockAdjusted:            {"materials", "stock_movements"},
	EventLedgerEntryVoided:        {"ledger_transactions", "document_numbers"},
	EventLedgerEntryDeleted:       {"ledger_transactions"},
}

// Composer executes business events atomically. Repositories must resolve
// the transaction from the context the unit of work hands them.
type Composer struct {
	uow       shared.UnitOfWork
	allocator *numbering.Allocator
	quotes    quote.Repository
	sales     sale.Repository
	entries   ledger.Repository
	materials inventory.MaterialRepository
	movements inventory.StockMovementRepository
	purchases inventory.MaterialPurchaseRepository
	logger    *zap.Logger
	tracer    trace.Tracer
}

// ComposerDeps bundles the collaborators a Composer needs
type ComposerDeps struct {
	UnitOfWork shared.UnitOfWork
	Allocator  *numbering.Allocator
	Quotes     quote.Repository
	Sales      sale.Repository
	Entries    ledger.Repository
	Materials  inventory.MaterialRepository
	Movements  inventory.StockMovementRepository
	Purchases  inventory.MaterialPurchaseRepository
	Logger     *zap.Logger
	Tracer     trace.Tracer
}

// NewComposer creates a new Composer
func NewComposer(deps ComposerDeps) *Composer {
	return &Composer{
		uow:       deps.UnitOfWork,
		allocator: deps.Allocator,
		quotes:    deps.Quotes,
		sales:     deps.Sales,
		entries:   deps.Entries,
		materials: deps.Materials,
		movements: deps.Movements,
		purchases: deps.Purchases,
		logger:    deps.Logger,
		tracer:    deps.Tracer,
	}
}

// run wraps fn in the unit of work with tracing and uniform error handling.
// Domain errors pass through untouched; infrastructure failures surface as
// TRANSACTION_FAILED because the rollback leaves no partial effects behind.
func (c *Composer) run(ctx context.Context, event EventType, fn func(ctx context.Context) error) error {
	ctx, span := c.tracer.Start(ctx, "ledger.compose",
		trace.WithAttributes(
			attribute.String("event", string(event)),
			attribute.StringSlice("writes", writeSets[event]),
		))
	defer span.End()

	err := c.uow.Execute(ctx, fn)
	if err == nil {
		c.logger.Info("composed event", zap.String("event", string(event)), zap.Strings("writes", writeSets[event]))
		return nil
	}

	var derr *shared.DomainError
	if errors.As(err, &derr) {
		c.logger.Warn("event rejected", zap.String("event", string(event)), zap.String("code", derr.Code))
		return err
	}

	c.logger.Error("event aborted", zap.String("event", string(event)), zap.Error(err))
	return fmt.Errorf("%w: %s", shared.ErrTransactionFailed, err)
}

// stockRetries bounds how often a stock event re-runs after losing the
// optimistic-lock race on its material row.
const stockRetries = 3

// runStock executes an event whose write-set includes a material row. When
// a concurrent writer bumps the material version first, the losing write-set
// rolls back and the whole event re-runs against a fresh read, so stock
// before/after stays consistent with what actually got persisted.
func (c *Composer) runStock(ctx context.Context, event EventType, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= stockRetries; attempt++ {
		err = c.run(ctx, event, fn)
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		c.logger.Warn("stock version conflict, retrying",
			zap.String("event", string(event)),
			zap.Int("attempt", attempt))
	}
	return err
}

// ConvertQuote turns a convertible quote into a sale, exactly once. Repeated
// calls return the sale created the first time with AlreadyConverted set.
// The unique index on sales.quote_id closes the race two concurrent
// conversions would otherwise leave open: the loser's insert fails and its
// whole write-set rolls back.
func (c *Composer) ConvertQuote(ctx context.Context, quoteID uuid.UUID) (*ConversionResult, error) {
	var result *ConversionResult
	err := c.run(ctx, EventQuoteConverted, func(ctx context.Context) error {
		q, err := c.quotes.FindByID(ctx, quoteID)
		if err != nil {
			return err
		}

		existing, err := c.sales.FindByQuoteID(ctx, quoteID)
		if err == nil {
			result = &ConversionResult{
				SaleID:           existing.ID,
				SaleNumber:       existing.Number,
				QuoteID:          q.ID,
				QuoteNumber:      q.Number,
				Total:            existing.Total,
				AlreadyConverted: true,
			}
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		number, err := c.allocator.Allocate(ctx, numbering.DocumentTypeSale)
		if err != nil {
			return err
		}

		items := make([]sale.Item, 0, len(q.Items))
		for _, it := range q.Items {
			items = append(items, sale.Item{
				ID:          uuid.New(),
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				DiscountPct: it.DiscountPct,
				LineTotal:   it.LineTotal,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			})
		}

		s, err := sale.NewSaleFromQuote(number, q.ClientID, q.ID, sale.QuoteTotals{
			Subtotal:       q.Subtotal,
			DiscountPct:    q.DiscountPct,
			DiscountAmount: q.DiscountAmount,
			TaxPct:         q.TaxPct,
			TaxAmount:      q.TaxAmount,
			Total:          q.Total,
		}, q.Currency, items)
		if err != nil {
			return err
		}

		if err := q.MarkConverted(s.ID); err != nil {
			return err
		}

		if err := c.sales.Save(ctx, s); err != nil {
			return err
		}
		if err := c.quotes.Save(ctx, q); err != nil {
			return err
		}

		result = &ConversionResult{
			SaleID:      s.ID,
			SaleNumber:  s.Number,
			QuoteID:     q.ID,
			QuoteNumber: q.Number,
			Total:       s.Total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordMaterialPurchase records a supplier restock: the purchase document,
// the IN movement, the material's new stock and the supplier payment land
// together or not at all. Stock before/after is taken from the material row
// as persisted inside the transaction, not from the caller.
func (c *Composer) RecordMaterialPurchase(ctx context.Context, input MaterialPurchaseInput) (*PurchaseResult, error) {
	var result *PurchaseResult
	err := c.runStock(ctx, EventMaterialPurchaseRecorded, func(ctx context.Context) error {
		material, err := c.materials.FindByID(ctx, input.MaterialID)
		if err != nil {
			return err
		}
		if !material.Active {
			return shared.NewDomainError("INVALID_STATE", "Material is inactive")
		}

		number, err := c.allocator.Allocate(ctx, numbering.DocumentTypeMaterialPurchase)
		if err != nil {
			return err
		}

		purchase, err := inventory.NewMaterialPurchase(number, material.ID, input.SupplierID, input.Quantity, input.UnitPrice, input.Currency, input.Date)
		if err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(material, inventory.MovementIn, input.Quantity, "purchase "+number, number)
		if err != nil {
			return err
		}
		if err := material.ApplyMovement(movement); err != nil {
			return err
		}

		purchase.MarkPaidInFull()

		txnNumber, err := c.allocator.Allocate(ctx, numbering.DocumentTypeLedgerEntry)
		if err != nil {
			return err
		}
		total, err := valueobject.NewMoney(purchase.Total, purchase.Currency)
		if err != nil {
			return err
		}
		txn, err := ledger.NewTransaction(txnNumber, ledger.KindSupplierPayment, input.Date, total, "purchase "+number)
		if err != nil {
			return err
		}
		txn.LinkSupplier(input.SupplierID)
		txn.LinkPurchase(purchase.ID)
		if input.PaymentMethod != "" {
			if err := txn.WithPaymentMethod(input.PaymentMethod); err != nil {
				return err
			}
		}

		if err := c.purchases.Save(ctx, purchase); err != nil {
			return err
		}
		if err := c.movements.Save(ctx, movement); err != nil {
			return err
		}
		if err := c.materials.SaveWithLock(ctx, material); err != nil {
			return err
		}
		if err := c.entries.Save(ctx, txn); err != nil {
			return err
		}

		result = &PurchaseResult{
			PurchaseID:        purchase.ID,
			PurchaseNumber:    purchase.Number,
			Total:             purchase.Total,
			StockBefore:       movement.StockBefore,
			StockAfter:        movement.StockAfter,
			TransactionNumber: txn.Number,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordSalePayment applies a collection to a sale and appends the matching
// ledger entry. Payments before delivery are advances, after delivery income.
func (c *Composer) RecordSalePayment(ctx context.Context, input SalePaymentInput) (*PaymentResult, error) {
	amount, err := valueobject.NewMoney(input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}

	var result *PaymentResult
	err = c.run(ctx, EventSalePaymentReceived, func(ctx context.Context) error {
		s, err := c.sales.FindByID(ctx, input.SaleID)
		if err != nil {
			return err
		}

		kind := ledger.KindIncome
		switch s.Status {
		case sale.StatusPending, sale.StatusInProduction, sale.StatusReady:
			kind = ledger.KindAdvance
		}

		if err := s.RecordPayment(amount); err != nil {
			return err
		}

		txnNumber, err := c.allocator.Allocate(ctx, numbering.DocumentTypeLedgerEntry)
		if err != nil {
			return err
		}
		txn, err := ledger.NewTransaction(txnNumber, kind, input.Date, amount, "payment on "+s.Number)
		if err != nil {
			return err
		}
		txn.LinkSale(s.ID)
		txn.LinkClient(s.ClientID)
		if input.PaymentMethod != "" {
			if err := txn.WithPaymentMethod(input.PaymentMethod); err != nil {
				return err
			}
		}

		if err := c.sales.Save(ctx, s); err != nil {
			return err
		}
		if err := c.entries.Save(ctx, txn); err != nil {
			return err
		}

		result = &PaymentResult{
			SaleID:            s.ID,
			SaleNumber:        s.Number,
			TransactionNumber: txn.Number,
			Kind:              kind,
			AmountCollected:   s.AmountCollected,
			BalanceDue:        s.BalanceDue,
			FullyPaid:         s.IsFullyPaid(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordGeneralExpense appends a standalone outflow entry
func (c *Composer) RecordGeneralExpense(ctx context.Context, input GeneralExpenseInput) (*EntryResult, error) {
	amount, err := valueobject.NewMoney(input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}

	var result *EntryResult
	err = c.run(ctx, EventGeneralExpenseRecorded, func(ctx context.Context) error {
		txnNumber, err := c.allocator.Allocate(ctx, numbering.DocumentTypeLedgerEntry)
		if err != nil {
			return err
		}
		txn, err := ledger.NewTransaction(txnNumber, ledger.KindGeneralExpense, input.Date, amount, input.Description)
		if err != nil {
			return err
		}
		if input.SupplierID != nil {
			txn.LinkSupplier(*input.SupplierID)
		}
		if input.PaymentMethod != "" {
			if err := txn.WithPaymentMethod(input.PaymentMethod); err != nil {
				return err
			}
		}

		if err := c.entries.Save(ctx, txn); err != nil {
			return err
		}

		result = &EntryResult{TransactionID: txn.ID, Number: txn.Number}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdjustStock applies a signed correction to a material's stock with the
// movement audit record. No ledger entry is produced.
func (c *Composer) AdjustStock(ctx context.Context, input StockAdjustmentInput) (*AdjustmentResult, error) {
	var result *AdjustmentResult
	err := c.runStock(ctx, EventStockAdjusted, func(ctx context.Context) error {
		material, err := c.materials.FindByID(ctx, input.MaterialID)
		if err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(material, inventory.MovementAdjustment, input.Quantity, input.Reason, input.Reference)
		if err != nil {
			return err
		}
		if err := material.ApplyMovement(movement); err != nil {
			return err
		}

		if err := c.movements.Save(ctx, movement); err != nil {
			return err
		}
		if err := c.materials.SaveWithLock(ctx, material); err != nil {
			return err
		}

		result = &AdjustmentResult{
			MaterialID:  material.ID,
			StockBefore: movement.StockBefore,
			StockAfter:  movement.StockAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VoidEntry appends the compensating adjustment for a ledger entry. Voiding
// an already-voided entry returns the existing compensation.
func (c *Composer) VoidEntry(ctx context.Context, entryID uuid.UUID, reason string) (*EntryResult, error) {
	var result *EntryResult
	err := c.run(ctx, EventLedgerEntryVoided, func(ctx context.Context) error {
		original, err := c.entries.FindByID(ctx, entryID)
		if err != nil {
			return err
		}

		existing, err := c.entries.FindCompensationFor(ctx, entryID)
		if err == nil {
			result = &EntryResult{TransactionID: existing.ID, Number: existing.Number, AlreadyVoided: true}
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		number, err := c.allocator.Allocate(ctx, numbering.DocumentTypeLedgerEntry)
		if err != nil {
			return err
		}
		void, err := ledger.NewCompensatingTransaction(number, original, time.Now(), reason)
		if err != nil {
			return err
		}

		if err := c.entries.Save(ctx, void); err != nil {
			return err
		}

		result = &EntryResult{TransactionID: void.ID, Number: void.Number}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteLatestEntry hard-deletes a ledger entry. The store only allows the
// most recent entry to go; anything older must be voided instead.
func (c *Composer) DeleteLatestEntry(ctx context.Context, entryID uuid.UUID) error {
	return c.run(ctx, EventLedgerEntryDeleted, func(ctx context.Context) error {
		return c.entries.Delete(ctx, entryID)
	})
}
