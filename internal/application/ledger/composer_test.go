package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alumac/backend/internal/domain/inventory"
	domledger "github.com/alumac/backend/internal/domain/ledger"
	"github.com/alumac/backend/internal/domain/numbering"
	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/domain/sale"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// passthroughUow runs the function directly; the fakes have no transactions
type passthroughUow struct{}

func (passthroughUow) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNumberStore struct {
	mu    sync.Mutex
	taken map[string]bool
	max   map[string]int
}

func newFakeNumberStore() *fakeNumberStore {
	return &fakeNumberStore{taken: make(map[string]bool), max: make(map[string]int)}
}

func (f *fakeNumberStore) key(docType numbering.DocumentType, year int) string {
	if docType.YearScoped() {
		return fmt.Sprintf("%s-%d", docType, year)
	}
	return string(docType)
}

func (f *fakeNumberStore) MaxSequence(_ context.Context, docType numbering.DocumentType, year int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.max[f.key(docType, year)], nil
}

func (f *fakeNumberStore) Reserve(_ context.Context, docType numbering.DocumentType, year, sequence int, number string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taken[number] {
		return shared.ErrAlreadyExists
	}
	f.taken[number] = true
	if sequence > f.max[f.key(docType, year)] {
		f.max[f.key(docType, year)] = sequence
	}
	return nil
}

type fakeQuotes struct {
	byID map[uuid.UUID]*quote.Quote
}

func newFakeQuotes() *fakeQuotes { return &fakeQuotes{byID: make(map[uuid.UUID]*quote.Quote)} }

func (f *fakeQuotes) FindByID(_ context.Context, id uuid.UUID) (*quote.Quote, error) {
	if q, ok := f.byID[id]; ok {
		return q, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeQuotes) FindByNumber(context.Context, string) (*quote.Quote, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeQuotes) FindAll(context.Context, shared.Filter) ([]quote.Quote, error) {
	return nil, nil
}
func (f *fakeQuotes) FindByClient(context.Context, uuid.UUID, shared.Filter) ([]quote.Quote, error) {
	return nil, nil
}
func (f *fakeQuotes) FindByStatus(context.Context, quote.Status, shared.Filter) ([]quote.Quote, error) {
	return nil, nil
}
func (f *fakeQuotes) Save(_ context.Context, q *quote.Quote) error {
	f.byID[q.ID] = q
	return nil
}
func (f *fakeQuotes) Delete(context.Context, uuid.UUID) error            { return nil }
func (f *fakeQuotes) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

type fakeSales struct {
	byID    map[uuid.UUID]*sale.Sale
	byQuote map[uuid.UUID]*sale.Sale
}

func newFakeSales() *fakeSales {
	return &fakeSales{byID: make(map[uuid.UUID]*sale.Sale), byQuote: make(map[uuid.UUID]*sale.Sale)}
}

func (f *fakeSales) FindByID(_ context.Context, id uuid.UUID) (*sale.Sale, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeSales) FindByNumber(context.Context, string) (*sale.Sale, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeSales) FindByQuoteID(_ context.Context, quoteID uuid.UUID) (*sale.Sale, error) {
	if s, ok := f.byQuote[quoteID]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeSales) ExistsByQuoteID(_ context.Context, quoteID uuid.UUID) (bool, error) {
	_, ok := f.byQuote[quoteID]
	return ok, nil
}
func (f *fakeSales) FindAll(context.Context, shared.Filter) ([]sale.Sale, error) { return nil, nil }
func (f *fakeSales) FindByClient(context.Context, uuid.UUID, shared.Filter) ([]sale.Sale, error) {
	return nil, nil
}
func (f *fakeSales) FindByStatus(context.Context, sale.Status, shared.Filter) ([]sale.Sale, error) {
	return nil, nil
}
func (f *fakeSales) Save(_ context.Context, s *sale.Sale) error {
	if s.QuoteID != nil {
		if existing, ok := f.byQuote[*s.QuoteID]; ok && existing.ID != s.ID {
			return shared.ErrAlreadyExists
		}
		f.byQuote[*s.QuoteID] = s
	}
	f.byID[s.ID] = s
	return nil
}
func (f *fakeSales) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

type fakeEntries struct {
	list []*domledger.Transaction
}

func (f *fakeEntries) FindByID(_ context.Context, id uuid.UUID) (*domledger.Transaction, error) {
	for _, t := range f.list {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}
func (f *fakeEntries) FindByNumber(context.Context, string) (*domledger.Transaction, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeEntries) FindAll(context.Context, shared.Filter) ([]domledger.Transaction, error) {
	return nil, nil
}
func (f *fakeEntries) FindByKind(_ context.Context, kind domledger.Kind, _ shared.Filter) ([]domledger.Transaction, error) {
	var out []domledger.Transaction
	for _, t := range f.list {
		if t.Kind == kind {
			out = append(out, *t)
		}
	}
	return out, nil
}
func (f *fakeEntries) FindBySale(_ context.Context, saleID uuid.UUID) ([]domledger.Transaction, error) {
	var out []domledger.Transaction
	for _, t := range f.list {
		if t.SaleID != nil && *t.SaleID == saleID {
			out = append(out, *t)
		}
	}
	return out, nil
}
func (f *fakeEntries) FindByDateRange(context.Context, time.Time, time.Time, shared.Filter) ([]domledger.Transaction, error) {
	return nil, nil
}
func (f *fakeEntries) FindCompensationFor(_ context.Context, id uuid.UUID) (*domledger.Transaction, error) {
	for _, t := range f.list {
		if t.CompensatingFor != nil && *t.CompensatingFor == id {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}
func (f *fakeEntries) FindLatest(context.Context) (*domledger.Transaction, error) {
	if len(f.list) == 0 {
		return nil, shared.ErrNotFound
	}
	return f.list[len(f.list)-1], nil
}
func (f *fakeEntries) Save(_ context.Context, t *domledger.Transaction) error {
	f.list = append(f.list, t)
	return nil
}
func (f *fakeEntries) Delete(_ context.Context, id uuid.UUID) error {
	if len(f.list) == 0 {
		return shared.ErrNotFound
	}
	if f.list[len(f.list)-1].ID != id {
		return shared.ErrLedgerEntryImmutable
	}
	f.list = f.list[:len(f.list)-1]
	return nil
}
func (f *fakeEntries) Balance(_ context.Context, currency valueobject.Currency) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range f.list {
		if t.Currency == currency {
			sum = sum.Add(t.SignedAmount())
		}
	}
	return sum, nil
}
func (f *fakeEntries) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(f.list)), nil
}

// fakeMaterials hands out copies the way a repository hands out freshly
// loaded rows, so version checks behave like they do against a database.
// beforeLock, when set, runs before SaveWithLock's version check to let a
// test slip a concurrent writer in between read and write.
type fakeMaterials struct {
	byID       map[uuid.UUID]*inventory.Material
	beforeLock func()
}

func newFakeMaterials() *fakeMaterials {
	return &fakeMaterials{byID: make(map[uuid.UUID]*inventory.Material)}
}

func (f *fakeMaterials) FindByID(_ context.Context, id uuid.UUID) (*inventory.Material, error) {
	if m, ok := f.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakeMaterials) FindByCode(context.Context, string) (*inventory.Material, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeMaterials) FindAll(context.Context, shared.Filter) ([]inventory.Material, error) {
	return nil, nil
}
func (f *fakeMaterials) FindBelowMinimum(context.Context) ([]inventory.Material, error) {
	return nil, nil
}
func (f *fakeMaterials) Save(_ context.Context, m *inventory.Material) error {
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}
func (f *fakeMaterials) SaveWithLock(_ context.Context, m *inventory.Material) error {
	if f.beforeLock != nil {
		f.beforeLock()
	}
	stored, ok := f.byID[m.ID]
	if !ok || stored.Version != m.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}
func (f *fakeMaterials) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

type fakeMovements struct {
	list []*inventory.StockMovement
}

func (f *fakeMovements) FindByMaterial(_ context.Context, materialID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, mv := range f.list {
		if mv.MaterialID == materialID {
			out = append(out, *mv)
		}
	}
	return out, nil
}
func (f *fakeMovements) FindLatestByMaterial(_ context.Context, materialID uuid.UUID) (*inventory.StockMovement, error) {
	for i := len(f.list) - 1; i >= 0; i-- {
		if f.list[i].MaterialID == materialID {
			return f.list[i], nil
		}
	}
	return nil, shared.ErrNotFound
}
func (f *fakeMovements) Save(_ context.Context, mv *inventory.StockMovement) error {
	f.list = append(f.list, mv)
	return nil
}

type fakePurchases struct {
	byID map[uuid.UUID]*inventory.MaterialPurchase
}

func newFakePurchases() *fakePurchases {
	return &fakePurchases{byID: make(map[uuid.UUID]*inventory.MaterialPurchase)}
}

func (f *fakePurchases) FindByID(_ context.Context, id uuid.UUID) (*inventory.MaterialPurchase, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}
func (f *fakePurchases) FindByNumber(context.Context, string) (*inventory.MaterialPurchase, error) {
	return nil, shared.ErrNotFound
}
func (f *fakePurchases) FindBySupplier(context.Context, uuid.UUID, shared.Filter) ([]inventory.MaterialPurchase, error) {
	return nil, nil
}
func (f *fakePurchases) FindByMaterial(context.Context, uuid.UUID, shared.Filter) ([]inventory.MaterialPurchase, error) {
	return nil, nil
}
func (f *fakePurchases) FindAll(context.Context, shared.Filter) ([]inventory.MaterialPurchase, error) {
	return nil, nil
}
func (f *fakePurchases) Save(_ context.Context, p *inventory.MaterialPurchase) error {
	f.byID[p.ID] = p
	return nil
}
func (f *fakePurchases) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

type composerFixture struct {
	composer  *Composer
	quotes    *fakeQuotes
	sales     *fakeSales
	entries   *fakeEntries
	materials *fakeMaterials
	movements *fakeMovements
	purchases *fakePurchases
}

func newComposerFixture() *composerFixture {
	f := &composerFixture{
		quotes:    newFakeQuotes(),
		sales:     newFakeSales(),
		entries:   &fakeEntries{},
		materials: newFakeMaterials(),
		movements: &fakeMovements{},
		purchases: newFakePurchases(),
	}
	f.composer = NewComposer(ComposerDeps{
		UnitOfWork: passthroughUow{},
		Allocator:  numbering.NewAllocator(newFakeNumberStore()),
		Quotes:     f.quotes,
		Sales:      f.sales,
		Entries:    f.entries,
		Materials:  f.materials,
		Movements:  f.movements,
		Purchases:  f.purchases,
		Logger:     zap.NewNop(),
		Tracer:     noop.NewTracerProvider().Tracer("test"),
	})
	return f
}

func approvedQuote(t *testing.T, f *composerFixture) *quote.Quote {
	t.Helper()
	issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	q, err := quote.NewQuote("PRES-2025-001", uuid.New(), issue, issue.AddDate(0, 1, 0), valueobject.ARS)
	assert.NoError(t, err)
	_, err = q.AddItem("frame", dec("2"), dec("1000"), dec("0"))
	assert.NoError(t, err)
	_, err = q.AddItem("glass", dec("1"), dec("500"), dec("10"))
	assert.NoError(t, err)
	assert.NoError(t, q.SetDiscount(dec("5")))
	assert.NoError(t, q.SetTax(dec("21")))
	assert.NoError(t, q.Send())
	assert.NoError(t, q.Approve())
	assert.NoError(t, f.quotes.Save(context.Background(), q))
	return q
}

func TestConvertQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("creates sale with quote totals verbatim", func(t *testing.T) {
		f := newComposerFixture()
		q := approvedQuote(t, f)

		res, err := f.composer.ConvertQuote(ctx, q.ID)
		assert.NoError(t, err)
		assert.False(t, res.AlreadyConverted)
		assert.Contains(t, res.SaleNumber, "PED-")

		s, err := f.sales.FindByID(ctx, res.SaleID)
		assert.NoError(t, err)
		assert.Equal(t, "2816.28", s.Total.StringFixed(2))
		assert.Equal(t, "2816.28", s.BalanceDue.StringFixed(2))
		assert.Equal(t, q.ID, *s.QuoteID)
		assert.Equal(t, 2, s.ItemCount())
		assert.Equal(t, quote.StatusConverted, q.Status)
	})

	t.Run("second conversion returns the original sale", func(t *testing.T) {
		f := newComposerFixture()
		q := approvedQuote(t, f)

		first, err := f.composer.ConvertQuote(ctx, q.ID)
		assert.NoError(t, err)

		second, err := f.composer.ConvertQuote(ctx, q.ID)
		assert.NoError(t, err)
		assert.True(t, second.AlreadyConverted)
		assert.Equal(t, first.SaleID, second.SaleID)
		assert.Equal(t, first.SaleNumber, second.SaleNumber)
		assert.Len(t, f.sales.byID, 1)
	})

	t.Run("rejected quote cannot convert", func(t *testing.T) {
		f := newComposerFixture()
		issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		q, err := quote.NewQuote("PRES-2025-002", uuid.New(), issue, issue.AddDate(0, 1, 0), valueobject.ARS)
		assert.NoError(t, err)
		_, err = q.AddItem("frame", dec("1"), dec("100"), dec("0"))
		assert.NoError(t, err)
		assert.NoError(t, q.Reject("too expensive"))
		assert.NoError(t, f.quotes.Save(ctx, q))

		_, err = f.composer.ConvertQuote(ctx, q.ID)
		var derr *shared.DomainError
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
		assert.Empty(t, f.sales.byID)
	})

	t.Run("unknown quote surfaces not found", func(t *testing.T) {
		f := newComposerFixture()
		_, err := f.composer.ConvertQuote(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRecordMaterialPurchase(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)

	t.Run("purchase composes stock and ledger writes", func(t *testing.T) {
		f := newComposerFixture()
		material, err := inventory.NewMaterial("ALU-6060", "Aluminum profile", inventory.UnitMeter, dec("20"), dec("1500"))
		assert.NoError(t, err)
		material.StockActual = dec("100")
		assert.NoError(t, f.materials.Save(ctx, material))

		res, err := f.composer.RecordMaterialPurchase(ctx, MaterialPurchaseInput{
			MaterialID:    material.ID,
			SupplierID:    uuid.New(),
			Quantity:      dec("50"),
			UnitPrice:     dec("1600"),
			Currency:      valueobject.ARS,
			Date:          date,
			PaymentMethod: domledger.PaymentMethodTransfer,
		})
		assert.NoError(t, err)

		assert.Equal(t, "100", res.StockBefore.String())
		assert.Equal(t, "150", res.StockAfter.String())
		assert.Equal(t, "80000.00", res.Total.StringFixed(2))

		stored, err := f.materials.FindByID(ctx, material.ID)
		assert.NoError(t, err)
		assert.Equal(t, "150", stored.StockActual.String())

		payments, err := f.entries.FindByKind(ctx, domledger.KindSupplierPayment, shared.Filter{})
		assert.NoError(t, err)
		assert.Len(t, payments, 1)
		assert.Equal(t, "80000.00", payments[0].Amount.StringFixed(2))
		assert.Equal(t, res.PurchaseID, *payments[0].PurchaseID)

		assert.Len(t, f.movements.list, 1)
		assert.Equal(t, inventory.MovementIn, f.movements.list[0].Kind)

		purchase, err := f.purchases.FindByID(ctx, res.PurchaseID)
		assert.NoError(t, err)
		assert.Equal(t, inventory.PaymentStatusPaid, purchase.PaymentStatus)
	})

	t.Run("losing a stock race re-runs against fresh stock", func(t *testing.T) {
		f := newComposerFixture()
		material, err := inventory.NewMaterial("ALU-6060", "Aluminum profile", inventory.UnitMeter, dec("20"), dec("1500"))
		assert.NoError(t, err)
		material.StockActual = dec("100")
		assert.NoError(t, f.materials.Save(ctx, material))

		// Another restock of 50 lands between this event's read and write.
		raced := false
		f.materials.beforeLock = func() {
			if raced {
				return
			}
			raced = true
			rival := f.materials.byID[material.ID]
			rival.StockActual = rival.StockActual.Add(dec("50"))
			rival.IncrementVersion()
		}

		res, err := f.composer.RecordMaterialPurchase(ctx, MaterialPurchaseInput{
			MaterialID: material.ID,
			SupplierID: uuid.New(),
			Quantity:   dec("50"),
			UnitPrice:  dec("1600"),
			Currency:   valueobject.ARS,
			Date:       date,
		})
		assert.NoError(t, err)

		// Both restocks count: the retried movement starts from the
		// rival's 150, not from the stale 100 read.
		assert.Equal(t, "150", res.StockBefore.String())
		assert.Equal(t, "200", res.StockAfter.String())

		stored, err := f.materials.FindByID(ctx, material.ID)
		assert.NoError(t, err)
		assert.Equal(t, "200", stored.StockActual.String())
	})

	t.Run("persistent contention surfaces the conflict", func(t *testing.T) {
		f := newComposerFixture()
		material, err := inventory.NewMaterial("ALU-6060", "Aluminum profile", inventory.UnitMeter, dec("20"), dec("1500"))
		assert.NoError(t, err)
		assert.NoError(t, f.materials.Save(ctx, material))

		f.materials.beforeLock = func() {
			rival := f.materials.byID[material.ID]
			rival.IncrementVersion()
		}

		_, err = f.composer.RecordMaterialPurchase(ctx, MaterialPurchaseInput{
			MaterialID: material.ID,
			SupplierID: uuid.New(),
			Quantity:   dec("10"),
			UnitPrice:  dec("1600"),
			Currency:   valueobject.ARS,
			Date:       date,
		})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("inactive material rejected with no writes", func(t *testing.T) {
		f := newComposerFixture()
		material, err := inventory.NewMaterial("VID-4", "Glass 4mm", inventory.UnitSqM, dec("5"), dec("900"))
		assert.NoError(t, err)
		material.Deactivate()
		assert.NoError(t, f.materials.Save(ctx, material))

		_, err = f.composer.RecordMaterialPurchase(ctx, MaterialPurchaseInput{
			MaterialID: material.ID,
			SupplierID: uuid.New(),
			Quantity:   dec("10"),
			UnitPrice:  dec("900"),
			Currency:   valueobject.ARS,
			Date:       date,
		})
		assert.Error(t, err)
		assert.Empty(t, f.entries.list)
		assert.Empty(t, f.movements.list)
	})
}

func TestRecordSalePayment(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	newSale := func(t *testing.T, f *composerFixture) *sale.Sale {
		t.Helper()
		s, err := sale.NewSale("PED-2025-001", uuid.New(), valueobject.ARS)
		assert.NoError(t, err)
		_, err = s.AddItem("window", dec("1"), dec("1000"), dec("0"))
		assert.NoError(t, err)
		assert.NoError(t, f.sales.Save(ctx, s))
		return s
	}

	t.Run("payment before delivery is an advance", func(t *testing.T) {
		f := newComposerFixture()
		s := newSale(t, f)

		res, err := f.composer.RecordSalePayment(ctx, SalePaymentInput{
			SaleID:   s.ID,
			Amount:   dec("400"),
			Currency: valueobject.ARS,
			Date:     date,
		})
		assert.NoError(t, err)
		assert.Equal(t, domledger.KindAdvance, res.Kind)
		assert.Equal(t, "600.00", res.BalanceDue.StringFixed(2))
		assert.False(t, res.FullyPaid)

		linked, err := f.entries.FindBySale(ctx, s.ID)
		assert.NoError(t, err)
		assert.Len(t, linked, 1)
	})

	t.Run("payment after delivery is income", func(t *testing.T) {
		f := newComposerFixture()
		s := newSale(t, f)
		assert.NoError(t, s.StartProduction())
		assert.NoError(t, s.MarkReady())
		assert.NoError(t, s.MarkDelivered())

		res, err := f.composer.RecordSalePayment(ctx, SalePaymentInput{
			SaleID:   s.ID,
			Amount:   dec("1000"),
			Currency: valueobject.ARS,
			Date:     date,
		})
		assert.NoError(t, err)
		assert.Equal(t, domledger.KindIncome, res.Kind)
		assert.True(t, res.FullyPaid)
	})

	t.Run("overpayment leaves no ledger entry", func(t *testing.T) {
		f := newComposerFixture()
		s := newSale(t, f)

		_, err := f.composer.RecordSalePayment(ctx, SalePaymentInput{
			SaleID:   s.ID,
			Amount:   dec("1500"),
			Currency: valueobject.ARS,
			Date:     date,
		})
		assert.ErrorIs(t, err, shared.ErrPaymentExceedsTotal)
		assert.Empty(t, f.entries.list)
	})
}

func TestRecordGeneralExpense(t *testing.T) {
	ctx := context.Background()
	f := newComposerFixture()

	res, err := f.composer.RecordGeneralExpense(ctx, GeneralExpenseInput{
		Description: "workshop rent",
		Amount:      dec("120000"),
		Currency:    valueobject.ARS,
		Date:        time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
	assert.Contains(t, res.Number, "TRX-")

	balance, err := f.entries.Balance(ctx, valueobject.ARS)
	assert.NoError(t, err)
	assert.Equal(t, "-120000", balance.String())
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	f := newComposerFixture()

	material, err := inventory.NewMaterial("TOR-8", "Screws 8mm", inventory.UnitPiece, dec("100"), dec("15"))
	assert.NoError(t, err)
	material.StockActual = dec("500")
	assert.NoError(t, f.materials.Save(ctx, material))

	res, err := f.composer.AdjustStock(ctx, StockAdjustmentInput{
		MaterialID: material.ID,
		Quantity:   dec("-20"),
		Reason:     "yearly count",
	})
	assert.NoError(t, err)
	assert.Equal(t, "500", res.StockBefore.String())
	assert.Equal(t, "480", res.StockAfter.String())

	stored, err := f.materials.FindByID(ctx, material.ID)
	assert.NoError(t, err)
	assert.Equal(t, "480", stored.StockActual.String())
	assert.Empty(t, f.entries.list) // adjustments never touch the ledger
}

func TestVoidEntry(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("void nets the entry to zero and is idempotent", func(t *testing.T) {
		f := newComposerFixture()
		original, err := domledger.NewTransaction("TRX-001", domledger.KindIncome, date, valueobject.NewMoneyARS(dec("1000")), "duplicate income")
		assert.NoError(t, err)
		assert.NoError(t, f.entries.Save(ctx, original))

		res, err := f.composer.VoidEntry(ctx, original.ID, "entered twice")
		assert.NoError(t, err)
		assert.False(t, res.AlreadyVoided)

		balance, err := f.entries.Balance(ctx, valueobject.ARS)
		assert.NoError(t, err)
		assert.True(t, balance.IsZero())

		again, err := f.composer.VoidEntry(ctx, original.ID, "entered twice")
		assert.NoError(t, err)
		assert.True(t, again.AlreadyVoided)
		assert.Equal(t, res.TransactionID, again.TransactionID)
		assert.Len(t, f.entries.list, 2)
	})
}

func TestDeleteLatestEntry(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	f := newComposerFixture()

	first, err := domledger.NewTransaction("TRX-001", domledger.KindIncome, date, valueobject.NewMoneyARS(dec("100")), "a")
	assert.NoError(t, err)
	second, err := domledger.NewTransaction("TRX-002", domledger.KindIncome, date, valueobject.NewMoneyARS(dec("200")), "b")
	assert.NoError(t, err)
	assert.NoError(t, f.entries.Save(ctx, first))
	assert.NoError(t, f.entries.Save(ctx, second))

	assert.ErrorIs(t, f.composer.DeleteLatestEntry(ctx, first.ID), shared.ErrLedgerEntryImmutable)
	assert.NoError(t, f.composer.DeleteLatestEntry(ctx, second.ID))
	assert.Len(t, f.entries.list, 1)
}
