// Package numbering allocates the human-readable sequential numbers carried
// by every document in the system (quotes, sales, purchases, ledger entries).
//
// There is no dedicated counter table: the next number is derived from the
// rows that already exist, so under concurrent writers the read is stale by
// the time of insert. The unique constraint on (document type, number) is the
// actual arbiter of "was this number taken"; the allocator optimistically
// reserves and retries on conflict.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alumac/backend/internal/domain/shared"
)

// DocumentType identifies a numbered document series.
type DocumentType string

const (
	DocumentTypeQuote            DocumentType = "QUOTE"
	DocumentTypeSale             DocumentType = "SALE"
	DocumentTypeMaterialPurchase DocumentType = "MATERIAL_PURCHASE"
	DocumentTypeLedgerEntry      DocumentType = "LEDGER_ENTRY"
)

// IsValid checks if the document type is a known series
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeQuote, DocumentTypeSale, DocumentTypeMaterialPurchase, DocumentTypeLedgerEntry:
		return true
	}
	return false
}

// Prefix returns the human-readable prefix of the series
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeQuote:
		return "PRES"
	case DocumentTypeSale:
		return "PED"
	case DocumentTypeMaterialPurchase:
		return "COMP"
	case DocumentTypeLedgerEntry:
		return "TRX"
	}
	return ""
}

// YearScoped reports whether the series restarts every year.
// Ledger entries form a single continuous series.
func (t DocumentType) YearScoped() bool {
	return t != DocumentTypeLedgerEntry
}

// Format renders a document number for the series. Year is ignored for
// series that are not year scoped.
func Format(docType DocumentType, year, sequence int) string {
	if docType.YearScoped() {
		return fmt.Sprintf("%s-%d-%03d", docType.Prefix(), year, sequence)
	}
	return fmt.Sprintf("%s-%03d", docType.Prefix(), sequence)
}

// ParseSequence extracts the numeric suffix from a document number.
// Returns 0 for numbers that do not belong to the expected series shape.
func ParseSequence(number string) int {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil || seq < 0 {
		return 0
	}
	return seq
}

// Store is the persistence contract the allocator relies on. Reserve must
// fail with shared.ErrAlreadyExists (not silently succeed) when a concurrent
// allocator already took the number, and must leave any surrounding
// transaction usable so the next attempt can read and insert on it.
type Store interface {
	// MaxSequence returns the highest sequence already allocated for the
	// series (scoped to year when the series is year scoped), 0 when none.
	MaxSequence(ctx context.Context, docType DocumentType, year int) (int, error)

	// Reserve registers the number for the series, enforcing uniqueness.
	Reserve(ctx context.Context, docType DocumentType, year, sequence int, number string) error
}

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 25 * time.Millisecond
)

// Allocator mints collision-free document numbers against a shared Store.
type Allocator struct {
	store       Store
	maxAttempts int
	backoff     time.Duration

	// overridable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// NewAllocator creates an allocator with the default retry policy.
func NewAllocator(store Store) *Allocator {
	return &Allocator{
		store:       store,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// Allocate mints the next number of the series. On a reservation conflict it
// re-reads the series maximum and retries with a short backoff; after
// exhausting attempts it surfaces shared.ErrNumberingContention so callers
// can retry later instead of falling back to a non-unique number.
func (a *Allocator) Allocate(ctx context.Context, docType DocumentType) (string, error) {
	if !docType.IsValid() {
		return "", shared.ErrInvalidInput
	}

	year := a.now().Year()
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		maxSeq, err := a.store.MaxSequence(ctx, docType, year)
		if err != nil {
			return "", fmt.Errorf("reading series maximum for %s: %w", docType, err)
		}

		sequence := maxSeq + 1
		number := Format(docType, year, sequence)

		err = a.store.Reserve(ctx, docType, year, sequence, number)
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return "", fmt.Errorf("reserving %s: %w", number, err)
		}

		// A concurrent allocator won the race; back off and re-read.
		if attempt < a.maxAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}
			a.sleep(a.backoff * time.Duration(attempt))
		}
	}

	return "", shared.ErrNumberingContention
}
