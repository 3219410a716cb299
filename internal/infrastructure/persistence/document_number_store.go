package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alumac/backend/internal/domain/numbering"
	"github.com/alumac/backend/internal/domain/shared"
)

// DocumentNumber is a reserved document number. The unique index on
// (doc_type, year, sequence) is the arbiter between concurrent allocators.
type DocumentNumber struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	DocType   string `gorm:"type:varchar(30);not null;uniqueIndex:idx_document_numbers_series,priority:1"`
	Year      int    `gorm:"not null;uniqueIndex:idx_document_numbers_series,priority:2"`
	Sequence  int    `gorm:"not null;uniqueIndex:idx_document_numbers_series,priority:3"`
	Number    string `gorm:"type:varchar(50);not null;uniqueIndex"`
	CreatedAt time.Time
}

// TableName returns the table name for DocumentNumber
func (DocumentNumber) TableName() string {
	return "document_numbers"
}

// GormDocumentNumberStore implements numbering.Store using GORM
type GormDocumentNumberStore struct {
	db *gorm.DB
}

// NewGormDocumentNumberStore creates a new GormDocumentNumberStore
func NewGormDocumentNumberStore(db *gorm.DB) *GormDocumentNumberStore {
	return &GormDocumentNumberStore{db: db}
}

// MaxSequence returns the highest sequence already allocated for the series.
// Year-scoped series restart at 1 every year; the ledger series does not.
func (s *GormDocumentNumberStore) MaxSequence(ctx context.Context, docType numbering.DocumentType, year int) (int, error) {
	query := dbFromContext(ctx, s.db).WithContext(ctx).
		Model(&DocumentNumber{}).
		Where("doc_type = ?", string(docType))
	if docType.YearScoped() {
		query = query.Where("year = ?", year)
	}

	var max *int
	if err := query.Select("MAX(sequence)").Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Reserve registers the number for the series. A concurrent reservation of
// the same sequence surfaces as shared.ErrAlreadyExists so the allocator
// can retry with a fresh read. The insert uses ON CONFLICT DO NOTHING
// rather than letting the unique index raise: a constraint error would
// abort the surrounding transaction on postgres and poison the retry.
func (s *GormDocumentNumberStore) Reserve(ctx context.Context, docType numbering.DocumentType, year, sequence int, number string) error {
	record := DocumentNumber{
		DocType:  string(docType),
		Year:     year,
		Sequence: sequence,
		Number:   number,
	}
	if !docType.YearScoped() {
		record.Year = 0
	}

	res := dbFromContext(ctx, s.db).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrAlreadyExists
	}
	return nil
}

// Ensure GormDocumentNumberStore implements numbering.Store
var _ numbering.Store = (*GormDocumentNumberStore)(nil)
