package repositories

import (
	"time"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/errors"
	"gorm.io/gorm"
)

type FinanceRepository struct {
	db *gorm.DB
}

func NewFinanceRepository(db *gorm.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// CreateRecord creates a new finance record
func (r *FinanceRepository) CreateRecord(record *models.FinanceRecord) error {
	result := r.db.Create(record)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create finance record")
	}
	return nil
}

// MonthlySummary holds income/expense totals for one month
type MonthlySummary struct {
	Income  float64
	Expense float64
}

// SummaryForMonth sums a farm's income and expenses for one calendar month
func (r *FinanceRepository) SummaryForMonth(farmID uint, year int, month time.Month) (*MonthlySummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	summary := &MonthlySummary{}
	rows := []struct {
		Kind  string
		Total float64
	}{}

	result := r.db.Model(&models.FinanceRecord{}).
		Select("kind, COALESCE(SUM(amount), 0) AS total").
		Where("farm_id = ? AND record_date >= ? AND record_date < ?", farmID, from, to).
		Group("kind").
		Scan(&rows)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to summarize finances")
	}

	for _, row := range rows {
		switch row.Kind {
		case models.FinanceIncome:
			summary.Income = row.Total
		case models.FinanceExpense:
			summary.Expense = row.Total
		}
	}

	return summary, nil
}

// ListForRange returns all finance records of a farm within [from, to)
func (r *FinanceRepository) ListForRange(farmID uint, from, to time.Time) ([]models.FinanceRecord, error) {
	var records []models.FinanceRecord
	result := r.db.Where("farm_id = ? AND record_date >= ? AND record_date < ?", farmID, from, to).
		Order("record_date").
		Find(&records)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list finance records")
	}

	return records, nil
}
