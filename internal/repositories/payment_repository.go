package repositories

import (
	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/errors"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePayment creates a new payment record
func (r *PaymentRepository) CreatePayment(payment *models.Payment) error {
	result := r.db.Create(payment)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create payment")
	}
	return nil
}

// GetAwaitingByUser returns the user's pending payment, if any
func (r *PaymentRepository) GetAwaitingByUser(userID uint) (*models.Payment, error) {
	var payment models.Payment
	result := r.db.Where("user_id = ? AND status = ?", userID, models.PaymentAwaiting).
		Order("id DESC").
		First(&payment)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "no pending payment")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get payment")
	}

	return &payment, nil
}

// GetPaymentByID retrieves a payment by ID
func (r *PaymentRepository) GetPaymentByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	result := r.db.First(&payment, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "payment not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get payment")
	}

	return &payment, nil
}

// UpdateStatus moves a payment to a new status
func (r *PaymentRepository) UpdateStatus(paymentID uint, status string) error {
	result := r.db.Model(&models.Payment{}).Where("id = ?", paymentID).Update("status", status)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update payment")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "payment not found")
	}
	return nil
}
