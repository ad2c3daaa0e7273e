package services

import (
	"errors"

	"radhe_backend/pkg/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInstallmentExceedsTotal = errors.New("installments exceed the order total")
	ErrTotalAmountRequired     = errors.New("first installment must carry the total amount")
	ErrDuplicateInstallment    = errors.New("installment number already recorded for this order")
	ErrNonPositiveAmount       = errors.New("payment amount must be positive")
)

// InstallmentRequest is a new Product installment against an order
type InstallmentRequest struct {
	Number      int
	Amount      float64
	TotalAmount *float64
}

// InstallmentPlan is the resolved total and remaining balance after the new installment
type InstallmentPlan struct {
	TotalAmount     float64
	RemainingAmount float64
}

// PlanInstallment validates req against the order's existing Product installments.
// The first installment fixes the total; later ones inherit it and may not push the
// cumulative amount past it.
func PlanInstallment(existing []models.Payment, req InstallmentRequest) (InstallmentPlan, error) {
	amount := decimal.NewFromFloat(req.Amount)
	if !amount.IsPositive() {
		return InstallmentPlan{}, ErrNonPositiveAmount
	}

	var total *decimal.Decimal
	paid := decimal.Zero
	for _, p := range existing {
		if p.PaymentType != models.PaymentTypeProduct {
			continue
		}
		if p.InstallmentNumber != nil && *p.InstallmentNumber == req.Number {
			return InstallmentPlan{}, ErrDuplicateInstallment
		}
		if total == nil && p.TotalAmount != nil && *p.TotalAmount > 0 {
			t := decimal.NewFromFloat(*p.TotalAmount)
			total = &t
		}
		paid = paid.Add(decimal.NewFromFloat(p.PaymentAmount))
	}

	if total == nil {
		if req.TotalAmount == nil || *req.TotalAmount <= 0 {
			return InstallmentPlan{}, ErrTotalAmountRequired
		}
		t := decimal.NewFromFloat(*req.TotalAmount)
		total = &t
	}

	cumulative := paid.Add(amount)
	if cumulative.GreaterThan(*total) {
		return InstallmentPlan{}, ErrInstallmentExceedsTotal
	}

	return InstallmentPlan{
		TotalAmount:     total.Round(2).InexactFloat64(),
		RemainingAmount: total.Sub(cumulative).Round(2).InexactFloat64(),
	}, nil
}

// ToPaise converts rupees to the gateway's smallest currency unit
func ToPaise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
