// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"moneta/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("investment_category", validateInvestmentCategory)
		_ = v.RegisterValidation("investment_kind", validateInvestmentKind)
		_ = v.RegisterValidation("billing_cycle", validateBillingCycle)
		_ = v.RegisterValidation("subscription_status", validateSubscriptionStatus)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
	}
}

func validateInvestmentCategory(fl validator.FieldLevel) bool {
	return models.ValidInvestmentCategory(models.InvestmentCategory(fl.Field().String()))
}

func validateInvestmentKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case string(models.InvestmentKindLumpSum), string(models.InvestmentKindRecurring):
		return true
	}
	return false
}

func validateBillingCycle(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case string(models.BillingCycleMonthly), string(models.BillingCycleYearly):
		return true
	}
	return false
}

func validateSubscriptionStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case string(models.SubscriptionStatusActive), string(models.SubscriptionStatusCancelled):
		return true
	}
	return false
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case string(models.TransactionTypeIncome), string(models.TransactionTypeExpense):
		return true
	}
	return false
}
