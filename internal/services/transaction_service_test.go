package services

import (
	"testing"
	"time"

	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("creates_manual_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, "Groceries", "weekly shop", 4550,
			models.TransactionTypeExpense, time.Now())
		testutil.AssertNoError(t, err)

		if tx.OriginType != models.OriginManual {
			t.Errorf("expected manual origin, got %s", tx.OriginType)
		}
		if tx.IsShadow() {
			t.Error("manual entry must not be a shadow")
		}
	})

	t.Run("empty_category_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, "", "", 100, models.TransactionTypeExpense, time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("updates_manual_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000)

		amount := int64(2000)
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{Amount: &amount})
		testutil.AssertNoError(t, err)
		if updated.Amount != 2000 {
			t.Errorf("expected amount 2000, got %d", updated.Amount)
		}
	})

	t.Run("shadow_entry_is_not_editable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		originID := uint(1)
		shadow := &models.Transaction{
			UserID:     user.ID,
			Category:   "Gold",
			Amount:     100000,
			Type:       models.TransactionTypeExpense,
			Date:       time.Now(),
			OriginType: models.OriginInvestment,
			OriginID:   &originID,
		}
		testutil.AssertNoError(t, db.Create(shadow).Error)

		amount := int64(1)
		_, err := svc.UpdateTransaction(user.ID, shadow.ID, TransactionUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_EDITABLE")

		var stored models.Transaction
		testutil.AssertNoError(t, db.First(&stored, shadow.ID).Error)
		if stored.Amount != 100000 {
			t.Errorf("rejected edit must not change the shadow, got %d", stored.Amount)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("deletes_manual_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, 1000)

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

		_, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("shadow_delete_is_permitted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		originID := uint(9)
		shadow := &models.Transaction{
			UserID:     user.ID,
			Category:   "Gold",
			Amount:     100000,
			Type:       models.TransactionTypeExpense,
			Date:       time.Now(),
			OriginType: models.OriginInvestment,
			OriginID:   &originID,
		}
		testutil.AssertNoError(t, db.Create(shadow).Error)

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, shadow.ID))
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("filters_by_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, 100)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 200)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 300)

		expense := models.TransactionTypeExpense
		result, err := svc.GetUserTransactions(user.ID,
			pagination.PageRequest{Page: 1, PageSize: 20},
			TransactionFilter{Type: &expense})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 expenses, got %d", result.TotalItems)
		}
	})

	t.Run("filters_by_amount_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 100)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 500)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000)

		min, max := int64(200), int64(800)
		result, err := svc.GetUserTransactions(user.ID,
			pagination.PageRequest{Page: 1, PageSize: 20},
			TransactionFilter{MinAmount: &min, MaxAmount: &max})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction in range, got %d", result.TotalItems)
		}
	})

	t.Run("filters_by_date_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		old := &models.Transaction{
			UserID:     user.ID,
			Category:   "Rent",
			Amount:     90000,
			Type:       models.TransactionTypeExpense,
			Date:       time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
			OriginType: models.OriginManual,
		}
		testutil.AssertNoError(t, db.Create(old).Error)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 100)

		from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		result, err := svc.GetUserTransactions(user.ID,
			pagination.PageRequest{Page: 1, PageSize: 20},
			TransactionFilter{FromDate: &from})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction from 2024 on, got %d", result.TotalItems)
		}
	})

	t.Run("includes_shadow_entries_in_listing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		sync := NewLedgerSyncService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 100)
		sync.SyncCreate(user.ID, models.OriginInvestment, 1, ShadowFields{
			Category: "Gold", Description: "Gold investment", Amount: 100000, Date: time.Now(),
		})

		result, err := svc.GetUserTransactions(user.ID,
			pagination.PageRequest{Page: 1, PageSize: 20}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected manual and shadow entries listed together, got %d", result.TotalItems)
		}
	})
}
