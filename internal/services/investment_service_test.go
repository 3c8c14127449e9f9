package services

import (
	"testing"
	"time"

	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/testutil"

	"gorm.io/gorm"
)

func newInvestmentService(db *gorm.DB) InvestmentServicer {
	return NewInvestmentService(db, NewLedgerSyncService(db))
}

func shadowFor(t *testing.T, db *gorm.DB, userID uint, source models.TransactionOrigin, sourceID uint) []models.Transaction {
	t.Helper()
	var shadows []models.Transaction
	err := db.Where("user_id = ? AND origin_type = ? AND origin_id = ?", userID, source, sourceID).
		Find(&shadows).Error
	testutil.AssertNoError(t, err)
	return shadows
}

func TestCreateInvestment(t *testing.T) {
	jan1 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates_investment_with_shadow_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		inv, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryGold, "", 100000,
			models.InvestmentKindLumpSum, jan1, jan1, 0, nil)
		testutil.AssertNoError(t, err)
		if inv.ID == 0 {
			t.Fatal("expected non-zero investment ID")
		}

		shadows := shadowFor(t, db, user.ID, models.OriginInvestment, inv.ID)
		if len(shadows) != 1 {
			t.Fatalf("expected exactly one shadow transaction, got %d", len(shadows))
		}
		shadow := shadows[0]
		if shadow.Amount != 100000 {
			t.Errorf("expected shadow amount 100000, got %d", shadow.Amount)
		}
		if shadow.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense shadow, got %s", shadow.Type)
		}
		if shadow.Category != "Gold" {
			t.Errorf("expected category Gold, got %s", shadow.Category)
		}
		if !shadow.Date.Equal(jan1) {
			t.Errorf("expected shadow dated %v, got %v", jan1, shadow.Date)
		}
		if shadow.Description != "Gold investment" {
			t.Errorf("expected defaulted description, got %q", shadow.Description)
		}
	})

	t.Run("unknown_category_rejected_before_any_write", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateInvestment(user.ID, "Beanie Babies", "", 1000,
			models.InvestmentKindLumpSum, jan1, jan1, 0, nil)
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")

		var count int64
		testutil.AssertNoError(t, db.Model(&models.Investment{}).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected no investment rows, got %d", count)
		}
	})

	t.Run("negative_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryStocks, "", -1,
			models.InvestmentKindLumpSum, jan1, jan1, 0, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("end_date_before_start_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		end := jan1.AddDate(0, -6, 0)
		_, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryStocks, "", 1000,
			models.InvestmentKindRecurring, jan1, jan1, 8, &end)
		testutil.AssertAppError(t, err, "INVALID_PERIOD")
	})
}

func TestUpdateInvestment(t *testing.T) {
	t.Run("amount_change_updates_shadow_in_place", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)
		jan1 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

		inv, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryGold, "", 100000,
			models.InvestmentKindLumpSum, jan1, jan1, 0, nil)
		testutil.AssertNoError(t, err)

		newAmount := int64(150000)
		updated, err := svc.UpdateInvestment(user.ID, inv.ID, InvestmentUpdate{Amount: &newAmount})
		testutil.AssertNoError(t, err)
		if updated.Amount != 150000 {
			t.Errorf("expected amount 150000, got %d", updated.Amount)
		}

		shadows := shadowFor(t, db, user.ID, models.OriginInvestment, inv.ID)
		if len(shadows) != 1 {
			t.Fatalf("expected one shadow after update, got %d", len(shadows))
		}
		if shadows[0].Amount != 150000 {
			t.Errorf("expected shadow amount 150000, got %d", shadows[0].Amount)
		}
	})

	t.Run("drifted_shadow_does_not_fail_source_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)
		inv := testutil.CreateTestInvestment(t, db, user.ID, 100000) // no shadow created

		newAmount := int64(120000)
		updated, err := svc.UpdateInvestment(user.ID, inv.ID, InvestmentUpdate{Amount: &newAmount})
		testutil.AssertNoError(t, err)
		if updated.Amount != 120000 {
			t.Errorf("source update must stand despite drift, got amount %d", updated.Amount)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		amount := int64(1)
		_, err := svc.UpdateInvestment(user.ID, 999, InvestmentUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")
	})

	t.Run("other_users_investment_is_invisible", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		owner := testutil.CreateTestUser(t, db)
		stranger := testutil.CreateTestUser(t, db)
		inv := testutil.CreateTestInvestment(t, db, owner.ID, 100000)

		amount := int64(1)
		_, err := svc.UpdateInvestment(stranger.ID, inv.ID, InvestmentUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")
	})
}

func TestDeleteInvestment(t *testing.T) {
	t.Run("removes_investment_and_shadow", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)
		jan1 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

		inv, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryGold, "", 100000,
			models.InvestmentKindLumpSum, jan1, jan1, 0, nil)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteInvestment(user.ID, inv.ID))

		if shadows := shadowFor(t, db, user.ID, models.OriginInvestment, inv.ID); len(shadows) != 0 {
			t.Fatalf("expected shadow removed, found %d", len(shadows))
		}
		_, err = svc.GetInvestmentByID(user.ID, inv.ID)
		testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")
	})

	t.Run("delete_succeeds_when_shadow_already_gone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)
		inv := testutil.CreateTestInvestment(t, db, user.ID, 100000) // never synced

		testutil.AssertNoError(t, svc.DeleteInvestment(user.ID, inv.ID))
	})
}

func TestProjectInvestment(t *testing.T) {
	jan1 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	t.Run("lump_sum_with_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		inv, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryStocks, "index fund", 100000,
			models.InvestmentKindLumpSum, jan1, jan1, 12, nil)
		testutil.AssertNoError(t, err)

		at := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)
		proj, err := svc.ProjectInvestment(user.ID, inv.ID, &at)
		testutil.AssertNoError(t, err)

		if proj.Months != 2 {
			t.Errorf("expected 2 months (inclusive), got %d", proj.Months)
		}
		// 100000 * 1.01^2
		if proj.ProjectedValue != 102010 {
			t.Errorf("expected 102010, got %d", proj.ProjectedValue)
		}
		if !proj.HasProjection {
			t.Error("expected HasProjection with a positive rate")
		}
	})

	t.Run("zero_rate_mirrors_invested_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		inv, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryGold, "", 50000,
			models.InvestmentKindLumpSum, jan1, jan1, 0, nil)
		testutil.AssertNoError(t, err)

		at := jan1.AddDate(2, 0, 0)
		proj, err := svc.ProjectInvestment(user.ID, inv.ID, &at)
		testutil.AssertNoError(t, err)

		if proj.HasProjection {
			t.Error("expected no projection for a zero rate")
		}
		if proj.ProjectedValue != 50000 {
			t.Errorf("expected principal back, got %d", proj.ProjectedValue)
		}
	})

	t.Run("recurring_accumulates_from_start_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		inv, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryMutualFunds, "monthly SIP", 10000,
			models.InvestmentKindRecurring, jan1, jan1, 0, nil)
		testutil.AssertNoError(t, err)

		at := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		proj, err := svc.ProjectInvestment(user.ID, inv.ID, &at)
		testutil.AssertNoError(t, err)

		if proj.Months != 3 {
			t.Errorf("expected 3 months, got %d", proj.Months)
		}
		if proj.InvestedAmount != 30000 {
			t.Errorf("expected 30000 invested, got %d", proj.InvestedAmount)
		}
		if proj.ProjectedValue != 30000 {
			t.Errorf("expected 30000 at zero rate, got %d", proj.ProjectedValue)
		}
	})

	t.Run("future_dated_investment_clamps_to_zero_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		inv, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryCrypto, "", 10000,
			models.InvestmentKindRecurring, jan1, jan1, 9, nil)
		testutil.AssertNoError(t, err)

		at := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
		proj, err := svc.ProjectInvestment(user.ID, inv.ID, &at)
		testutil.AssertNoError(t, err)

		if proj.Months != 0 {
			t.Errorf("expected clamp to 0 months, got %d", proj.Months)
		}
		if proj.ProjectedValue != 0 {
			t.Errorf("expected 0 value before contributions start, got %d", proj.ProjectedValue)
		}
	})
}

func TestGetPortfolio(t *testing.T) {
	t.Run("aggregates_invested_and_projected_values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)
		past := time.Now().AddDate(0, -11, 0)

		_, err := svc.CreateInvestment(user.ID, models.InvestmentCategoryGold, "", 100000,
			models.InvestmentKindLumpSum, past, past, 0, nil)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateInvestment(user.ID, models.InvestmentCategoryStocks, "", 200000,
			models.InvestmentKindLumpSum, past, past, 10, nil)
		testutil.AssertNoError(t, err)

		summary, err := svc.GetPortfolio(user.ID)
		testutil.AssertNoError(t, err)

		if summary.Investments != 2 {
			t.Errorf("expected 2 investments, got %d", summary.Investments)
		}
		if summary.TotalInvested != 300000 {
			t.Errorf("expected 300000 invested, got %d", summary.TotalInvested)
		}
		// Zero-rate holding contributes its principal; the 10% holding grows.
		if summary.CurrentValue <= 300000 {
			t.Errorf("expected current value above invested, got %d", summary.CurrentValue)
		}
	})

	t.Run("empty_portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		summary, err := svc.GetPortfolio(user.ID)
		testutil.AssertNoError(t, err)
		if summary.Investments != 0 || summary.TotalInvested != 0 {
			t.Errorf("expected empty summary, got %+v", summary)
		}
	})
}

func TestGetUserInvestments(t *testing.T) {
	t.Run("returns_own_investments_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newInvestmentService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestInvestment(t, db, user1.ID, 1000)
		testutil.CreateTestInvestment(t, db, user1.ID, 2000)
		testutil.CreateTestInvestment(t, db, user2.ID, 3000)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserInvestments(user1.ID, page)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 investments, got %d", result.TotalItems)
		}
	})
}
