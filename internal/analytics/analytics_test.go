package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/internal/models"
)

func TestComputeEmpty(t *testing.T) {
	report := Compute(nil, time.Now())

	assert.Zero(t, report.TotalListings)
	assert.Zero(t, report.ConversionRate)
	assert.Empty(t, report.TopPerformingListings)
	assert.Equal(t, PeriodStats{}, report.MonthlyStats["current_month"])
}

func TestComputeTotalsAndRanking(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	lastYear := now.AddDate(-1, 0, 0)

	listings := []models.Listing{
		{ID: "a", Brand: "Apple", Model: "iPhone 13", Status: models.ListingActive, ViewsCount: 10, InquiriesCount: 2, CreatedAt: now},
		{ID: "b", Brand: "Samsung", Model: "Galaxy S23", Status: models.ListingSold, ViewsCount: 30, InquiriesCount: 3, CreatedAt: lastYear},
		{ID: "c", Brand: "Xiaomi", Model: "Redmi 12", Status: models.ListingActive, ViewsCount: 0, InquiriesCount: 0, CreatedAt: now},
		{ID: "d", Brand: "Oppo", Model: "A18", Status: models.ListingActive, ViewsCount: 5, CreatedAt: now},
		{ID: "e", Brand: "Vivo", Model: "Y36", Status: models.ListingDraft, ViewsCount: 7, CreatedAt: now},
		{ID: "f", Brand: "Tecno", Model: "Pop 8", Status: models.ListingExpired, ViewsCount: 8, CreatedAt: now},
	}

	report := Compute(listings, now)

	assert.Equal(t, 6, report.TotalListings)
	assert.Equal(t, 3, report.ActiveListings)
	assert.Equal(t, 60, report.TotalViews)
	assert.Equal(t, 5, report.TotalInquiries)
	assert.InDelta(t, 8.333, report.ConversionRate, 0.001)

	require.Len(t, report.TopPerformingListings, 5)
	assert.Equal(t, "b", report.TopPerformingListings[0].ID)
	assert.Equal(t, "Samsung Galaxy S23", report.TopPerformingListings[0].Title)
	assert.Equal(t, "a", report.TopPerformingListings[1].ID)

	current := report.MonthlyStats["current_month"]
	assert.Equal(t, 5, current.Listings)
	assert.Equal(t, 30, current.Views)
	assert.Equal(t, 2, current.Inquiries)
}
