// Package analytics aggregates seller listing statistics.
package analytics

import (
	"sort"
	"time"

	"marketplace-service/internal/models"
)

const topListings = 5

type TopListing struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Views     int    `json:"views"`
	Inquiries int    `json:"inquiries"`
}

type PeriodStats struct {
	Listings  int `json:"listings"`
	Views     int `json:"views"`
	Inquiries int `json:"inquiries"`
}

// Report is the seller dashboard payload.
type Report struct {
	TotalListings         int                    `json:"total_listings"`
	ActiveListings        int                    `json:"active_listings"`
	TotalViews            int                    `json:"total_views"`
	TotalInquiries        int                    `json:"total_inquiries"`
	ConversionRate        float64                `json:"conversion_rate"`
	TopPerformingListings []TopListing           `json:"top_performing_listings"`
	MonthlyStats          map[string]PeriodStats `json:"monthly_stats"`
}

// Compute builds a Report from all listings owned by one seller.
func Compute(listings []models.Listing, now time.Time) Report {
	report := Report{
		TotalListings:         len(listings),
		TopPerformingListings: []TopListing{},
	}

	var current PeriodStats
	for _, l := range listings {
		if l.Status == models.ListingActive {
			report.ActiveListings++
		}
		report.TotalViews += l.ViewsCount
		report.TotalInquiries += l.InquiriesCount

		if l.CreatedAt.Year() == now.Year() && l.CreatedAt.Month() == now.Month() {
			current.Listings++
			current.Views += l.ViewsCount
			current.Inquiries += l.InquiriesCount
		}
	}
	if report.TotalViews > 0 {
		report.ConversionRate = float64(report.TotalInquiries) / float64(report.TotalViews) * 100
	}

	ranked := make([]models.Listing, len(listings))
	copy(ranked, listings)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].ViewsCount > ranked[j].ViewsCount })
	if len(ranked) > topListings {
		ranked = ranked[:topListings]
	}
	for _, l := range ranked {
		report.TopPerformingListings = append(report.TopPerformingListings, TopListing{
			ID:        l.ID,
			Title:     l.Title(),
			Views:     l.ViewsCount,
			Inquiries: l.InquiriesCount,
		})
	}

	report.MonthlyStats = map[string]PeriodStats{"current_month": current}
	return report
}
