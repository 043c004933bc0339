package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/krishichetan/krishichetan-backend/internal/advisory"
	"github.com/krishichetan/krishichetan-backend/pkg/config"
	"github.com/krishichetan/krishichetan-backend/pkg/enums"
)

// AdvisorySnapshotter exposes the advisory store's aggregate read path.
type AdvisorySnapshotter interface {
	SnapshotAll(ctx context.Context) map[string][]advisory.Record
}

// FarmerSummary is the slice of a farmer profile the aggregator needs.
type FarmerSummary struct {
	Phone     string
	Name      string
	Location  string
	CropType  string
	RiskScore int
}

// ProfileProvider lists the registered farmers for cross-referencing with
// advisory outcomes.
type ProfileProvider interface {
	ListSummaries(ctx context.Context) ([]FarmerSummary, error)
}

// AdoptionReport aggregates advisory outcomes across every subject.
// RatePercent is followed / (followed + ignored), rounded to one decimal;
// pending advisories are excluded from the denominator.
type AdoptionReport struct {
	Total       int     `json:"total_advisories"`
	Followed    int     `json:"followed"`
	Ignored     int     `json:"ignored"`
	Pending     int     `json:"pending"`
	RatePercent float64 `json:"adoption_rate_percent"`
}

// PriorityEntry is a farmer the officer should visit first, with the
// dominant reason for the flag.
type PriorityEntry struct {
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	CropType     string `json:"crop_type"`
	RiskScore    int    `json:"risk_score"`
	IgnoredCount int    `json:"ignored_count"`
	Reason       string `json:"reason"`
}

// CropShare is one crop's slice of the registered farmer base.
type CropShare struct {
	CropType string  `json:"crop_type"`
	Farmers  int     `json:"farmers"`
	Percent  float64 `json:"percent"`
}

// Service computes the officer-facing aggregates. All reads are
// point-in-time snapshots; the service holds no state of its own.
type Service struct {
	advisories AdvisorySnapshotter
	profiles   ProfileProvider
	cfg        config.AnalyticsConfig
}

func NewService(advisories AdvisorySnapshotter, profiles ProfileProvider, cfg config.AnalyticsConfig) *Service {
	return &Service{advisories: advisories, profiles: profiles, cfg: cfg}
}

// AdoptionRate reports how farmers respond to advisories overall. With no
// resolved advisories the rate is 0, never a division error.
func (s *Service) AdoptionRate(ctx context.Context) AdoptionReport {
	var report AdoptionReport
	for _, records := range s.advisories.SnapshotAll(ctx) {
		for _, record := range records {
			report.Total++
			switch record.Status {
			case enums.AdvisoryStatusFollowed:
				report.Followed++
			case enums.AdvisoryStatusIgnored:
				report.Ignored++
			default:
				report.Pending++
			}
		}
	}

	resolved := report.Followed + report.Ignored
	if resolved > 0 {
		report.RatePercent = roundPercent(report.Followed, resolved)
	}
	return report
}

// Prioritize flags farmers whose risk score exceeds the configured
// threshold or who have ignored at least one advisory, highest risk
// first, capped at the configured list size. Ignoring advisories is the
// stronger signal and owns the stated reason.
func (s *Service) Prioritize(ctx context.Context) ([]PriorityEntry, error) {
	summaries, err := s.profiles.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	ignoredBySubject := map[string]int{}
	for subject, records := range s.advisories.SnapshotAll(ctx) {
		for _, record := range records {
			if record.Status == enums.AdvisoryStatusIgnored {
				ignoredBySubject[subject]++
			}
		}
	}

	entries := make([]PriorityEntry, 0, len(summaries))
	for _, farmer := range summaries {
		ignored := ignoredBySubject[farmer.Phone]
		if farmer.RiskScore <= s.cfg.RiskThreshold && ignored == 0 {
			continue
		}
		reason := "High Pest Risk Prediction"
		if ignored >= 1 {
			reason = fmt.Sprintf("%d Ignored Advisories", ignored)
		}
		entries = append(entries, PriorityEntry{
			Phone:        farmer.Phone,
			Name:         farmer.Name,
			Location:     farmer.Location,
			CropType:     farmer.CropType,
			RiskScore:    farmer.RiskScore,
			IgnoredCount: ignored,
			Reason:       reason,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RiskScore > entries[j].RiskScore
	})
	if topN := s.cfg.PriorityTopN; topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries, nil
}

// CropDistribution breaks the farmer base down by crop, largest share
// first.
func (s *Service) CropDistribution(ctx context.Context) ([]CropShare, error) {
	summaries, err := s.profiles.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, farmer := range summaries {
		counts[farmer.CropType]++
	}

	shares := make([]CropShare, 0, len(counts))
	for crop, farmers := range counts {
		shares = append(shares, CropShare{
			CropType: crop,
			Farmers:  farmers,
			Percent:  roundPercent(farmers, len(summaries)),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Farmers != shares[j].Farmers {
			return shares[i].Farmers > shares[j].Farmers
		}
		return shares[i].CropType < shares[j].CropType
	})
	return shares, nil
}

// roundPercent computes part/whole as a percentage with one decimal of
// presentation precision.
func roundPercent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(whole))).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	value, _ := rate.Float64()
	return value
}
