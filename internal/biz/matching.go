package biz

import (
	"math"
	"sort"
	"strings"
	"time"

	"DonorLane/internal/data"
)

// EventFocus selects the weight profile used to score donors.
type EventFocus string

// Event focus constants.
const (
	FocusFundraising EventFocus = "fundraising"
	FocusAttendees   EventFocus = "attendees"
	FocusEngagement  EventFocus = "engagement"
)

// DefaultTargetAttendees caps the result size when criteria do not.
const DefaultTargetAttendees = 100

// MatchingWeights holds one multiplier per scoring dimension.
type MatchingWeights struct {
	InterestMatch     float64 `json:"interestMatch"`
	LocationMatch     float64 `json:"locationMatch"`
	DonationHistory   float64 `json:"donationHistory"`
	RecencyScore      float64 `json:"recencyScore"`
	EngagementScore   float64 `json:"engagementScore"`
	CapacityIndicator float64 `json:"capacityIndicator"`
}

// WeightOverrides replaces individual weights of a profile for one call.
// Nil fields keep the profile value.
type WeightOverrides struct {
	InterestMatch     *float64 `json:"interestMatch,omitempty"`
	LocationMatch     *float64 `json:"locationMatch,omitempty"`
	DonationHistory   *float64 `json:"donationHistory,omitempty"`
	RecencyScore      *float64 `json:"recencyScore,omitempty"`
	EngagementScore   *float64 `json:"engagementScore,omitempty"`
	CapacityIndicator *float64 `json:"capacityIndicator,omitempty"`
}

var weightProfiles = map[EventFocus]MatchingWeights{
	FocusFundraising: {
		InterestMatch: 0.25, LocationMatch: 0.15, DonationHistory: 0.30,
		RecencyScore: 0.10, EngagementScore: 0.10, CapacityIndicator: 0.10,
	},
	FocusAttendees: {
		InterestMatch: 0.30, LocationMatch: 0.25, DonationHistory: 0.10,
		RecencyScore: 0.15, EngagementScore: 0.15, CapacityIndicator: 0.05,
	},
	FocusEngagement: {
		InterestMatch: 0.20, LocationMatch: 0.15, DonationHistory: 0.15,
		RecencyScore: 0.20, EngagementScore: 0.25, CapacityIndicator: 0.05,
	},
}

// WeightsFor returns the profile for focus, falling back to fundraising.
func WeightsFor(focus EventFocus) MatchingWeights {
	if w, ok := weightProfiles[focus]; ok {
		return w
	}
	return weightProfiles[FocusFundraising]
}

func (w MatchingWeights) apply(o *WeightOverrides) MatchingWeights {
	if o == nil {
		return w
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&w.InterestMatch, o.InterestMatch)
	set(&w.LocationMatch, o.LocationMatch)
	set(&w.DonationHistory, o.DonationHistory)
	set(&w.RecencyScore, o.RecencyScore)
	set(&w.EngagementScore, o.EngagementScore)
	set(&w.CapacityIndicator, o.CapacityIndicator)
	return w
}

// MatchCriteria describes the event a donor pool is matched against.
type MatchCriteria struct {
	EventType         []string   `json:"eventType"`
	Location          string     `json:"location,omitempty"`
	MinTotalDonations float64    `json:"minTotalDonations,omitempty"`
	TargetAttendees   int        `json:"targetAttendees,omitempty"`
	EventFocus        EventFocus `json:"eventFocus,omitempty"`
}

// ScoreBreakdown holds the six sub-scores of a donor, each nominally 0-100.
type ScoreBreakdown struct {
	InterestMatch     float64 `json:"interestMatch"`
	LocationMatch     float64 `json:"locationMatch"`
	DonationHistory   float64 `json:"donationHistory"`
	RecencyScore      float64 `json:"recencyScore"`
	EngagementScore   float64 `json:"engagementScore"`
	CapacityIndicator float64 `json:"capacityIndicator"`
}

// ScoredDonor is one ranked matching result.
type ScoredDonor struct {
	Donor        *data.Donor
	Score        float64
	Breakdown    ScoreBreakdown
	MatchReasons []string
}

// MatchingEngine ranks donors against event criteria. It holds no mutable
// state and is safe for concurrent use.
type MatchingEngine struct {
	now func() time.Time
}

// NewMatchingEngine creates a matching engine using the wall clock.
func NewMatchingEngine() *MatchingEngine {
	return &MatchingEngine{now: time.Now}
}

// FindMatches scores every donor in pool that meets the donation threshold
// and returns them by descending score, capped at the target attendee count.
// Donors with equal scores keep their pool order.
func (e *MatchingEngine) FindMatches(criteria MatchCriteria, pool []*data.Donor, overrides *WeightOverrides) []ScoredDonor {
	weights := WeightsFor(criteria.EventFocus).apply(overrides)
	now := e.now()

	scored := make([]ScoredDonor, 0, len(pool))
	for _, donor := range pool {
		if donor == nil || donor.TotalDonations < criteria.MinTotalDonations {
			continue
		}
		breakdown := e.breakdown(donor, criteria, now)
		scored = append(scored, ScoredDonor{
			Donor:        donor,
			Score:        composite(breakdown, weights),
			Breakdown:    breakdown,
			MatchReasons: matchReasons(breakdown),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	limit := criteria.TargetAttendees
	if limit <= 0 {
		limit = DefaultTargetAttendees
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func (e *MatchingEngine) breakdown(d *data.Donor, c MatchCriteria, now time.Time) ScoreBreakdown {
	return ScoreBreakdown{
		InterestMatch:     interestScore(d.Interests, c.EventType),
		LocationMatch:     locationScore(d.City, c.Location),
		DonationHistory:   donationScore(d),
		RecencyScore:      recencyScore(d.LastGiftDate, now),
		EngagementScore:   engagementScore(d),
		CapacityIndicator: capacityScore(d),
	}
}

func composite(b ScoreBreakdown, w MatchingWeights) float64 {
	return b.InterestMatch*w.InterestMatch +
		b.LocationMatch*w.LocationMatch +
		b.DonationHistory*w.DonationHistory +
		b.RecencyScore*w.RecencyScore +
		b.EngagementScore*w.EngagementScore +
		b.CapacityIndicator*w.CapacityIndicator
}

// interestScore rewards the share of event types a donor cares about plus
// the number of donor interests covering some event type.
func interestScore(interests, eventTypes []string) float64 {
	if len(interests) == 0 || len(eventTypes) == 0 {
		return 0
	}

	lowerInterests := lowerAll(interests)
	lowerTypes := lowerAll(eventTypes)

	matches := 0
	for _, t := range lowerTypes {
		for _, i := range lowerInterests {
			if strings.Contains(i, t) || strings.Contains(t, i) {
				matches++
				break
			}
		}
	}

	depth := 0
	for _, i := range lowerInterests {
		for _, t := range lowerTypes {
			if strings.Contains(i, t) {
				depth++
				break
			}
		}
	}

	ratio := float64(matches) / float64(len(eventTypes))
	return math.Min(100, ratio*70+float64(depth)*10)
}

func locationScore(city, location string) float64 {
	if location == "" {
		return 50
	}
	if city == "" {
		return 0
	}

	c, l := strings.ToLower(city), strings.ToLower(location)
	switch {
	case c == l:
		return 100
	case strings.Contains(c, l) || strings.Contains(l, c):
		return 70
	}
	return 0
}

func donationScore(d *data.Donor) float64 {
	score := math.Min(100, d.TotalDonations/100000*50) + math.Min(100, d.LargestGift/50000*30)
	if d.FirstGiftDate != nil && d.LastGiftDate != nil {
		score += 20
	}
	return score
}

func recencyScore(lastGift *time.Time, now time.Time) float64 {
	if lastGift == nil {
		return 0
	}

	days := now.Sub(*lastGift).Hours() / 24
	switch {
	case days < 30:
		return 100
	case days < 90:
		return 80
	case days < 180:
		return 60
	case days < 365:
		return 40
	case days < 730:
		return 20
	}
	return 0
}

func engagementScore(d *data.Donor) float64 {
	score := 0.0
	if d.SubscriptionEventsInPerson {
		score += 50
	}
	if d.SubscriptionNewsletter {
		score += 30
	}
	if d.Email != "" {
		score += 20
	}
	return math.Min(100, score)
}

func capacityScore(d *data.Donor) float64 {
	score := 0.0
	if d.Organization != "" {
		score += 20
	}
	score += math.Min(50, d.TotalDonations/50000*50)
	score += math.Min(30, d.LargestGift/25000*30)
	return score
}

func matchReasons(b ScoreBreakdown) []string {
	reasons := make([]string, 0, 6)
	if b.InterestMatch > 70 {
		reasons = append(reasons, "Strong interest alignment")
	}
	if b.LocationMatch == 100 {
		reasons = append(reasons, "Same location")
	}
	if b.DonationHistory > 80 {
		reasons = append(reasons, "Major donor")
	}
	if b.RecencyScore > 80 {
		reasons = append(reasons, "Recent donor")
	}
	if b.EngagementScore > 70 {
		reasons = append(reasons, "Highly engaged")
	}
	if b.CapacityIndicator > 70 {
		reasons = append(reasons, "High capacity")
	}
	return reasons
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
