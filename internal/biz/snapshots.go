package biz

import (
	"time"

	"DonorLane/internal/data"
)

// Audit entity types.
const (
	EntityEvent           = "event"
	EntityEventDonor      = "event_donor"
	EntityDonor           = "donor"
	EntityDonorCollection = "donor_collection"
)

// EventSnapshot captures the audited fields of an event.
func EventSnapshot(e *data.Event) map[string]interface{} {
	if e == nil {
		return nil
	}
	return map[string]interface{}{
		"id":                e.ID,
		"name":              e.Name,
		"status":            string(e.Status),
		"date":              e.Date,
		"location":          e.Location,
		"targetAmount":      e.TargetAmount,
		"actualAmount":      e.ActualAmount,
		"expectedAttendees": e.ExpectedAttendees,
		"actualAttendees":   e.ActualAttendees,
	}
}

// EventDonorSnapshot captures the audited fields of an invitation.
func EventDonorSnapshot(ed *data.EventDonor) map[string]interface{} {
	if ed == nil {
		return nil
	}
	return map[string]interface{}{
		"eventId":     ed.EventID,
		"donorId":     ed.DonorID,
		"status":      string(ed.Status),
		"matchScore":  ed.MatchScore,
		"respondedAt": timeOrNil(ed.RespondedAt),
		"notes":       ed.Notes,
	}
}

// DonorSnapshot captures the audited fields of a donor.
func DonorSnapshot(d *data.Donor) map[string]interface{} {
	if d == nil {
		return nil
	}
	interests := make([]interface{}, len(d.Interests))
	for i, s := range d.Interests {
		interests[i] = s
	}
	return map[string]interface{}{
		"id":                         d.ID,
		"name":                       d.FullName(),
		"email":                      d.Email,
		"organization":               d.Organization,
		"city":                       d.City,
		"province":                   d.Province,
		"interests":                  interests,
		"totalDonations":             d.TotalDonations,
		"largestGift":                d.LargestGift,
		"lastGiftAmount":             d.LastGiftAmount,
		"firstGiftDate":              timeOrNil(d.FirstGiftDate),
		"lastGiftDate":               timeOrNil(d.LastGiftDate),
		"subscriptionEventsInPerson": d.SubscriptionEventsInPerson,
		"subscriptionNewsletter":     d.SubscriptionNewsletter,
		"exclude":                    d.Exclude,
		"deceased":                   d.Deceased,
	}
}

// timeOrNil keeps a nil pointer as an untyped nil so the diff treats it as absent.
func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
