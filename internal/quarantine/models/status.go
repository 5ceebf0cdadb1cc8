package models

import "time"

// WarningType is the user's externally reported risk classification.
type WarningType string

const (
	WarningGreen  WarningType = "GREEN"
	WarningYellow WarningType = "YELLOW"
	WarningRed    WarningType = "RED"
)

// ParseWarningType maps s onto a WarningType.
func ParseWarningType(s string) (WarningType, bool) {
	switch WarningType(s) {
	case WarningGreen, WarningYellow, WarningRed:
		return WarningType(s), true
	default:
		return "", false
	}
}

// Status is the derived quarantine status. It is one of JailedForever,
// JailedLimited or Free.
type Status interface {
	// Kind is a stable label for logs and metrics.
	Kind() string
	isStatus()
}

// JailedForever is a quarantine backed by a medical confirmation. It has no end.
type JailedForever struct{}

// JailedLimited is a quarantine that ends at End, the latest of the non-nil expiries.
type JailedLimited struct {
	End                   time.Time
	BySelfYellowDiagnosis *time.Time
	ByRedWarning          *time.Time
	ByYellowWarning       *time.Time
	SelfMonitoring        bool
}

// Free means no quarantine is active.
type Free struct {
	SelfMonitoring bool
}

func (JailedForever) Kind() string { return "jailed_forever" }
func (JailedLimited) Kind() string { return "jailed_limited" }
func (Free) Kind() string          { return "free" }

func (JailedForever) isStatus() {}
func (JailedLimited) isStatus() {}
func (Free) isStatus()          {}

// IsJailed reports whether s is any quarantine variant.
func IsJailed(s Status) bool {
	switch s.(type) {
	case JailedForever, JailedLimited:
		return true
	default:
		return false
	}
}

// Equal compares two statuses by value, including the pointed-to expiries.
func Equal(a, b Status) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case JailedForever:
		_, ok := b.(JailedForever)
		return ok
	case Free:
		bv, ok := b.(Free)
		return ok && av == bv
	case JailedLimited:
		bv, ok := b.(JailedLimited)
		return ok &&
			av.End.Equal(bv.End) &&
			av.SelfMonitoring == bv.SelfMonitoring &&
			sameInstant(av.BySelfYellowDiagnosis, bv.BySelfYellowDiagnosis) &&
			sameInstant(av.ByRedWarning, bv.ByRedWarning) &&
			sameInstant(av.ByYellowWarning, bv.ByYellowWarning)
	default:
		return false
	}
}

// WarningTypeOf derives the warning classification from a status.
// A red expiry wins when it is the only one or ends no earlier than the yellow one.
// JailedForever is GREEN on purpose: contact warnings cannot change a medical
// confirmation, so such a device only needs the 7-day batch.
func WarningTypeOf(s Status) WarningType {
	limited, ok := s.(JailedLimited)
	if !ok {
		return WarningGreen
	}
	red, yellow := limited.ByRedWarning, limited.ByYellowWarning
	switch {
	case red != nil && (yellow == nil || !red.Before(*yellow)):
		return WarningRed
	case yellow != nil:
		return WarningYellow
	default:
		return WarningGreen
	}
}

// SameUTCDay reports whether a and b fall on the same UTC calendar day.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
