package reservation

// Status is the explicit reservation lifecycle. PENDING_PAYMENT is the
// terminal success state of this core; payment capture happens elsewhere.
type Status string

const (
	StatusDraft          Status = "DRAFT"
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusConfirmed      Status = "CONFIRMED"
	StatusCancelled      Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingPayment, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Step indexes the four workflow stages.
type Step int

const (
	StepTripDetails Step = iota
	StepExtras
	StepIdentity
	StepConfirm
)

func (s Step) IsValid() bool {
	return s >= StepTripDetails && s <= StepConfirm
}

func (s Step) String() string {
	switch s {
	case StepTripDetails:
		return "trip_details"
	case StepExtras:
		return "extras"
	case StepIdentity:
		return "identity"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}
