package models

// BillingCheck is the answer to a billing validation request.
type BillingCheck struct {
	Problems        []Problem `json:"problems"`
	NormalizedPhone string    `json:"normalizedPhone"`
}

type InspectCard struct {
	Number string `json:"number"`
}

type Countdown struct {
	RemainingSeconds int64  `json:"remainingSeconds"`
	Clock            string `json:"clock"`
}
