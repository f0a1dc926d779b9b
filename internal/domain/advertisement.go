package domain

import "strings"

// AdType is the kind of advertisement.
type AdType string

const (
	AdFound    AdType = "FOUND"
	AdLost     AdType = "LOST"
	AdObserved AdType = "OBSERVED"
)

// adTypeLabels is the vocabulary users type on the fourth line of an ad.
var adTypeLabels = map[string]AdType{
	"found":    AdFound,
	"lost":     AdLost,
	"observed": AdObserved,
}

// AdTypeByLabel looks a user label up, ignoring case and surrounding spaces.
func AdTypeByLabel(label string) (AdType, bool) {
	t, ok := adTypeLabels[strings.ToLower(strings.TrimSpace(label))]
	return t, ok
}

// AdTypeLabels returns the recognised labels in a stable order.
func AdTypeLabels() []string {
	return []string{"found", "lost", "observed"}
}

type Location struct {
	City     string `json:"city"`
	District string `json:"district"`
	Street   string `json:"street"`
}

// Date is not calendar-validated.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// AdPayload is what a user submits when creating or editing an ad.
type AdPayload struct {
	PetName  string   `json:"pet-name"`
	Signs    []string `json:"signs"`
	Age      int      `json:"age"`
	Type     AdType   `json:"type"`
	Location Location `json:"location"`
	Date     Date     `json:"date"`
}

// Advertisement is a read-only copy of a remote ad.
// ID is zero for ads the current user does not own.
type Advertisement struct {
	ID int64 `json:"id,omitempty"`
	AdPayload
}
