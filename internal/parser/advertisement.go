// Package parser turns the free-form text users type into validated payloads.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/larriantoniy/pethome_bot/internal/domain"
)

// AdLines is the number of positional lines an advertisement must have.
const AdLines = 6

// maxHintDistance bounds how far a typo may be from a label to be suggested.
const maxHintDistance = 3

// AdTemplate is shown to users on the create and edit screens.
const AdTemplate = `Pet name
Signs, comma separated
Age
Type: found, lost or observed
City, district, street
Day.Month.Year`

// ParseAdvertisement reads the six-line advertisement grammar.
// Any problem yields a *domain.ValidationError; there is no partial result.
func ParseAdvertisement(text string) (domain.AdPayload, error) {
	lines := splitLines(text)
	if len(lines) < AdLines {
		return domain.AdPayload{}, invalid(fmt.Sprintf("expected %d lines, got %d", AdLines, len(lines)), "")
	}

	var ad domain.AdPayload

	ad.PetName = strings.TrimSpace(lines[0])
	if ad.PetName == "" {
		return domain.AdPayload{}, invalid("empty pet name", "")
	}

	ad.Signs = splitList(lines[1], ",")

	age, err := strconv.Atoi(strings.TrimSpace(lines[2]))
	if err != nil {
		return domain.AdPayload{}, invalid("age is not a whole number", "")
	}
	ad.Age = age

	t, ok := domain.AdTypeByLabel(lines[3])
	if !ok {
		return domain.AdPayload{}, invalid("unknown advertisement type", suggestLabel(lines[3]))
	}
	ad.Type = t

	loc := strings.Split(lines[4], ",")
	if len(loc) != 3 {
		return domain.AdPayload{}, invalid("location needs city, district and street", "")
	}
	ad.Location = domain.Location{
		City:     strings.TrimSpace(loc[0]),
		District: strings.TrimSpace(loc[1]),
		Street:   strings.TrimSpace(loc[2]),
	}

	parts := strings.Split(strings.TrimSpace(lines[5]), ".")
	if len(parts) != 3 {
		return domain.AdPayload{}, invalid("date must look like day.month.year", "")
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return domain.AdPayload{}, invalid("date must look like day.month.year", "")
		}
		nums[i] = n
	}
	ad.Date = domain.Date{Day: nums[0], Month: nums[1], Year: nums[2]}

	return ad, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// splitList trims every element and drops empty ones.
func splitList(line, sep string) []string {
	out := []string{}
	for _, s := range strings.Split(line, sep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func suggestLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return ""
	}
	best, bestDist := "", maxHintDistance+1
	for _, l := range domain.AdTypeLabels() {
		if d := levenshtein.ComputeDistance(label, l); d < bestDist {
			best, bestDist = l, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}

func invalid(reason, hint string) error {
	return &domain.ValidationError{Reason: reason, Hint: hint}
}
