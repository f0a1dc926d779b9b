package parser

import (
	"strings"

	"github.com/larriantoniy/pethome_bot/internal/domain"
)

// AccountTemplate is shown on the account update screen.
const AccountTemplate = `first name: ...
last name: ...
username: ...
phone: ...
email: ...`

var accountFields = map[string]func(p *domain.AccountPatch, v string){
	"first name": func(p *domain.AccountPatch, v string) { p.FirstName = &v },
	"last name":  func(p *domain.AccountPatch, v string) { p.LastName = &v },
	"username":   func(p *domain.AccountPatch, v string) { p.Username = &v },
	"phone":      func(p *domain.AccountPatch, v string) { p.PhoneNumbers = &v },
	"email":      func(p *domain.AccountPatch, v string) { p.EmailAddresses = &v },
}

// ParseAccount reads "label: value" lines in any order.
// Unknown labels are ignored; a non-blank line without a colon fails the
// whole block.
func ParseAccount(text string) (domain.AccountPatch, error) {
	var patch domain.AccountPatch
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			return domain.AccountPatch{}, invalid("expected \"label: value\" on every line", "")
		}
		set, known := accountFields[strings.ToLower(strings.TrimSpace(label))]
		if !known {
			continue
		}
		set(&patch, strings.TrimSpace(value))
	}
	return patch, nil
}
