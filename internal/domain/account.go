package domain

type Account struct {
	FirstName      string `json:"first-name"`
	LastName       string `json:"last-name"`
	Username       string `json:"username"`
	PhoneNumbers   string `json:"phone-numbers"`
	EmailAddresses string `json:"email-addresses"`
}

// AccountPatch carries only the fields a user supplied.
type AccountPatch struct {
	FirstName      *string `json:"first-name,omitempty"`
	LastName       *string `json:"last-name,omitempty"`
	Username       *string `json:"username,omitempty"`
	PhoneNumbers   *string `json:"phone-numbers,omitempty"`
	EmailAddresses *string `json:"email-addresses,omitempty"`
}

func (p AccountPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Username == nil &&
		p.PhoneNumbers == nil && p.EmailAddresses == nil
}
