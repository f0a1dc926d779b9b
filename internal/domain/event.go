package domain

// Token is an opaque action identifier carried by a button.
type Token string

const (
	TokenHome          Token = "home"
	TokenNextItem      Token = "next-item"
	TokenPrevItem      Token = "prev-item"
	TokenDeleteItem    Token = "delete-item"
	TokenEditItem      Token = "edit-item"
	TokenCreateItem    Token = "create-item"
	TokenViewAds       Token = "view-ads"
	TokenViewOwn       Token = "view-own"
	TokenViewOther     Token = "view-other"
	TokenViewAccount   Token = "view-account"
	TokenUpdateAccount Token = "update-account"
	TokenAuthorize     Token = "authorize"
)

var knownTokens = map[Token]struct{}{
	TokenHome: {}, TokenNextItem: {}, TokenPrevItem: {}, TokenDeleteItem: {},
	TokenEditItem: {}, TokenCreateItem: {}, TokenViewAds: {}, TokenViewOwn: {},
	TokenViewOther: {}, TokenViewAccount: {}, TokenUpdateAccount: {}, TokenAuthorize: {},
}

// ParseToken accepts only the fixed button vocabulary.
func ParseToken(raw string) (Token, bool) {
	t := Token(raw)
	_, ok := knownTokens[t]
	return t, ok
}

type EventKind int

const (
	EventText EventKind = iota
	EventButton
	EventStart
	// EventHelp never changes the session.
	EventHelp
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventButton:
		return "button"
	case EventStart:
		return "start"
	case EventHelp:
		return "help"
	}
	return "unknown"
}

// ChatContext identifies where an event came from.
// MessageID is the inbound message (text) or the message carrying the
// pressed button.
type ChatContext struct {
	ChatID    int64
	MessageID int64
}

// Event is one inbound unit of work for a user.
type Event struct {
	Kind   EventKind
	UserID int64
	Chat   ChatContext
	Text   string
	Token  Token
	// CallbackID is set for button presses so the transport can answer them.
	CallbackID int64
}

type Button struct {
	Label string
	Token Token
}

// Screen is a render instruction for the transport.
type Screen struct {
	Chat    ChatContext
	Text    string
	Buttons [][]Button
}
