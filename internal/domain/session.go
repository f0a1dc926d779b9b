package domain

// State is one screen of the conversation.
type State string

const (
	StateWelcome            State = "WELCOME"
	StateAuthChoice         State = "AUTH_CHOICE"
	StateLoginEntering      State = "LOGIN_ENTERING"
	StatePasswordEntering   State = "PASSWORD_ENTERING"
	StateMain               State = "MAIN"
	StateViewAdChoice       State = "VIEW_AD_CHOICE"
	StateBrowseOwn          State = "BROWSE_OWN"
	StateBrowseOther        State = "BROWSE_OTHER"
	StateCreateAdInput      State = "CREATE_AD_INPUT"
	StateEditAdInput        State = "EDIT_AD_INPUT"
	StateViewAccount        State = "VIEW_ACCOUNT"
	StateUpdateAccountInput State = "UPDATE_ACCOUNT_INPUT"
)

// PreAuth reports whether the state belongs to the part of the
// conversation that runs before a resource handle exists.
func (s State) PreAuth() bool {
	switch s {
	case StateWelcome, StateAuthChoice, StateLoginEntering, StatePasswordEntering:
		return true
	}
	return false
}

// Pending field keys used while collecting credentials.
const (
	PendingUsername = "username"
	PendingPassword = "password"
)

// Handle is the opaque authenticated reference to the pet-home API.
type Handle struct {
	Token string
}

// Session is the conversational context of one user.
// Handle is non-nil iff State is not a pre-auth state.
type Session struct {
	UserID  int64
	State   State
	Pending map[string]string
	Window  *Window
	Handle  *Handle
}

func NewSession(userID int64) Session {
	return Session{UserID: userID, State: StateWelcome}
}

// Clone returns a copy that shares nothing mutable with s.
func (s Session) Clone() Session {
	out := s
	if s.Pending != nil {
		out.Pending = make(map[string]string, len(s.Pending))
		for k, v := range s.Pending {
			out.Pending[k] = v
		}
	}
	if s.Window != nil {
		w := s.Window.Clone()
		out.Window = &w
	}
	return out
}

func (s Session) Authenticated() bool {
	return s.Handle != nil
}

// Scope selects which list a Window browses.
type Scope string

const (
	ScopeOwn   Scope = "OWNER"
	ScopeOther Scope = "VIEWER"
)

// PageSize is agreed with the pet-home API.
const PageSize = 4

// Window is a cached page of a remote list plus a cursor into it.
type Window struct {
	Scope  Scope
	Page   int
	Cursor int
	Items  []Advertisement
}

func (w Window) Clone() Window {
	out := w
	out.Items = append([]Advertisement(nil), w.Items...)
	return out
}
