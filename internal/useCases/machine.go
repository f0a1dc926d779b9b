package useCases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/larriantoniy/pethome_bot/internal/domain"
	"github.com/larriantoniy/pethome_bot/internal/pagination"
	"github.com/larriantoniy/pethome_bot/internal/parser"
	"github.com/larriantoniy/pethome_bot/internal/ports"
)

// Outcome is what one processed event asks of the transport.
type Outcome struct {
	// Screen is nil when the event needs no answer.
	Screen *domain.Screen
	// Retract asks to delete the inbound message.
	Retract bool
}

// Machine is the screen controller. Handle takes a whole session and an
// event and returns the whole next session; it never returns an error,
// every failure ends in a known screen.
type Machine struct {
	api   ports.PetHome
	guard ports.LoginGuard
	log   *slog.Logger
}

func NewMachine(api ports.PetHome, guard ports.LoginGuard, log *slog.Logger) *Machine {
	return &Machine{api: api, guard: guard, log: log}
}

func (m *Machine) Handle(ctx context.Context, s domain.Session, ev domain.Event) (domain.Session, Outcome) {
	switch ev.Kind {
	case domain.EventStart:
		return m.welcome(domain.NewSession(s.UserID), ev, "")
	case domain.EventButton:
		return m.onButton(ctx, s, ev)
	case domain.EventText:
		return m.onText(ctx, s, ev)
	case domain.EventHelp:
		return s, show(helpScreen(ev, s.Authenticated()))
	}
	m.log.Warn("unknown event kind", "kind", ev.Kind)
	return s, Outcome{}
}

func (m *Machine) onButton(ctx context.Context, s domain.Session, ev domain.Event) (domain.Session, Outcome) {
	if ev.Token == domain.TokenHome {
		return m.home(s, ev, "")
	}

	if !s.Authenticated() {
		if ev.Token == domain.TokenAuthorize {
			s.State = domain.StateLoginEntering
			s.Pending = nil
			return s, show(screen(ev, "Send your login"))
		}
		return m.stateError(s, ev, fmt.Errorf("%w: %s before login", domain.ErrSessionState, ev.Token))
	}

	switch ev.Token {
	case domain.TokenAuthorize:
		return m.home(s, ev, "You are already signed in.")

	case domain.TokenViewAds:
		s.State = domain.StateViewAdChoice
		s.Window = nil
		return s, show(adChoiceScreen(ev))

	case domain.TokenViewOwn:
		return m.browse(ctx, s, ev, domain.ScopeOwn)
	case domain.TokenViewOther:
		return m.browse(ctx, s, ev, domain.ScopeOther)

	case domain.TokenNextItem, domain.TokenPrevItem:
		return m.move(ctx, s, ev)

	case domain.TokenDeleteItem:
		return m.deleteAd(ctx, s, ev)

	case domain.TokenEditItem:
		if s.State != domain.StateBrowseOwn {
			return m.stateError(s, ev, fmt.Errorf("%w: edit outside own ads", domain.ErrSessionState))
		}
		ad, ok := pagination.Current(s.Window)
		if !ok {
			return m.stateError(s, ev, fmt.Errorf("%w: nothing to edit", domain.ErrSessionState))
		}
		s.State = domain.StateEditAdInput
		return s, show(inputScreen(ev, fmt.Sprintf("Editing %q. Send the new advertisement:", ad.PetName), parser.AdTemplate))

	case domain.TokenCreateItem:
		s.State = domain.StateCreateAdInput
		s.Window = nil
		return s, show(inputScreen(ev, "Send the advertisement:", parser.AdTemplate))

	case domain.TokenViewAccount:
		s.Window = nil
		acc, err := m.api.GetAccount(ctx, s.Handle)
		if err != nil {
			return m.remoteError(s, ev, "Could not load your account.", err)
		}
		s.State = domain.StateViewAccount
		return s, show(accountScreen(ev, acc))

	case domain.TokenUpdateAccount:
		if s.State != domain.StateViewAccount {
			return m.stateError(s, ev, fmt.Errorf("%w: update outside account view", domain.ErrSessionState))
		}
		s.State = domain.StateUpdateAccountInput
		return s, show(inputScreen(ev, "Send the fields to change:", parser.AccountTemplate))
	}

	return m.stateError(s, ev, fmt.Errorf("%w: unexpected token %q", domain.ErrSessionState, ev.Token))
}

func (m *Machine) onText(ctx context.Context, s domain.Session, ev domain.Event) (domain.Session, Outcome) {
	switch s.State {
	case domain.StateWelcome, domain.StateAuthChoice:
		return m.welcome(s, ev, "")

	case domain.StateLoginEntering:
		if ev.Text == "" {
			return s, show(screen(ev, "Send your login"))
		}
		s.Pending = map[string]string{domain.PendingUsername: ev.Text}
		s.State = domain.StatePasswordEntering
		return s, Outcome{Screen: screen(ev, "Got your login. Now send the password"), Retract: true}

	case domain.StatePasswordEntering:
		return m.login(ctx, s, ev)

	case domain.StateCreateAdInput:
		return m.createAd(ctx, s, ev)

	case domain.StateEditAdInput:
		return m.editAd(ctx, s, ev)

	case domain.StateUpdateAccountInput:
		return m.updateAccount(ctx, s, ev)
	}

	m.log.Debug("text ignored", "state", s.State)
	return s, Outcome{}
}

func (m *Machine) login(ctx context.Context, s domain.Session, ev domain.Event) (domain.Session, Outcome) {
	username, ok := s.Pending[domain.PendingUsername]
	s.Pending = nil
	s.Handle = nil
	s.State = domain.StateLoginEntering
	if !ok {
		return s, Outcome{Screen: screen(ev, "Send your login"), Retract: true}
	}

	allowed, err := m.guard.Allowed(ctx, s.UserID)
	if err != nil {
		m.log.Warn("login guard unavailable", "error", err)
		allowed = true
	}
	if !allowed {
		return s, Outcome{Screen: screen(ev, "Too many attempts. Try again later.\nSend your login"), Retract: true}
	}

	h, err := m.api.Authenticate(ctx, username, ev.Text)
	if err != nil {
		if !errors.Is(err, domain.ErrAuthentication) {
			m.log.Warn("authenticate failed", "error", err)
		}
		if gerr := m.guard.Failed(ctx, s.UserID); gerr != nil {
			m.log.Warn("login guard: record failure", "error", gerr)
		}
		return s, Outcome{Screen: screen(ev, "Invalid login or password.\nSend your login"), Retract: true}
	}
	if gerr := m.guard.Succeeded(ctx, s.UserID); gerr != nil {
		m.log.Warn("login guard: reset", "error", gerr)
	}

	s.Handle = h
	s.State = domain.StateMain
	return s, Outcome{Screen: mainScreen(ev, ""), Retract: true}
}

func (m *Machine) cacheFor(s domain.Session, scope domain.Scope) pagination.Cache {
	h := s.Handle
	fetch := func(ctx context.Context, page int) ([]domain.Advertisement, error) {
		return m.api.FetchOther(ctx, h, page)
	}
	if scope == domain.ScopeOwn {
		fetch = func(ctx context.Context, page int) ([]domain.Advertisement, error) {
			return m.api.FetchOwn(ctx, h, page)
		}
	}
	return pagination.New(scope, fetch)
}

func browseState(scope domain.Scope) domain.State {
	if scope == domain.ScopeOwn {
		return domain.StateBrowseOwn
	}
	return domain.StateBrowseOther
}

func (m *Machine) browse(ctx context.Context, s domain.Session, ev domain.Event, scope domain.Scope) (domain.Session, Outcome) {
	if s.State != browseState(scope) {
		s.Window = nil
	}
	w, err := m.cacheFor(s, scope).Ensure(ctx, s.Window)
	if err != nil {
		return m.remoteError(s, ev, "Could not load advertisements.", err)
	}
	s.Window = w
	s.State = browseState(scope)
	return s, show(adScreen(ev, w, ""))
}

func (m *Machine) move(ctx context.Context, s domain.Session, ev domain.Event) (domain.Session, Outcome) {
	var scope domain.Scope
	switch s.State {
	case domain.StateBrowseOwn:
		scope = domain.ScopeOwn
	case domain.StateBrowseOther:
		scope = domain.ScopeOther
	default:
		return m.stateError(s, ev, fmt.Errorf("%w: %s while not browsing", domain.ErrSessionState, ev.Token))
	}
	if s.Window == nil || s.Window.Scope != scope {
		return m.stateError(s, ev, fmt.Errorf("%w: no window bound", domain.ErrSessionState))
	}

	c := m.cacheFor(s, scope)
	var (
		w   *domain.Window
		err error
	)
	if ev.Token == domain.TokenNextItem {
		w, err = c.Advance(ctx, s.Window)
	} else {
		w, err = c.Retreat(ctx, s.Window)
	}
	if err != nil {
		return m.remoteError(s, ev, "Could not load advertisements.", err)
	}
	s.Window = w
	return s, show(adScreen(ev, w, ""))
}

func (m *Machine) deleteAd(ctx context.Context, s domain.Session, ev domain.Event) (domain.Session, Outcome) {
	if s.State != domain.StateBrowseOwn {
		return m.stateError(s, ev, fmt.Errorf("%w: delete outside own ads", domain.ErrSessionState))
	}
	ad, ok := pagination.Current(s.Window)
	if !ok {
		return m.stateError(s, ev, fmt.Errorf("%w: nothing to delete", domain.ErrSessionState))
	}
	if err := m.api.DeleteAd(ctx, s.Handle, ad.ID); err != nil {
		return m.remoteError(s, ev, "Could not delete the advertisement.", err)
	}

	c := m.cacheFor(s, domain.ScopeOwn)
	w, err := c.Ensure(ctx, c.Invalidate(s.Window))
	if err != nil {
		return m.remoteError(s, ev, "Advertisement deleted, but the list could not be reloaded.", err)
	}
	s.Window = w
	return s, show(adScreen(ev, w, fmt.Sprintf("Advertisement %q deleted.", ad.PetName)))
}

func (m *Machine) createAd(ctx context.Context, s domain.Session, ev domain.Event) (domain.Session, Outcome) {
	payload, err := parser.ParseAdvertisement(ev.Text)
	if err != nil {
		return s, Outcome{Screen: invalidInputScreen(ev, err, parser.AdTemplate), Retract: true}
	}

	id, err := m.api.CreateAd(ctx, s.Handle, payload)
	if err != nil {
		s, out := m.remoteError(s, ev, "Could not create the advertisement.", err)
		out.Retract = true
		return s, out
	}
	s.Window = m.cacheFor(s, domain.ScopeOwn).Invalidate(s.Window)
	s, out := m.home(s, ev, fmt.Sprintf("Advertisement #%d created.", id))
	out.Retract = true
	return s, out
}

func (m *Machine) editAd(ctx context.Context, s domain.Session, ev domain.Event) (domain.Session, Outcome) {
	ad, ok := pagination.Current(s.Window)
	if !ok || s.Window.Scope != domain.ScopeOwn || ad.ID == 0 {
		return m.stateError(s, ev, fmt.Errorf("%w: edit without a focused own ad", domain.ErrSessionState))
	}

	payload, err := parser.ParseAdvertisement(ev.Text)
	if err != nil {
		return s, Outcome{Screen: invalidInputScreen(ev, err, parser.AdTemplate), Retract: true}
	}

	if _, err := m.api.UpdateAd(ctx, s.Handle, payload, ad.ID); err != nil {
		s, out := m.remoteError(s, ev, "Could not update the advertisement.", err)
		out.Retract = true
		return s, out
	}
	s.Window = m.cacheFor(s, domain.ScopeOwn).Invalidate(s.Window)
	s, out := m.home(s, ev, fmt.Sprintf("Advertisement %q updated.", payload.PetName))
	out.Retract = true
	return s, out
}

func (m *Machine) updateAccount(ctx context.Context, s domain.Session, ev domain.Event) (domain.Session, Outcome) {
	patch, err := parser.ParseAccount(ev.Text)
	if err != nil {
		return s, Outcome{Screen: invalidInputScreen(ev, err, parser.AccountTemplate), Retract: true}
	}
	if patch.Empty() {
		return s, Outcome{Screen: inputScreen(ev, "Nothing to change. Send at least one of the fields:", parser.AccountTemplate), Retract: true}
	}

	if _, err := m.api.UpdateAccount(ctx, s.Handle, patch); err != nil {
		s, out := m.remoteError(s, ev, "Could not update your account.", err)
		out.Retract = true
		return s, out
	}
	s, out := m.home(s, ev, "Account updated.")
	out.Retract = true
	return s, out
}

// home is the hub every screen can return to. Unauthenticated sessions
// have no hub yet and go back to the welcome screen instead.
func (m *Machine) home(s domain.Session, ev domain.Event, note string) (domain.Session, Outcome) {
	s.Window = nil
	s.Pending = nil
	if !s.Authenticated() {
		return m.welcome(s, ev, note)
	}
	s.State = domain.StateMain
	return s, show(mainScreen(ev, note))
}

func (m *Machine) welcome(s domain.Session, ev domain.Event, note string) (domain.Session, Outcome) {
	s.State = domain.StateAuthChoice
	s.Pending = nil
	s.Window = nil
	s.Handle = nil
	return s, show(welcomeScreen(ev, note))
}

func (m *Machine) remoteError(s domain.Session, ev domain.Event, msg string, err error) (domain.Session, Outcome) {
	m.log.Error("remote call failed", "state", s.State, "error", err)
	return m.home(s, ev, msg)
}

func (m *Machine) stateError(s domain.Session, ev domain.Event, err error) (domain.Session, Outcome) {
	m.log.Warn("event rejected", "state", s.State, "token", ev.Token, "error", err)
	return m.home(s, ev, "Something went wrong, back to the start.")
}

func show(sc *domain.Screen) Outcome {
	return Outcome{Screen: sc}
}

func invalidInputScreen(ev domain.Event, err error, template string) *domain.Screen {
	var b strings.Builder
	b.WriteString("I could not read that")
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		b.WriteString(": " + verr.Reason)
		if verr.Hint != "" {
			b.WriteString(", " + verr.Hint)
		}
	}
	b.WriteString(".\nPlease send it again:")
	return inputScreen(ev, b.String(), template)
}
