package useCases

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/larriantoniy/pethome_bot/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePetHome keeps ads in memory. Own ads belong to the signed-in user,
// other ads to everybody else.
type fakePetHome struct {
	mu       sync.Mutex
	password string
	own      []domain.Advertisement
	other    []domain.Advertisement
	account  domain.Account
	nextID   int64

	failAll error
	fetches []string
	created []domain.AdPayload
	updated map[int64]domain.AdPayload
	deleted []int64
	patches []domain.AccountPatch
}

func newFakePetHome() *fakePetHome {
	return &fakePetHome{password: "secret", nextID: 100, updated: map[int64]domain.AdPayload{}}
}

func (f *fakePetHome) seedOwn(n int) {
	for i := 0; i < n; i++ {
		f.nextID++
		f.own = append(f.own, domain.Advertisement{
			ID:        f.nextID,
			AdPayload: domain.AdPayload{PetName: fmt.Sprintf("own-%d", i+1), Type: domain.AdLost},
		})
	}
}

func (f *fakePetHome) seedOther(n int) {
	for i := 0; i < n; i++ {
		f.other = append(f.other, domain.Advertisement{
			AdPayload: domain.AdPayload{PetName: fmt.Sprintf("other-%d", i+1), Type: domain.AdFound},
		})
	}
}

func page(all []domain.Advertisement, p int) []domain.Advertisement {
	from := (p - 1) * domain.PageSize
	if p < 1 || from >= len(all) {
		return nil
	}
	to := from + domain.PageSize
	if to > len(all) {
		to = len(all)
	}
	return append([]domain.Advertisement(nil), all[from:to]...)
}

func (f *fakePetHome) Authenticate(_ context.Context, username, password string) (*domain.Handle, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	if password != f.password {
		return nil, fmt.Errorf("%w: bad credentials", domain.ErrAuthentication)
	}
	return &domain.Handle{Token: "token-" + username}, nil
}

func (f *fakePetHome) FetchOwn(_ context.Context, _ *domain.Handle, p int) ([]domain.Advertisement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, fmt.Sprintf("own:%d", p))
	if f.failAll != nil {
		return nil, f.failAll
	}
	return page(f.own, p), nil
}

func (f *fakePetHome) FetchOther(_ context.Context, _ *domain.Handle, p int) ([]domain.Advertisement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, fmt.Sprintf("other:%d", p))
	if f.failAll != nil {
		return nil, f.failAll
	}
	return page(f.other, p), nil
}

func (f *fakePetHome) FetchByID(_ context.Context, _ *domain.Handle, id int64) (domain.Advertisement, error) {
	for _, ad := range f.own {
		if ad.ID == id {
			return ad, nil
		}
	}
	return domain.Advertisement{}, fmt.Errorf("%w: not found", domain.ErrRemote)
}

func (f *fakePetHome) CreateAd(_ context.Context, _ *domain.Handle, ad domain.AdPayload) (int64, error) {
	if f.failAll != nil {
		return 0, f.failAll
	}
	f.nextID++
	f.created = append(f.created, ad)
	f.own = append(f.own, domain.Advertisement{ID: f.nextID, AdPayload: ad})
	return f.nextID, nil
}

func (f *fakePetHome) UpdateAd(_ context.Context, _ *domain.Handle, ad domain.AdPayload, id int64) (domain.Advertisement, error) {
	if f.failAll != nil {
		return domain.Advertisement{}, f.failAll
	}
	f.updated[id] = ad
	return domain.Advertisement{ID: id, AdPayload: ad}, nil
}

func (f *fakePetHome) DeleteAd(_ context.Context, _ *domain.Handle, id int64) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.deleted = append(f.deleted, id)
	for i, ad := range f.own {
		if ad.ID == id {
			f.own = append(f.own[:i], f.own[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakePetHome) GetAccount(_ context.Context, _ *domain.Handle) (domain.Account, error) {
	if f.failAll != nil {
		return domain.Account{}, f.failAll
	}
	return f.account, nil
}

func (f *fakePetHome) UpdateAccount(_ context.Context, _ *domain.Handle, p domain.AccountPatch) (domain.Account, error) {
	if f.failAll != nil {
		return domain.Account{}, f.failAll
	}
	f.patches = append(f.patches, p)
	if p.FirstName != nil {
		f.account.FirstName = *p.FirstName
	}
	return f.account, nil
}

func (f *fakePetHome) resetFetches() {
	f.mu.Lock()
	f.fetches = nil
	f.mu.Unlock()
}

type fakeGuard struct {
	blocked  bool
	failures int
	resets   int
}

func (g *fakeGuard) Allowed(context.Context, int64) (bool, error) { return !g.blocked, nil }
func (g *fakeGuard) Failed(context.Context, int64) error          { g.failures++; return nil }
func (g *fakeGuard) Succeeded(context.Context, int64) error       { g.resets++; return nil }

// fakeTelegram records what the runner asked of the transport.
type fakeTelegram struct {
	mu        sync.Mutex
	events    chan domain.Event
	screens   []domain.Screen
	retracted []domain.ChatContext
	acked     []int64
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{events: make(chan domain.Event)}
}

func (t *fakeTelegram) Listen(context.Context) (<-chan domain.Event, error) { return t.events, nil }

func (t *fakeTelegram) Render(_ context.Context, sc domain.Screen) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screens = append(t.screens, sc)
	return nil
}

func (t *fakeTelegram) Retract(_ context.Context, chat domain.ChatContext) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.retracted = append(t.retracted, chat)
	return nil
}

func (t *fakeTelegram) Acknowledge(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.acked = append(t.acked, id)
	return nil
}

func (t *fakeTelegram) Close() {}
