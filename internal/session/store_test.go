package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larriantoniy/pethome_bot/internal/domain"
)

func TestGetCreatesWelcomeSession(t *testing.T) {
	s := NewStore()

	got := s.Get(42)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, domain.StateWelcome, got.State)
	assert.Nil(t, got.Handle)
	assert.Equal(t, 1, s.Len())

	s.Get(42)
	s.Get(-7)
	assert.Equal(t, 2, s.Len())
}

func TestUpdateAndReset(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.Update(ctx, 1, func(sess domain.Session) domain.Session {
		sess.State = domain.StateMain
		sess.Handle = &domain.Handle{Token: "t"}
		sess.Window = &domain.Window{Scope: domain.ScopeOwn, Page: 2}
		return sess
	})
	require.NoError(t, err)

	got := s.Get(1)
	assert.Equal(t, domain.StateMain, got.State)
	require.NotNil(t, got.Window)
	assert.Equal(t, 2, got.Window.Page)

	fresh := s.Reset(1)
	assert.Equal(t, domain.StateWelcome, fresh.State)
	assert.Nil(t, fresh.Handle)
	assert.Nil(t, fresh.Window)
	assert.Equal(t, 1, s.Len())
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	_, err := s.Update(context.Background(), 1, func(sess domain.Session) domain.Session {
		sess.Pending = map[string]string{domain.PendingUsername: "jerry"}
		return sess
	})
	require.NoError(t, err)

	snap := s.Get(1)
	snap.Pending[domain.PendingUsername] = "tom"

	assert.Equal(t, "jerry", s.Get(1).Pending[domain.PendingUsername])
}

func TestUpdateCanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := s.Update(ctx, 1, func(sess domain.Session) domain.Session {
		called = true
		return sess
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUpdateSerializesSameUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	inside := 0
	maxInside := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, 7, func(sess domain.Session) domain.Session {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)
				if sess.Pending == nil {
					sess.Pending = map[string]string{}
				}
				sess.Pending["n"] += "x"

				mu.Lock()
				inside--
				mu.Unlock()
				return sess
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
	assert.Len(t, s.Get(7).Pending["n"], workers)
}

func TestUpdateDoesNotBlockOtherUsers(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = s.Update(ctx, 1, func(sess domain.Session) domain.Session {
			close(started)
			<-release
			return sess
		})
	}()
	<-started

	done := make(chan struct{})
	go func() {
		_, _ = s.Update(ctx, 2, func(sess domain.Session) domain.Session { return sess })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("user 2 was blocked by user 1")
	}
	close(release)
}
