package ports

import (
	"context"

	"github.com/larriantoniy/pethome_bot/internal/domain"
)

// PetHome is the remote advertisement service.
// Failures wrap domain.ErrRemote; Authenticate also wraps
// domain.ErrAuthentication for rejected credentials.
type PetHome interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Handle, error)

	FetchOwn(ctx context.Context, h *domain.Handle, page int) ([]domain.Advertisement, error)
	FetchOther(ctx context.Context, h *domain.Handle, page int) ([]domain.Advertisement, error)
	FetchByID(ctx context.Context, h *domain.Handle, id int64) (domain.Advertisement, error)

	CreateAd(ctx context.Context, h *domain.Handle, ad domain.AdPayload) (int64, error)
	UpdateAd(ctx context.Context, h *domain.Handle, ad domain.AdPayload, id int64) (domain.Advertisement, error)
	DeleteAd(ctx context.Context, h *domain.Handle, id int64) error

	GetAccount(ctx context.Context, h *domain.Handle) (domain.Account, error)
	UpdateAccount(ctx context.Context, h *domain.Handle, patch domain.AccountPatch) (domain.Account, error)
}
