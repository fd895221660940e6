package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type InvitationService struct {
	tx db.Transactor

	invitations repository.InvitationRepository
	orgs        repository.OrganizationRepository

	ttl time.Duration
	now func() time.Time
}

func NewInvitationService(tx db.Transactor, ttl time.Duration) *InvitationService {
	return &InvitationService{
		tx:  tx,
		ttl: ttl,
		now: time.Now,
	}
}

func (i *InvitationService) WithInvitationRepo(r repository.InvitationRepository) *InvitationService {
	i.invitations = r
	return i
}

func (i *InvitationService) WithOrgRepo(r repository.OrganizationRepository) *InvitationService {
	i.orgs = r
	return i
}

func (i *InvitationService) WithClock(now func() time.Time) *InvitationService {
	i.now = now
	return i
}

func newInviteToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// CreateInvitation issues an opaque single-use token. Delivery of the
// token to the invitee is out of scope.
func (i *InvitationService) CreateInvitation(ctx context.Context, inv *model.Invitation) (*model.Invitation, *Error) {
	l := logger.FromContext(ctx)

	inv.ID = uuid.NewString()
	inv.Token = newInviteToken()
	inv.ExpiresAt = i.now().UTC().Add(i.ttl)
	inv.RedeemedAt = nil

	err := i.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := i.orgs.Get(txCtx, inv.OrganizationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewServiceError(ErrorCodeNotFound, "organization not found")
			}
			return NewServiceError(ErrorCodeUnspecified, "failed to get organization")
		}

		if err := i.invitations.Create(txCtx, &repository.Invitation{
			ID:             inv.ID,
			OrganizationID: inv.OrganizationID,
			Email:          inv.Email,
			Role:           inv.Role,
			Token:          inv.Token,
			ExpiresAt:      inv.ExpiresAt,
		}); err != nil {
			l.Error("failed to create invitation",
				zap.String("org_id", inv.OrganizationID),
				zap.String("role", inv.Role),
				zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to create invitation")
		}
		return nil
	})

	var res *Error
	if errors.As(err, &res) {
		return nil, res
	}
	return inv, nil
}

// RedeemInvitation consumes a token once. The row is locked for the
// duration of the transaction so a token cannot be redeemed twice.
func (i *InvitationService) RedeemInvitation(ctx context.Context, token string) (*model.Invitation, *Error) {
	l := logger.FromContext(ctx)

	inv := &model.Invitation{}

	err := i.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		repoInv, err := i.invitations.GetByToken(txCtx, token)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "invitation not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get invitation")
		}

		now := i.now().UTC()

		if repoInv.RedeemedAt != nil {
			l.Warn("invitation already redeemed", zap.String("invitation_id", repoInv.ID))
			return NewServiceError(ErrorCodeInviteRedeemed, "invitation has already been redeemed")
		}
		if now.After(repoInv.ExpiresAt) {
			l.Warn("invitation expired", zap.String("invitation_id", repoInv.ID))
			return NewServiceError(ErrorCodeInviteExpired, "invitation has expired")
		}

		if err := i.invitations.MarkRedeemed(txCtx, repoInv.ID, now); err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to redeem invitation")
		}

		inv.ID = repoInv.ID
		inv.OrganizationID = repoInv.OrganizationID
		inv.Email = repoInv.Email
		inv.Role = repoInv.Role
		inv.ExpiresAt = repoInv.ExpiresAt
		inv.RedeemedAt = &now

		return nil
	})

	var res *Error
	if errors.As(err, &res) {
		return nil, res
	}
	return inv, nil
}
