package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Invitation struct {
	ID             string     `db:"id"`
	OrganizationID string     `db:"organization_id"`
	Email          string     `db:"email"`
	Role           string     `db:"role"`
	Token          string     `db:"token"`
	ExpiresAt      time.Time  `db:"expires_at"`
	RedeemedAt     *time.Time `db:"redeemed_at"`
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	MarkRedeemed(ctx context.Context, id string, at time.Time) error
}

type pgxInvitationRepository struct {
	pool *pgxpool.Pool
}

func NewPgxInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &pgxInvitationRepository{pool: pool}
}

var invitationColumns = []string{"id", "organization_id", "email", "role", "token", "expires_at", "redeemed_at"}

func (p *pgxInvitationRepository) Create(ctx context.Context, inv *Invitation) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("invitation", invitationColumns...),
		im.Values(
			psql.Arg(inv.ID), psql.Arg(inv.OrganizationID), psql.Arg(inv.Email),
			psql.Arg(inv.Role), psql.Arg(inv.Token), psql.Arg(inv.ExpiresAt), psql.Arg(inv.RedeemedAt),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}

	return err
}

func (p *pgxInvitationRepository) GetByToken(ctx context.Context, token string) (*Invitation, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(invitationColumns)...),
		sm.From("invitation"),
		sm.Where(psql.Quote("token").EQ(psql.Arg(token))),
		sm.ForUpdate("invitation"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	inv := &Invitation{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&inv.ID, &inv.OrganizationID, &inv.Email, &inv.Role,
		&inv.Token, &inv.ExpiresAt, &inv.RedeemedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (p *pgxInvitationRepository) MarkRedeemed(ctx context.Context, id string, at time.Time) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("invitation"),
		um.SetCol("redeemed_at").ToArg(at),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	tag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
