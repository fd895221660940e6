package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

type Team struct {
	ID             string `db:"id"`
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	Sport          string `db:"sport"`
	Season         string `db:"season"`
}

type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	Get(ctx context.Context, id string) (*Team, error)
	ListByOrganization(ctx context.Context, orgID string) ([]*Team, error)
	GetTeamMembers(ctx context.Context, teamID string) ([]*Athlete, error)
	AddMember(ctx context.Context, teamID, athleteID string) error
	RemoveMember(ctx context.Context, teamID, athleteID string) error
}

type pgxTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

func (p *pgxTeamRepository) Create(ctx context.Context, team *Team) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("team", "id", "organization_id", "name", "sport", "season"),
		im.Values(psql.Arg(team.ID), psql.Arg(team.OrganizationID), psql.Arg(team.Name), psql.Arg(team.Sport), psql.Arg(team.Season)),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)

	// Unique (organization_id, name) index.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}

	return err
}

func (p *pgxTeamRepository) Get(ctx context.Context, id string) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "organization_id", "name", "sport", "season"),
		sm.From("team"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	team := &Team{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&team.ID, &team.OrganizationID, &team.Name, &team.Sport, &team.Season); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

func (p *pgxTeamRepository) ListByOrganization(ctx context.Context, orgID string) ([]*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "organization_id", "name", "sport", "season"),
		sm.From("team"),
		sm.Where(psql.Quote("organization_id").EQ(psql.Arg(orgID))),
		sm.OrderBy("name"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Team, error) {
		team := &Team{}
		if err = row.Scan(&team.ID, &team.OrganizationID, &team.Name, &team.Sport, &team.Season); err != nil {
			return nil, err
		}
		return team, nil
	})
}

func teamMembersQuery(teamID string) bob.BaseQuery[*dialect.SelectQuery] {
	return psql.Select(
		sm.Columns(
			"a.id", "a.first_name", "a.last_name", "a.birth_year", "a.graduation_year",
			"a.gender", "a.email", "a.sport", "a.school", "a.competitive_level",
			"a.is_active", "a.organization_id",
		),
		sm.From("athlete").As("a"),
		sm.InnerJoin("team_member").As("tm").On(psql.Quote("tm", "athlete_id").EQ(psql.Quote("a", "id"))),
		sm.Where(psql.Quote("tm", "team_id").EQ(psql.Arg(teamID))),
		sm.OrderBy("a.last_name"),
		sm.OrderBy("a.first_name"),
	)
}

func (p *pgxTeamRepository) GetTeamMembers(ctx context.Context, teamID string) ([]*Athlete, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := teamMembersQuery(teamID).Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, scanAthlete)
}

func (p *pgxTeamRepository) AddMember(ctx context.Context, teamID, athleteID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("team_member", "team_id", "athlete_id"),
		im.Values(psql.Arg(teamID), psql.Arg(athleteID)),
		im.OnConflict("team_id", "athlete_id").DoNothing(),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	var pgErr *pgconn.PgError
	if _, err = e.Exec(ctx, sql, args...); errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrNotFound
	}
	return err
}

func (p *pgxTeamRepository) RemoveMember(ctx context.Context, teamID, athleteID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("team_member"),
		dm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID)).And(psql.Quote("athlete_id").EQ(psql.Arg(athleteID)))),
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
