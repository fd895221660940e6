package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Athlete struct {
	ID               string `db:"id"`
	FirstName        string `db:"first_name"`
	LastName         string `db:"last_name"`
	BirthYear        int    `db:"birth_year"`
	GraduationYear   int    `db:"graduation_year"`
	Gender           string `db:"gender"`
	Email            string `db:"email"`
	Sport            string `db:"sport"`
	School           string `db:"school"`
	CompetitiveLevel int    `db:"competitive_level"`
	IsActive         bool   `db:"is_active"`
	OrganizationID   string `db:"organization_id"`
}

type AthletePatch struct {
	ID               string  `db:"id"`
	FirstName        *string `db:"first_name"`
	LastName         *string `db:"last_name"`
	Email            *string `db:"email"`
	Sport            *string `db:"sport"`
	School           *string `db:"school"`
	CompetitiveLevel *int    `db:"competitive_level"`
	IsActive         *bool   `db:"is_active"`
}

type AthleteRepository interface {
	Get(ctx context.Context, id string) (*Athlete, error)
	FindByName(ctx context.Context, orgID, firstName, lastName string) (*Athlete, error)
	Upsert(ctx context.Context, athlete *Athlete) error
	Patch(ctx context.Context, patch *AthletePatch) (*Athlete, error)
}

type pgxAthleteRepository struct {
	pool *pgxpool.Pool
}

func NewPgxAthleteRepository(pool *pgxpool.Pool) AthleteRepository {
	return &pgxAthleteRepository{pool: pool}
}

var athleteColumns = []string{
	"id", "first_name", "last_name", "birth_year", "graduation_year",
	"gender", "email", "sport", "school", "competitive_level",
	"is_active", "organization_id",
}

func scanAthlete(row pgx.CollectableRow) (*Athlete, error) {
	a := &Athlete{}
	if err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.BirthYear, &a.GraduationYear,
		&a.Gender, &a.Email, &a.Sport, &a.School, &a.CompetitiveLevel,
		&a.IsActive, &a.OrganizationID,
	); err != nil {
		return nil, err
	}
	return a, nil
}

func (p *pgxAthleteRepository) Get(ctx context.Context, id string) (*Athlete, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(athleteColumns)...),
		sm.From("athlete"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	a := &Athlete{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.BirthYear, &a.GraduationYear,
		&a.Gender, &a.Email, &a.Sport, &a.School, &a.CompetitiveLevel,
		&a.IsActive, &a.OrganizationID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func findByNameQuery(orgID, firstName, lastName string) bob.BaseQuery[*dialect.SelectQuery] {
	return psql.Select(
		sm.Columns(toAnySlice(athleteColumns)...),
		sm.From("athlete"),
		sm.Where(
			psql.Quote("organization_id").EQ(psql.Arg(orgID)).
				And(psql.Raw("lower(first_name) = lower(?)", psql.Arg(firstName))).
				And(psql.Raw("lower(last_name) = lower(?)", psql.Arg(lastName))),
		),
	)
}

// FindByName matches case-insensitively within an organization. Used by the
// CSV and OCR importers to attach rows to existing athletes.
func (p *pgxAthleteRepository) FindByName(ctx context.Context, orgID, firstName, lastName string) (*Athlete, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := findByNameQuery(orgID, firstName, lastName).Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches, err := pgx.CollectRows(rows, scanAthlete)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches[0], nil
}

func (p *pgxAthleteRepository) Upsert(ctx context.Context, a *Athlete) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("athlete", athleteColumns...),
		im.Values(
			psql.Arg(a.ID), psql.Arg(a.FirstName), psql.Arg(a.LastName),
			psql.Arg(a.BirthYear), psql.Arg(a.GraduationYear), psql.Arg(a.Gender),
			psql.Arg(a.Email), psql.Arg(a.Sport), psql.Arg(a.School),
			psql.Arg(a.CompetitiveLevel), psql.Arg(a.IsActive), psql.Arg(a.OrganizationID),
		),
		im.OnConflict(psql.Quote("id")).DoUpdate(
			im.SetCol("first_name").ToArg(a.FirstName),
			im.SetCol("last_name").ToArg(a.LastName),
			im.SetCol("birth_year").ToArg(a.BirthYear),
			im.SetCol("graduation_year").ToArg(a.GraduationYear),
			im.SetCol("gender").ToArg(a.Gender),
			im.SetCol("email").ToArg(a.Email),
			im.SetCol("sport").ToArg(a.Sport),
			im.SetCol("school").ToArg(a.School),
			im.SetCol("competitive_level").ToArg(a.CompetitiveLevel),
			im.SetCol("is_active").ToArg(a.IsActive),
		),
	)
	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return err
}

func (p *pgxAthleteRepository) Patch(ctx context.Context, patch *AthletePatch) (*Athlete, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 7)

	if patch.FirstName != nil {
		sets = append(sets, um.SetCol("first_name").ToArg(*patch.FirstName))
	}
	if patch.LastName != nil {
		sets = append(sets, um.SetCol("last_name").ToArg(*patch.LastName))
	}
	if patch.Email != nil {
		sets = append(sets, um.SetCol("email").ToArg(*patch.Email))
	}
	if patch.Sport != nil {
		sets = append(sets, um.SetCol("sport").ToArg(*patch.Sport))
	}
	if patch.School != nil {
		sets = append(sets, um.SetCol("school").ToArg(*patch.School))
	}
	if patch.CompetitiveLevel != nil {
		sets = append(sets, um.SetCol("competitive_level").ToArg(*patch.CompetitiveLevel))
	}
	if patch.IsActive != nil {
		sets = append(sets, um.SetCol("is_active").ToArg(*patch.IsActive))
	}

	q := psql.Update(
		um.Table("athlete"),
		um.Where(psql.Quote("id").EQ(psql.Arg(patch.ID))),
		um.Returning(toAnySlice(athleteColumns)...),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	a := &Athlete{}
	if err = e.QueryRow(ctx, sql, args...).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.BirthYear, &a.GraduationYear,
		&a.Gender, &a.Email, &a.Sport, &a.School, &a.CompetitiveLevel,
		&a.IsActive, &a.OrganizationID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return a, nil
}

func toAnySlice(cols []string) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}
