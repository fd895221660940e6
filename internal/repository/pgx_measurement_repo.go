package repository

import (
	"context"
	"time"

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
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Measurement struct {
	ID         string    `db:"id"`
	AthleteID  string    `db:"athlete_id"`
	Metric     string    `db:"metric"`
	Value      float64   `db:"value"`
	Unit       string    `db:"unit"`
	RecordedAt time.Time `db:"recorded_at"`
	Source     string    `db:"source"`
}

type MeasurementPatch struct {
	ID         string     `db:"id"`
	Value      *float64   `db:"value"`
	RecordedAt *time.Time `db:"recorded_at"`
}

// MeasurementFilter narrows List; zero fields are ignored.
type MeasurementFilter struct {
	AthleteID string
	TeamID    string
	Metric    string
	From      *time.Time
	To        *time.Time
}

type MeasurementRepository interface {
	Create(ctx context.Context, m *Measurement) error
	Get(ctx context.Context, id string) (*Measurement, error)
	List(ctx context.Context, filter *MeasurementFilter) ([]*Measurement, error)
	Patch(ctx context.Context, patch *MeasurementPatch) (*Measurement, error)
	Delete(ctx context.Context, id string) error
}

type pgxMeasurementRepository struct {
	pool *pgxpool.Pool
}

func NewPgxMeasurementRepository(pool *pgxpool.Pool) MeasurementRepository {
	return &pgxMeasurementRepository{pool: pool}
}

var measurementColumns = []string{"id", "athlete_id", "metric", "value", "unit", "recorded_at", "source"}

func scanMeasurement(row pgx.CollectableRow) (*Measurement, error) {
	m := &Measurement{}
	if err := row.Scan(&m.ID, &m.AthleteID, &m.Metric, &m.Value, &m.Unit, &m.RecordedAt, &m.Source); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *pgxMeasurementRepository) Create(ctx context.Context, m *Measurement) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("measurement", measurementColumns...),
		im.Values(
			psql.Arg(m.ID), psql.Arg(m.AthleteID), psql.Arg(m.Metric),
			psql.Arg(m.Value), psql.Arg(m.Unit), psql.Arg(m.RecordedAt), psql.Arg(m.Source),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyExists
		case "23503": // unknown athlete_id
			return ErrNotFound
		}
	}

	return err
}

func (p *pgxMeasurementRepository) Get(ctx context.Context, id string) (*Measurement, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(toAnySlice(measurementColumns)...),
		sm.From("measurement"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	m := &Measurement{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.AthleteID, &m.Metric, &m.Value, &m.Unit, &m.RecordedAt, &m.Source); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (p *pgxMeasurementRepository) List(ctx context.Context, filter *MeasurementFilter) ([]*Measurement, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(
			"m.id", "m.athlete_id", "m.metric", "m.value", "m.unit", "m.recorded_at", "m.source",
		),
		sm.From("measurement").As("m"),
		sm.OrderBy("m.recorded_at"),
	}

	if filter.TeamID != "" {
		mods = append(mods,
			sm.InnerJoin("team_member").As("tm").On(psql.Quote("tm", "athlete_id").EQ(psql.Quote("m", "athlete_id"))),
			sm.Where(psql.Quote("tm", "team_id").EQ(psql.Arg(filter.TeamID))),
		)
	}
	if filter.AthleteID != "" {
		mods = append(mods, sm.Where(psql.Quote("m", "athlete_id").EQ(psql.Arg(filter.AthleteID))))
	}
	if filter.Metric != "" {
		mods = append(mods, sm.Where(psql.Quote("m", "metric").EQ(psql.Arg(filter.Metric))))
	}
	if filter.From != nil {
		mods = append(mods, sm.Where(psql.Quote("m", "recorded_at").GTE(psql.Arg(*filter.From))))
	}
	if filter.To != nil {
		mods = append(mods, sm.Where(psql.Quote("m", "recorded_at").LTE(psql.Arg(*filter.To))))
	}

	q := psql.Select(mods...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, scanMeasurement)
}

func (p *pgxMeasurementRepository) Patch(ctx context.Context, patch *MeasurementPatch) (*Measurement, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 2)

	if patch.Value != nil {
		sets = append(sets, um.SetCol("value").ToArg(*patch.Value))
	}
	if patch.RecordedAt != nil {
		sets = append(sets, um.SetCol("recorded_at").ToArg(*patch.RecordedAt))
	}

	q := psql.Update(
		um.Table("measurement"),
		um.Where(psql.Quote("id").EQ(psql.Arg(patch.ID))),
		um.Returning(toAnySlice(measurementColumns)...),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	m := &Measurement{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.AthleteID, &m.Metric, &m.Value, &m.Unit, &m.RecordedAt, &m.Source); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return m, nil
}

func (p *pgxMeasurementRepository) Delete(ctx context.Context, id string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("measurement"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
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
