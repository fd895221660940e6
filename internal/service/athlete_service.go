package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AthleteService struct {
	tx db.Transactor

	athletes repository.AthleteRepository
	orgs     repository.OrganizationRepository
}

func NewAthleteService(tx db.Transactor) *AthleteService {
	return &AthleteService{tx: tx}
}

func (a *AthleteService) WithAthleteRepo(r repository.AthleteRepository) *AthleteService {
	a.athletes = r
	return a
}

func (a *AthleteService) WithOrgRepo(r repository.OrganizationRepository) *AthleteService {
	a.orgs = r
	return a
}

func (a *AthleteService) UpsertAthlete(ctx context.Context, athlete *model.Athlete) (*model.Athlete, *Error) {
	l := logger.FromContext(ctx)

	if athlete.CompetitiveLevel == 0 {
		athlete.CompetitiveLevel = model.CompetitiveLevelDefault
	}
	if athlete.CompetitiveLevel < model.CompetitiveLevelMin || athlete.CompetitiveLevel > model.CompetitiveLevelMax {
		return nil, NewFieldError(ErrorCodeInvalidBody, "competitive_level", "competitive level must be between 1 and 5")
	}
	if athlete.ID == "" {
		athlete.ID = uuid.NewString()
		athlete.IsActive = true
	}

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := a.orgs.Get(txCtx, athlete.OrganizationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewServiceError(ErrorCodeNotFound, "organization not found")
			}
			return NewServiceError(ErrorCodeUnspecified, "failed to get organization")
		}

		if err := a.athletes.Upsert(txCtx, &repository.Athlete{
			ID:               athlete.ID,
			FirstName:        athlete.FirstName,
			LastName:         athlete.LastName,
			BirthYear:        athlete.BirthYear,
			GraduationYear:   athlete.GraduationYear,
			Gender:           athlete.Gender,
			Email:            athlete.Email,
			Sport:            athlete.Sport,
			School:           athlete.School,
			CompetitiveLevel: athlete.CompetitiveLevel,
			IsActive:         athlete.IsActive,
			OrganizationID:   athlete.OrganizationID,
		}); err != nil {
			l.Error("failed to upsert athlete", zap.String("athlete_id", athlete.ID), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to upsert athlete")
		}
		return nil
	})

	var res *Error
	if errors.As(err, &res) {
		return nil, res
	}
	return athlete, nil
}

func (a *AthleteService) GetAthlete(ctx context.Context, id string) (*model.Athlete, *Error) {
	repoAthlete, err := a.athletes.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "athlete not found")
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to get athlete", zap.String("athlete_id", id), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get athlete")
	}
	return athleteFromRepo(repoAthlete), nil
}

func (a *AthleteService) PatchAthlete(ctx context.Context, patch *model.AthletePatch) (*model.Athlete, *Error) {
	if patch.FirstName == nil && patch.LastName == nil && patch.Email == nil &&
		patch.Sport == nil && patch.School == nil && patch.CompetitiveLevel == nil &&
		patch.IsActive == nil {
		return nil, NewServiceError(ErrorCodeInvalidBody, "no fields to update")
	}
	if patch.CompetitiveLevel != nil &&
		(*patch.CompetitiveLevel < model.CompetitiveLevelMin || *patch.CompetitiveLevel > model.CompetitiveLevelMax) {
		return nil, NewFieldError(ErrorCodeInvalidBody, "competitive_level", "competitive level must be between 1 and 5")
	}

	repoAthlete, err := a.athletes.Patch(ctx, &repository.AthletePatch{
		ID:               patch.ID,
		FirstName:        patch.FirstName,
		LastName:         patch.LastName,
		Email:            patch.Email,
		Sport:            patch.Sport,
		School:           patch.School,
		CompetitiveLevel: patch.CompetitiveLevel,
		IsActive:         patch.IsActive,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "athlete not found")
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to patch athlete", zap.String("athlete_id", patch.ID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update athlete")
	}
	return athleteFromRepo(repoAthlete), nil
}

func (a *AthleteService) SetAthleteIsActive(ctx context.Context, id string, isActive bool) (*model.Athlete, *Error) {
	return a.PatchAthlete(ctx, &model.AthletePatch{ID: id, IsActive: &isActive})
}

func athleteFromRepo(r *repository.Athlete) *model.Athlete {
	return &model.Athlete{
		ID:               r.ID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		BirthYear:        r.BirthYear,
		GraduationYear:   r.GraduationYear,
		Gender:           r.Gender,
		Email:            r.Email,
		Sport:            r.Sport,
		School:           r.School,
		CompetitiveLevel: r.CompetitiveLevel,
		IsActive:         r.IsActive,
		OrganizationID:   r.OrganizationID,
	}
}
