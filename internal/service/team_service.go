package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/johnahull/AthleteMetrics-sub012/internal/validate"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type TeamService struct {
	tx db.Transactor

	teams    repository.TeamRepository
	athletes repository.AthleteRepository
	orgs     repository.OrganizationRepository
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{tx: tx}
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

func (t *TeamService) WithAthleteRepo(r repository.AthleteRepository) *TeamService {
	t.athletes = r
	return t
}

func (t *TeamService) WithOrgRepo(r repository.OrganizationRepository) *TeamService {
	t.orgs = r
	return t
}

func (t *TeamService) CreateTeam(ctx context.Context, team *model.Team) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating team", zap.String("team_name", team.Name), zap.String("org_id", team.OrganizationID))

	if team.Season != "" {
		if err := validate.Season(team.Season); err != nil {
			return nil, NewFieldError(ErrorCodeInvalidBody, "season", err.Error())
		}
	}

	team.ID = uuid.NewString()

	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := t.orgs.Get(txCtx, team.OrganizationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewServiceError(ErrorCodeNotFound, "organization not found")
			}
			return NewServiceError(ErrorCodeUnspecified, "failed to get organization")
		}

		err := t.teams.Create(txCtx, &repository.Team{
			ID:             team.ID,
			OrganizationID: team.OrganizationID,
			Name:           team.Name,
			Sport:          team.Sport,
			Season:         team.Season,
		})
		if errors.Is(err, repository.ErrAlreadyExists) {
			l.Warn("team already exists in organization", zap.String("team_name", team.Name))
			// Field-specific: the client shows this on the name input.
			return NewFieldError(ErrorCodeTeamExists, "team_name", "a team with this name already exists in the organization")
		}
		if err != nil {
			l.Error("failed to create team", zap.String("team_name", team.Name), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to create team")
		}

		for _, m := range team.Members {
			if err := t.teams.AddMember(txCtx, team.ID, m.AthleteID); err != nil {
				l.Error("failed to add team member",
					zap.String("team_id", team.ID),
					zap.String("athlete_id", m.AthleteID),
					zap.Error(err))
				if errors.Is(err, repository.ErrNotFound) {
					return NewServiceError(ErrorCodeNotFound, "athlete not found")
				}
				return NewServiceError(ErrorCodeUnspecified, "failed to add team member")
			}
		}

		return nil
	})

	var res *Error
	if errors.As(err, &res) {
		return nil, res
	}
	return team, nil
}

func (t *TeamService) GetTeam(ctx context.Context, id string) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("getting team", zap.String("team_id", id))

	repoTeam, err := t.teams.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		l.Warn("team not found", zap.String("team_id", id))
		return nil, NewServiceError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", id), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get team")
	}

	repoMembers, err := t.teams.GetTeamMembers(ctx, id)
	if err != nil {
		l.Error("failed to get team members", zap.String("team_id", id), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get team members")
	}

	members := make([]*model.TeamMember, 0, len(repoMembers))
	for _, m := range repoMembers {
		members = append(members, &model.TeamMember{
			AthleteID: m.ID,
			FullName:  m.FirstName + " " + m.LastName,
			IsActive:  m.IsActive,
		})
	}

	return &model.Team{
		ID:             repoTeam.ID,
		OrganizationID: repoTeam.OrganizationID,
		Name:           repoTeam.Name,
		Sport:          repoTeam.Sport,
		Season:         repoTeam.Season,
		Members:        members,
	}, nil
}

func (t *TeamService) ListTeams(ctx context.Context, orgID string) ([]*model.Team, *Error) {
	repoTeams, err := t.teams.ListByOrganization(ctx, orgID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list teams", zap.String("org_id", orgID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list teams")
	}

	teams := make([]*model.Team, 0, len(repoTeams))
	for _, rt := range repoTeams {
		teams = append(teams, &model.Team{
			ID:             rt.ID,
			OrganizationID: rt.OrganizationID,
			Name:           rt.Name,
			Sport:          rt.Sport,
			Season:         rt.Season,
		})
	}
	return teams, nil
}

func (t *TeamService) AddMember(ctx context.Context, teamID, athleteID string) *Error {
	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := t.teams.Get(txCtx, teamID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewServiceError(ErrorCodeNotFound, "team not found")
			}
			return NewServiceError(ErrorCodeUnspecified, "failed to get team")
		}
		if _, err := t.athletes.Get(txCtx, athleteID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewServiceError(ErrorCodeNotFound, "athlete not found")
			}
			return NewServiceError(ErrorCodeUnspecified, "failed to get athlete")
		}
		if err := t.teams.AddMember(txCtx, teamID, athleteID); err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to add team member")
		}
		return nil
	})

	var res *Error
	errors.As(err, &res)
	return res
}

func (t *TeamService) RemoveMember(ctx context.Context, teamID, athleteID string) *Error {
	err := t.teams.RemoveMember(ctx, teamID, athleteID)
	if errors.Is(err, repository.ErrNotFound) {
		return NewServiceError(ErrorCodeNotFound, "membership not found")
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to remove team member",
			zap.String("team_id", teamID),
			zap.String("athlete_id", athleteID),
			zap.Error(err))
		return NewServiceError(ErrorCodeUnspecified, "failed to remove team member")
	}
	return nil
}
