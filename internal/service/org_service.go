package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type OrganizationService struct {
	tx db.Transactor

	orgs repository.OrganizationRepository
}

func NewOrganizationService(tx db.Transactor) *OrganizationService {
	return &OrganizationService{tx: tx}
}

func (o *OrganizationService) WithOrgRepo(r repository.OrganizationRepository) *OrganizationService {
	o.orgs = r
	return o
}

func (o *OrganizationService) CreateOrganization(ctx context.Context, org *model.Organization) (*model.Organization, *Error) {
	l := logger.FromContext(ctx)

	org.ID = uuid.NewString()
	now := time.Now().UTC()

	err := o.orgs.Create(ctx, &repository.Organization{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: now,
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		l.Warn("organization already exists", zap.String("name", org.Name))
		return nil, NewFieldError(ErrorCodeOrgExists, "name", "organization name already exists")
	}
	if err != nil {
		l.Error("failed to create organization", zap.String("name", org.Name), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create organization")
	}

	org.CreatedAt = &now
	return org, nil
}

func (o *OrganizationService) GetOrganization(ctx context.Context, id string) (*model.Organization, *Error) {
	org, err := o.orgs.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewServiceError(ErrorCodeNotFound, "organization not found")
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to get organization", zap.String("org_id", id), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get organization")
	}

	return &model.Organization{ID: org.ID, Name: org.Name, CreatedAt: &org.CreatedAt}, nil
}

func (o *OrganizationService) ListOrganizations(ctx context.Context) ([]*model.Organization, *Error) {
	repoOrgs, err := o.orgs.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list organizations", zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list organizations")
	}

	orgs := make([]*model.Organization, 0, len(repoOrgs))
	for _, org := range repoOrgs {
		createdAt := org.CreatedAt
		orgs = append(orgs, &model.Organization{ID: org.ID, Name: org.Name, CreatedAt: &createdAt})
	}
	return orgs, nil
}
