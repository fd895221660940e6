package service

import (
	"context"
	"time"

	"github.com/johnahull/AthleteMetrics-sub012/internal/ocr"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *repository.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Get(ctx context.Context, id string) (*repository.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) List(ctx context.Context) ([]*repository.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Organization), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *repository.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Get(ctx context.Context, id string) (*repository.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByOrganization(ctx context.Context, orgID string) ([]*repository.Team, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) GetTeamMembers(ctx context.Context, teamID string) ([]*repository.Athlete, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Athlete), args.Error(1)
}

func (m *MockTeamRepository) AddMember(ctx context.Context, teamID, athleteID string) error {
	args := m.Called(ctx, teamID, athleteID)
	return args.Error(0)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID, athleteID string) error {
	args := m.Called(ctx, teamID, athleteID)
	return args.Error(0)
}

type MockAthleteRepository struct {
	mock.Mock
}

func (m *MockAthleteRepository) Get(ctx context.Context, id string) (*repository.Athlete, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) FindByName(ctx context.Context, orgID, firstName, lastName string) (*repository.Athlete, error) {
	args := m.Called(ctx, orgID, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Athlete), args.Error(1)
}

func (m *MockAthleteRepository) Upsert(ctx context.Context, athlete *repository.Athlete) error {
	args := m.Called(ctx, athlete)
	return args.Error(0)
}

func (m *MockAthleteRepository) Patch(ctx context.Context, patch *repository.AthletePatch) (*repository.Athlete, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Athlete), args.Error(1)
}

type MockMeasurementRepository struct {
	mock.Mock
}

func (m *MockMeasurementRepository) Create(ctx context.Context, meas *repository.Measurement) error {
	args := m.Called(ctx, meas)
	return args.Error(0)
}

func (m *MockMeasurementRepository) Get(ctx context.Context, id string) (*repository.Measurement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Measurement), args.Error(1)
}

func (m *MockMeasurementRepository) List(ctx context.Context, filter *repository.MeasurementFilter) ([]*repository.Measurement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Measurement), args.Error(1)
}

func (m *MockMeasurementRepository) Patch(ctx context.Context, patch *repository.MeasurementPatch) (*repository.Measurement, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Measurement), args.Error(1)
}

func (m *MockMeasurementRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, inv *repository.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationRepository) GetByToken(ctx context.Context, token string) (*repository.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) MarkRedeemed(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) ExtractText(ctx context.Context, imageData []byte) (*ocr.Result, error) {
	args := m.Called(ctx, imageData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ocr.Result), args.Error(1)
}

func (m *MockOCREngine) Close() error {
	args := m.Called()
	return args.Error(0)
}
