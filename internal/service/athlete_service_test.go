package service

import (
	"context"
	"testing"

	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAthleteService_UpsertAthlete(t *testing.T) {
	tests := []struct {
		name          string
		athlete       *model.Athlete
		setupMocks    func(*MockOrganizationRepository, *MockAthleteRepository)
		expectedError bool
		errorCode     ErrorCode
		errorField    string
	}{
		{
			name:    "new athlete gets an id, defaults, and active status",
			athlete: &model.Athlete{FirstName: "Mia", LastName: "Martinez", OrganizationID: "org-1"},
			setupMocks: func(or *MockOrganizationRepository, ar *MockAthleteRepository) {
				or.On("Get", mock.Anything, "org-1").Return(&repository.Organization{ID: "org-1"}, nil)
				ar.On("Upsert", mock.Anything, mock.MatchedBy(func(a *repository.Athlete) bool {
					return a.ID != "" &&
						a.IsActive &&
						a.CompetitiveLevel == model.CompetitiveLevelDefault
				})).Return(nil)
			},
		},
		{
			name:    "existing id is kept",
			athlete: &model.Athlete{ID: "ath-1", FirstName: "Mia", LastName: "Martinez", OrganizationID: "org-1", CompetitiveLevel: 2},
			setupMocks: func(or *MockOrganizationRepository, ar *MockAthleteRepository) {
				or.On("Get", mock.Anything, "org-1").Return(&repository.Organization{ID: "org-1"}, nil)
				ar.On("Upsert", mock.Anything, mock.MatchedBy(func(a *repository.Athlete) bool {
					return a.ID == "ath-1" && a.CompetitiveLevel == 2
				})).Return(nil)
			},
		},
		{
			name:          "competitive level out of range",
			athlete:       &model.Athlete{FirstName: "Mia", LastName: "Martinez", OrganizationID: "org-1", CompetitiveLevel: 6},
			setupMocks:    func(or *MockOrganizationRepository, ar *MockAthleteRepository) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidBody,
			errorField:    "competitive_level",
		},
		{
			name:    "unknown organization",
			athlete: &model.Athlete{FirstName: "Mia", LastName: "Martinez", OrganizationID: "org-404"},
			setupMocks: func(or *MockOrganizationRepository, ar *MockAthleteRepository) {
				or.On("Get", mock.Anything, "org-404").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrgRepo := new(MockOrganizationRepository)
			mockAthleteRepo := new(MockAthleteRepository)

			tt.setupMocks(mockOrgRepo, mockAthleteRepo)

			service := NewAthleteService(new(MockTransactor)).
				WithAthleteRepo(mockAthleteRepo).
				WithOrgRepo(mockOrgRepo)

			got, err := service.UpsertAthlete(context.Background(), tt.athlete)

			if tt.expectedError {
				assert.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Equal(t, tt.errorField, err.Field)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.NotEmpty(t, got.ID)
			}

			mockOrgRepo.AssertExpectations(t)
			mockAthleteRepo.AssertExpectations(t)
		})
	}
}

func TestAthleteService_PatchAthlete_LevelValidated(t *testing.T) {
	mockAthleteRepo := new(MockAthleteRepository)

	service := NewAthleteService(new(MockTransactor)).WithAthleteRepo(mockAthleteRepo)

	bad := 0
	got, err := service.PatchAthlete(context.Background(), &model.AthletePatch{ID: "ath-1", CompetitiveLevel: &bad})

	assert.Nil(t, got)
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeInvalidBody, err.Code)
	assert.Equal(t, "competitive_level", err.Field)
	mockAthleteRepo.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything)
}

func TestAthleteService_PatchAthlete_EmptyPatchRejected(t *testing.T) {
	mockAthleteRepo := new(MockAthleteRepository)

	service := NewAthleteService(new(MockTransactor)).WithAthleteRepo(mockAthleteRepo)

	got, err := service.PatchAthlete(context.Background(), &model.AthletePatch{ID: "ath-1"})

	assert.Nil(t, got)
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeInvalidBody, err.Code)
	mockAthleteRepo.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything)
}

func TestAthleteService_SetAthleteIsActive(t *testing.T) {
	mockAthleteRepo := new(MockAthleteRepository)
	mockAthleteRepo.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.AthletePatch) bool {
		return p.ID == "ath-1" && p.IsActive != nil && !*p.IsActive
	})).Return(&repository.Athlete{ID: "ath-1", IsActive: false}, nil)

	service := NewAthleteService(new(MockTransactor)).WithAthleteRepo(mockAthleteRepo)

	got, err := service.SetAthleteIsActive(context.Background(), "ath-1", false)
	require.Nil(t, err)
	assert.False(t, got.IsActive)
	mockAthleteRepo.AssertExpectations(t)
}
