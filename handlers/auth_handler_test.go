package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	staff *models.Staff
	team  *models.Team
	err   error
}

func (s *stubAuthService) LoginStaff(context.Context, string, string) (*models.Staff, error) {
	return s.staff, s.err
}

func (s *stubAuthService) LoginTeam(context.Context, string) (*models.Team, error) {
	return s.team, s.err
}

func parseIssuedToken(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return testJWTSecret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return claims
}

func TestLoginStaffHandler_IssuesToken(t *testing.T) {
	stub := &stubAuthService{
		staff: &models.Staff{ID: 3, Name: "alice", Role: models.RoleAdmin},
	}
	handler := NewAuthHandler(stub, string(testJWTSecret))

	req := httptest.NewRequest(http.MethodPost, "/auth/staff", bytes.NewBufferString(`{"name": "alice", "password": "s3cret"}`))
	rec := httptest.NewRecorder()
	handler.LoginStaff(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	tokenString, ok := body["token"].(string)
	require.True(t, ok)
	claims := parseIssuedToken(t, tokenString)
	assert.Equal(t, float64(3), claims["staff_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "alice", claims["name"])

	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestLoginStaffHandler_MissingCredentials(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, string(testJWTSecret))

	req := httptest.NewRequest(http.MethodPost, "/auth/staff", bytes.NewBufferString(`{"name": "alice"}`))
	rec := httptest.NewRecorder()
	handler.LoginStaff(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginStaffHandler_InvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{err: services.ErrInvalidCredentials}, string(testJWTSecret))

	req := httptest.NewRequest(http.MethodPost, "/auth/staff", bytes.NewBufferString(`{"name": "alice", "password": "wrong"}`))
	rec := httptest.NewRecorder()
	handler.LoginStaff(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginTeamHandler_IssuesToken(t *testing.T) {
	stub := &stubAuthService{
		team: &models.Team{ID: 7, Name: "赤組", TeamCode: "RED-1"},
	}
	handler := NewAuthHandler(stub, string(testJWTSecret))

	req := httptest.NewRequest(http.MethodPost, "/auth/team", bytes.NewBufferString(`{"team_code": "RED-1"}`))
	rec := httptest.NewRecorder()
	handler.LoginTeam(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	tokenString, ok := body["token"].(string)
	require.True(t, ok)
	claims := parseIssuedToken(t, tokenString)
	assert.Equal(t, float64(7), claims["team_id"])
	assert.Equal(t, "team", claims["role"])
}

func TestLoginTeamHandler_UnknownCode(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{err: services.ErrInvalidTeamCode}, string(testJWTSecret))

	req := httptest.NewRequest(http.MethodPost, "/auth/team", bytes.NewBufferString(`{"team_code": "NOPE"}`))
	rec := httptest.NewRecorder()
	handler.LoginTeam(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
