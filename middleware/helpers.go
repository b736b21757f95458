package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimTeamID  = "team_id"
	jwtClaimStaffID = "staff_id"
	jwtClaimRole    = "role"
)

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims not found in context or invalid type")
	}
	return claims, nil
}

func intClaim(claims jwt.MapClaims, name string) (int, error) {
	raw, ok := claims[name]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", name)
	}
	value, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid type for %q claim: expected number, got %T", name, raw)
	}
	id := int(value)
	if id <= 0 {
		return 0, fmt.Errorf("invalid value in %q claim: %d", name, id)
	}
	return id, nil
}

// GetTeamIDFromContext returns the authenticated team's ID. Fails for staff
// tokens.
func GetTeamIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return intClaim(claims, jwtClaimTeamID)
}

// GetStaffIDFromContext returns the authenticated staff member's ID.
func GetStaffIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return intClaim(claims, jwtClaimStaffID)
}

func GetRoleFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	raw, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimRole)
	}
	role, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for %q claim: expected string, got %T", jwtClaimRole, raw)
	}
	switch role {
	case RoleTeam, RoleStaff, RoleAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", role)
	}
}
