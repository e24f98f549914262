package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/reuniteapp/reunite-backend/internal/pkg/ctxutil"
	"github.com/reuniteapp/reunite-backend/internal/pkg/logger"
)

// Roles issued by the identity collaborator. Identity and role management
// live outside this service; we only validate tokens and read claims.
const (
	RoleInvestigator = "investigator"
	RoleReviewer     = "reviewer"
	RoleSupervisor   = "supervisor"
	RoleAdmin        = "admin"
)

type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	HasInvestigativeRole(rd *ctxutil.RequestData) bool
	HasElevatedRole(rd *ctxutil.RequestData) bool
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey string
}

func NewAuthService(log *logger.Logger, jwtSecretKey string) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{log: serviceLog, jwtSecretKey: jwtSecretKey}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return ctx, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ctx, fmt.Errorf("invalid token claims")
	}
	if exp, expErr := claims.GetExpirationTime(); expErr != nil || exp == nil || exp.Before(time.Now()) {
		return ctx, fmt.Errorf("token expired")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, fmt.Errorf("invalid subject claim")
	}
	role, _ := claims["role"].(string)

	rd := &ctxutil.RequestData{UserID: userID, Role: role}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) HasInvestigativeRole(rd *ctxutil.RequestData) bool {
	if rd == nil {
		return false
	}
	switch rd.Role {
	case RoleInvestigator, RoleReviewer, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

func (as *authService) HasElevatedRole(rd *ctxutil.RequestData) bool {
	if rd == nil {
		return false
	}
	switch rd.Role {
	case RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}
