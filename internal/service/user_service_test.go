package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/auth"
	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/mocks"
	"kungfu-delivery/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "0")
	userTokens := auth.NewJWTManager("user-secret", time.Hour)
	adminTokens := auth.NewJWTManager("admin-secret", time.Hour)
	svc := service.NewUserService(f.store, auth.BcryptHasher{Cost: bcrypt.MinCost}, userTokens, adminTokens)

	user, err := svc.Register(ctx, domain.RegisterUser{Username: " bob ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.True(t, user.Balance.IsZero())

	_, err = svc.Register(ctx, domain.RegisterUser{Username: "bob", Password: "other"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	result, err := svc.Login(ctx, domain.Credentials{Username: "bob", Password: "secret1"})
	require.NoError(t, err)
	principal, err := userTokens.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)

	_, err = adminTokens.Parse(result.Token)
	assert.Error(t, err)

	_, err = svc.Login(ctx, domain.Credentials{Username: "bob", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = svc.AdminLogin(ctx, domain.Credentials{Username: "bob", Password: "secret1"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, domain.PasswordChange{OldPassword: "secret1", NewPassword: "secret2"}))
	_, err = svc.Login(ctx, domain.Credentials{Username: "bob", Password: "secret2"})
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, domain.PasswordChange{OldPassword: "secret1", NewPassword: "secret3"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestUserService_AdminLogin(t *testing.T) {
	admin := &domain.User{ID: 1, Username: "root", PasswordHash: "h", Role: domain.RoleAdmin, IsActive: true}

	tests := []struct {
		name      string
		setup     func(*mocks.UserRepository, *mocks.PasswordHasher, *mocks.TokenIssuer)
		wantKind  apperr.Kind
		wantToken string
	}{
		{
			name: "issues admin token",
			setup: func(r *mocks.UserRepository, h *mocks.PasswordHasher, tokens *mocks.TokenIssuer) {
				r.On("GetUserByUsername", mock.Anything, "root").Return(admin, nil).Once()
				h.On("Compare", "h", "pw").Return(nil).Once()
				tokens.On("Issue", domain.Principal{UserID: 1, Username: "root", Role: domain.RoleAdmin}).Return("tok", nil).Once()
			},
			wantToken: "tok",
		},
		{
			name: "unknown user",
			setup: func(r *mocks.UserRepository, h *mocks.PasswordHasher, tokens *mocks.TokenIssuer) {
				r.On("GetUserByUsername", mock.Anything, "root").Return(nil, domain.ErrNotFound).Once()
			},
			wantKind: apperr.KindUnauthorized,
		},
		{
			name: "wrong password",
			setup: func(r *mocks.UserRepository, h *mocks.PasswordHasher, tokens *mocks.TokenIssuer) {
				r.On("GetUserByUsername", mock.Anything, "root").Return(admin, nil).Once()
				h.On("Compare", "h", "pw").Return(errors.New("mismatch")).Once()
			},
			wantKind: apperr.KindUnauthorized,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewUserRepository(t)
			hasher := mocks.NewPasswordHasher(t)
			adminTokens := mocks.NewTokenIssuer(t)
			testCase.setup(repo, hasher, adminTokens)

			svc := service.NewUserService(repo, hasher, mocks.NewTokenIssuer(t), adminTokens)
			result, err := svc.AdminLogin(context.Background(), domain.Credentials{Username: "root", Password: "pw"})
			if testCase.wantKind != "" {
				assert.Equal(t, testCase.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantToken, result.Token)
		})
	}
}

func TestUserService_CustomerLoginRejectsAdmin(t *testing.T) {
	repo := mocks.NewUserRepository(t)
	hasher := mocks.NewPasswordHasher(t)
	repo.On("GetUserByUsername", mock.Anything, "root").
		Return(&domain.User{ID: 1, Username: "root", PasswordHash: "h", Role: domain.RoleAdmin, IsActive: true}, nil).Once()
	hasher.On("Compare", "h", "pw").Return(nil).Once()

	svc := service.NewUserService(repo, hasher, mocks.NewTokenIssuer(t), mocks.NewTokenIssuer(t))
	_, err := svc.Login(context.Background(), domain.Credentials{Username: "root", Password: "pw"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestUserService_ProfileAndRecharge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "1.50")
	svc := service.NewUserService(f.store, auth.BcryptHasher{Cost: bcrypt.MinCost}, nil, nil)

	tags := []string{"辣", " 甜 ", "辣"}
	user, err := svc.UpdateProfile(ctx, f.user.ID, domain.ProfileUpdate{Bio: strPtr(" 爱吃辣 "), FoodTags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "爱吃辣", user.Bio)
	assert.Equal(t, []string{"甜", "辣"}, user.FoodTags)

	balance, err := svc.Recharge(ctx, f.user.ID, money("20.005"))
	require.NoError(t, err)
	assert.True(t, money("21.51").Equal(balance), "balance %s", balance)

	tests := []struct {
		name   string
		amount string
	}{
		{name: "zero", amount: "0"},
		{name: "negative", amount: "-5"},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := svc.Recharge(ctx, f.user.ID, money(testCase.amount))
			assert.True(t, apperr.Is(err, apperr.KindValidation))
		})
	}

	_, err = svc.Profile(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
