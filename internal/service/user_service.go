package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kungfu-delivery/internal/apperr"
	"kungfu-delivery/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	msgCredentialsRequired = "用户名和密码不能为空"
	msgUsernameTaken       = "用户名已存在"
	msgBadCredentials      = "用户名或密码错误"
	msgNotAdmin            = "没有权限"
	msgAccountDisabled     = "账号已被禁用"
	msgUserNotFound        = "用户不存在"
	msgPasswordsRequired   = "旧密码和新密码不能为空"
	msgOldPasswordWrong    = "旧密码错误"
	msgRechargeInvalid     = "充值金额必须为正数"
)

type UserServiceInterface interface {
	Register(ctx context.Context, in domain.RegisterUser) (*domain.User, error)
	Login(ctx context.Context, in domain.Credentials) (*domain.LoginResult, error)
	AdminLogin(ctx context.Context, in domain.Credentials) (*domain.LoginResult, error)
	Profile(ctx context.Context, userID int) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int, in domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int, in domain.PasswordChange) error
	Recharge(ctx context.Context, userID int, amount decimal.Decimal) (decimal.Decimal, error)
}

// UserService signs customer and admin sessions with separate issuers so a
// customer token is never accepted on admin routes.
type UserService struct {
	repo        UserRepository
	hasher      PasswordHasher
	userTokens  TokenIssuer
	adminTokens TokenIssuer
}

func NewUserService(repo UserRepository, hasher PasswordHasher, userTokens, adminTokens TokenIssuer) *UserService {
	return &UserService{
		repo:        repo,
		hasher:      hasher,
		userTokens:  userTokens,
		adminTokens: adminTokens,
	}
}

func (s *UserService) Register(ctx context.Context, in domain.RegisterUser) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperr.Validation(msgCredentialsRequired)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Email:        strings.TrimSpace(in.Email),
		IsActive:     true,
		Balance:      decimal.Zero,
		FoodTags:     []string{},
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.Conflict(msgUsernameTaken)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, in domain.Credentials) (*domain.LoginResult, error) {
	user, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleCustomer {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	return s.issue(s.userTokens, user)
}

// AdminLogin reports a known non-admin account with 403 rather than 401.
func (s *UserService) AdminLogin(ctx context.Context, in domain.Credentials) (*domain.LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperr.Validation(msgCredentialsRequired)
	}
	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.Role != domain.RoleAdmin {
		return nil, apperr.Forbidden(msgNotAdmin)
	}
	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	return s.issue(s.adminTokens, user)
}

func (s *UserService) authenticate(ctx context.Context, in domain.Credentials) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperr.Validation(msgCredentialsRequired)
	}
	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	if !user.IsActive {
		return nil, apperr.Forbidden(msgAccountDisabled)
	}
	return user, nil
}

func (s *UserService) issue(issuer TokenIssuer, user *domain.User) (*domain.LoginResult, error) {
	token, err := issuer.Issue(domain.Principal{UserID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.LoginResult{Token: token, User: user}, nil
}

func (s *UserService) Profile(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, in domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = trimmed(in.PhoneNumber)
	}
	if in.Email != nil {
		user.Email = trimmed(in.Email)
	}
	if in.Gender != nil {
		user.Gender = trimmed(in.Gender)
	}
	if in.BirthDate != nil {
		user.BirthDate = trimmed(in.BirthDate)
	}
	if in.Bio != nil {
		user.Bio = trimmed(in.Bio)
	}
	if in.FoodTags != nil {
		user.FoodTags = domain.NormalizeFlavors(*in.FoodTags)
	}
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID int, in domain.PasswordChange) error {
	if in.OldPassword == "" || in.NewPassword == "" {
		return apperr.Validation(msgPasswordsRequired)
	}
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, in.OldPassword); err != nil {
		return apperr.Forbidden(msgOldPasswordWrong)
	}
	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *UserService) Recharge(ctx context.Context, userID int, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, apperr.Validation(msgRechargeInvalid)
	}
	balance, err := s.repo.CreditBalance(ctx, userID, amount.Round(2))
	if errors.Is(err, domain.ErrNotFound) {
		return decimal.Zero, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("credit balance: %w", err)
	}
	return balance, nil
}

var _ UserServiceInterface = (*UserService)(nil)
