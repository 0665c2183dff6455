package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"weatherlog.app/internal/core/identity"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
	"weatherlog.app/pkg/validation"
)

const (
	msgRegisterFieldsRequired = "Username, email, and password are required"
	msgLoginFieldsRequired    = "Username and password are required"
	msgInvalidCredentials     = "Invalid credentials"
	msgInvalidToken           = "Invalid token."
	msgNotAuthenticated       = "Authentication credentials were not provided."

	// hashed once and compared against for unknown usernames
	dummyPassword = "weatherlog-unknown-user"
)

type UseCase struct {
	userRepo  ports.UserRepository
	tokenRepo ports.TokenRepository
	hasher    ports.PasswordHasher
	logger    ports.Logger

	dummyOnce sync.Once
	dummyHash string
}

type UseCaseDependencies struct {
	UserRepo  ports.UserRepository
	TokenRepo ports.TokenRepository
	Hasher    ports.PasswordHasher
	Logger    ports.Logger
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

type LoginParams struct {
	Username string
	Password string
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.UserRepo == nil {
		return nil, errors.NewValidationError("user repository is required")
	}
	if deps.TokenRepo == nil {
		return nil, errors.NewValidationError("token repository is required")
	}
	if deps.Hasher == nil {
		return nil, errors.NewValidationError("password hasher is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	return &UseCase{
		userRepo:  deps.UserRepo,
		tokenRepo: deps.TokenRepo,
		hasher:    deps.Hasher,
		logger:    deps.Logger,
	}, nil
}

// Register creates an account and its first token in one step.
func (uc *UseCase) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	if !validation.AllNotEmpty(params.Username, params.Email, params.Password) {
		return nil, errors.NewValidationError(msgRegisterFieldsRequired)
	}

	hash, err := uc.hasher.Hash(params.Password)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &ports.UserData{
		Username:     strings.TrimSpace(params.Username),
		Email:        strings.TrimSpace(params.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	token := NewToken(0)

	if err := uc.userRepo.CreateWithToken(ctx, user, uc.convertToPortsToken(token)); err != nil {
		if errors.IsAlreadyExistsError(err) {
			uc.logger.Debug("Registration rejected", ports.F("username", user.Username), ports.F("error", err))
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	uc.logger.Info("User registered", ports.F("userID", user.ID), ports.F("username", user.Username))
	return &Session{Token: token.Key, User: uc.convertFromPortsUser(user)}, nil
}

// Login verifies credentials and returns the user's current token,
// issuing one if the user has none.
func (uc *UseCase) Login(ctx context.Context, params LoginParams) (*Session, error) {
	if !validation.AllNotEmpty(params.Username, params.Password) {
		return nil, errors.NewValidationError(msgLoginFieldsRequired)
	}

	user, err := uc.userRepo.FindByUsername(ctx, strings.TrimSpace(params.Username))
	if err != nil {
		if errors.IsNotFoundError(err) {
			uc.compareDummy(params.Password)
			return nil, errors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := uc.hasher.Compare(user.PasswordHash, params.Password); err != nil {
		uc.logger.Debug("Password mismatch", ports.F("username", user.Username))
		return nil, errors.NewUnauthorizedError(msgInvalidCredentials)
	}

	token, err := uc.getOrCreateToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("User logged in", ports.F("userID", user.ID))
	return &Session{Token: token.Key, User: uc.convertFromPortsUser(user)}, nil
}

// Logout deletes the caller's token. The account itself is kept.
func (uc *UseCase) Logout(ctx context.Context, caller identity.Caller) error {
	if !caller.IsAuthenticated() {
		return errors.NewUnauthorizedError(msgNotAuthenticated)
	}

	if err := uc.tokenRepo.DeleteByUserID(ctx, caller.UserID); err != nil {
		uc.logger.Error("Failed to delete token", ports.F("userID", caller.UserID), ports.F("error", err))
		return errors.NewInternalError("Failed to log out", err)
	}

	uc.logger.Debug("User logged out", ports.F("userID", caller.UserID))
	return nil
}

// CurrentUser returns the caller's public profile.
func (uc *UseCase) CurrentUser(ctx context.Context, caller identity.Caller) (*User, error) {
	if !caller.IsAuthenticated() {
		return nil, errors.NewUnauthorizedError(msgNotAuthenticated)
	}
	return UserFromCaller(caller), nil
}

// Authenticate resolves a bearer token into the caller it belongs to.
func (uc *UseCase) Authenticate(ctx context.Context, key string) (identity.Caller, error) {
	if !validation.IsNotEmpty(key) {
		return identity.Anonymous(), errors.NewUnauthorizedError(msgInvalidToken)
	}

	token, err := uc.tokenRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return identity.Anonymous(), errors.NewUnauthorizedError(msgInvalidToken)
		}
		return identity.Anonymous(), fmt.Errorf("find token: %w", err)
	}

	user, err := uc.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return identity.Anonymous(), errors.NewUnauthorizedError(msgInvalidToken)
		}
		return identity.Anonymous(), fmt.Errorf("find token owner: %w", err)
	}

	return identity.Caller{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token.Key,
	}, nil
}

// compareDummy spends the same hashing work as a real password check so an
// unknown username takes as long to reject as a wrong password.
func (uc *UseCase) compareDummy(password string) {
	uc.dummyOnce.Do(func() {
		hash, err := uc.hasher.Hash(dummyPassword)
		if err != nil {
			uc.logger.Warn("Failed to prepare dummy password hash", ports.F("error", err))
			return
		}
		uc.dummyHash = hash
	})
	if uc.dummyHash == "" {
		return
	}
	_ = uc.hasher.Compare(uc.dummyHash, password)
}

func (uc *UseCase) getOrCreateToken(ctx context.Context, userID uint) (*ports.TokenData, error) {
	existing, err := uc.tokenRepo.FindByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.IsNotFoundError(err) {
		return nil, fmt.Errorf("find token: %w", err)
	}

	token := uc.convertToPortsToken(NewToken(userID))
	if err := uc.tokenRepo.Create(ctx, token); err != nil {
		// a concurrent login for the same user won the insert
		if errors.IsAlreadyExistsError(err) {
			existing, findErr := uc.tokenRepo.FindByUserID(ctx, userID)
			if findErr != nil {
				return nil, fmt.Errorf("find token after conflict: %w", findErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create token: %w", err)
	}

	return token, nil
}

func (uc *UseCase) convertToPortsToken(token *Token) *ports.TokenData {
	return &ports.TokenData{
		Key:       token.Key,
		UserID:    token.UserID,
		CreatedAt: token.CreatedAt,
	}
}

func (uc *UseCase) convertFromPortsUser(data *ports.UserData) *User {
	return &User{
		ID:       data.ID,
		Username: data.Username,
		Email:    data.Email,
	}
}
