package auth

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"weatherlog.app/internal/core/identity"
	"weatherlog.app/internal/mocks"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

type fixture struct {
	users  *mocks.UserRepository
	tokens *mocks.TokenRepository
	hasher *mocks.PasswordHasher
	logger *mocks.Logger
	uc     *UseCase
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		users:  mocks.NewUserRepository(t),
		tokens: mocks.NewTokenRepository(t),
		hasher: mocks.NewPasswordHasher(t),
		logger: mocks.NewLogger(),
	}

	uc, err := NewUseCase(UseCaseDependencies{
		UserRepo:  f.users,
		TokenRepo: f.tokens,
		Hasher:    f.hasher,
		Logger:    f.logger,
	})
	require.NoError(t, err)
	f.uc = uc
	return f
}

func TestNewUseCase_MissingDependencies(t *testing.T) {
	_, err := NewUseCase(UseCaseDependencies{})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestUseCase_Register_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.hasher.On("Hash", "s3cret").Return("hashed", nil)
	f.users.On("CreateWithToken", ctx, mock.MatchedBy(func(u *ports.UserData) bool {
		return u.Username == "alice" && u.Email == "a@x.io" && u.PasswordHash == "hashed"
	}), mock.AnythingOfType("*ports.TokenData")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*ports.UserData).ID = 7
			args.Get(2).(*ports.TokenData).UserID = 7
		}).
		Return(nil)

	session, err := f.uc.Register(ctx, RegisterParams{Username: "alice", Email: "a@x.io", Password: "s3cret"})

	require.NoError(t, err)
	assert.Len(t, session.Token, 32)
	assert.Equal(t, &User{ID: 7, Username: "alice", Email: "a@x.io"}, session.User)
	assert.True(t, f.logger.HasEntry("info", "User registered"))
}

func TestUseCase_Register_MissingFields(t *testing.T) {
	cases := []RegisterParams{
		{Email: "a@x.io", Password: "p"},
		{Username: "alice", Password: "p"},
		{Username: "alice", Email: "a@x.io"},
		{Username: "   ", Email: "a@x.io", Password: "p"},
		{Username: "alice", Email: "a@x.io", Password: " \t "},
	}

	for _, params := range cases {
		f := newFixture(t)
		_, err := f.uc.Register(context.Background(), params)

		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
		assert.Equal(t, "Username, email, and password are required", errors.Message(err))
	}
}

func TestUseCase_Register_Conflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.hasher.On("Hash", "p").Return("hashed", nil)
	f.users.On("CreateWithToken", ctx, mock.Anything, mock.Anything).
		Return(errors.NewAlreadyExistsError("Username already exists"))

	session, err := f.uc.Register(ctx, RegisterParams{Username: "alice", Email: "b@x.io", Password: "p"})

	assert.Nil(t, session)
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExistsError(err))
	assert.Equal(t, "Username already exists", errors.Message(err))
}

func TestUseCase_Register_HashFailure(t *testing.T) {
	f := newFixture(t)

	f.hasher.On("Hash", "p").Return("", stderrors.New("boom"))

	_, err := f.uc.Register(context.Background(), RegisterParams{Username: "a", Email: "e", Password: "p"})

	require.Error(t, err)
	assert.True(t, errors.IsInternalError(err))
}

func TestUseCase_Login_ReturnsExistingToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := &ports.UserData{ID: 3, Username: "bob", Email: "b@x.io", PasswordHash: "h"}

	f.users.On("FindByUsername", ctx, "bob").Return(user, nil)
	f.hasher.On("Compare", "h", "pw").Return(nil)
	f.tokens.On("FindByUserID", ctx, uint(3)).Return(&ports.TokenData{Key: "existing", UserID: 3}, nil)

	session, err := f.uc.Login(ctx, LoginParams{Username: "bob", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "existing", session.Token)
	assert.Equal(t, uint(3), session.User.ID)
}

func TestUseCase_Login_IssuesTokenWhenNone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := &ports.UserData{ID: 3, Username: "bob", PasswordHash: "h"}

	f.users.On("FindByUsername", ctx, "bob").Return(user, nil)
	f.hasher.On("Compare", "h", "pw").Return(nil)
	f.tokens.On("FindByUserID", ctx, uint(3)).Return(nil, errors.NewNotFoundError("token not found"))
	f.tokens.On("Create", ctx, mock.MatchedBy(func(tk *ports.TokenData) bool { return tk.UserID == 3 })).Return(nil)

	session, err := f.uc.Login(ctx, LoginParams{Username: "bob", Password: "pw"})

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestUseCase_Login_ConcurrentIssueConverges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := &ports.UserData{ID: 3, Username: "bob", PasswordHash: "h"}

	f.users.On("FindByUsername", ctx, "bob").Return(user, nil)
	f.hasher.On("Compare", "h", "pw").Return(nil)
	f.tokens.On("FindByUserID", ctx, uint(3)).Return(nil, errors.NewNotFoundError("token not found")).Once()
	f.tokens.On("Create", ctx, mock.Anything).Return(errors.NewAlreadyExistsError("token already exists"))
	f.tokens.On("FindByUserID", ctx, uint(3)).Return(&ports.TokenData{Key: "winner", UserID: 3}, nil).Once()

	session, err := f.uc.Login(ctx, LoginParams{Username: "bob", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "winner", session.Token)
}

func TestUseCase_Login_InvalidCredentials(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("FindByUsername", mock.Anything, "ghost").Return(nil, errors.NewNotFoundError("user not found"))
		f.hasher.On("Hash", dummyPassword).Return("dummy-hash", nil).Once()
		f.hasher.On("Compare", "dummy-hash", "pw").Return(stderrors.New("mismatch")).Twice()

		for i := 0; i < 2; i++ {
			_, err := f.uc.Login(context.Background(), LoginParams{Username: "ghost", Password: "pw"})

			require.Error(t, err)
			assert.True(t, errors.IsUnauthorizedError(err))
			assert.Equal(t, "Invalid credentials", errors.Message(err))
		}
		f.hasher.AssertNumberOfCalls(t, "Hash", 1)
		f.hasher.AssertNumberOfCalls(t, "Compare", 2)
	})

	t.Run("unknown user when dummy hash fails", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("FindByUsername", mock.Anything, "ghost").Return(nil, errors.NewNotFoundError("user not found"))
		f.hasher.On("Hash", dummyPassword).Return("", stderrors.New("boom")).Once()

		_, err := f.uc.Login(context.Background(), LoginParams{Username: "ghost", Password: "pw"})

		assert.True(t, errors.IsUnauthorizedError(err))
		assert.True(t, f.logger.HasEntry("warn", "Failed to prepare dummy password hash"))
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("FindByUsername", mock.Anything, "bob").Return(&ports.UserData{ID: 1, PasswordHash: "h"}, nil)
		f.hasher.On("Compare", "h", "nope").Return(stderrors.New("mismatch"))

		_, err := f.uc.Login(context.Background(), LoginParams{Username: "bob", Password: "nope"})

		require.Error(t, err)
		assert.True(t, errors.IsUnauthorizedError(err))
		assert.Equal(t, "Invalid credentials", errors.Message(err))
	})
}

func TestUseCase_Login_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Login(context.Background(), LoginParams{Username: "bob"})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, "Username and password are required", errors.Message(err))
}

func TestUseCase_Logout(t *testing.T) {
	caller := identity.Caller{UserID: 5, Username: "eve", Token: "k"}

	t.Run("deletes token", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.On("DeleteByUserID", mock.Anything, uint(5)).Return(nil)

		assert.NoError(t, f.uc.Logout(context.Background(), caller))
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.On("DeleteByUserID", mock.Anything, uint(5)).Return(errors.NewDatabaseError("failed to delete token", stderrors.New("db down")))

		err := f.uc.Logout(context.Background(), caller)

		require.Error(t, err)
		assert.True(t, errors.IsInternalError(err))
		assert.True(t, f.logger.HasEntry("error", "Failed to delete token"))
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.Logout(context.Background(), identity.Anonymous())

		assert.True(t, errors.IsUnauthorizedError(err))
	})
}

func TestUseCase_CurrentUser(t *testing.T) {
	f := newFixture(t)

	user, err := f.uc.CurrentUser(context.Background(), identity.Caller{UserID: 9, Username: "zed", Email: "z@x.io"})

	require.NoError(t, err)
	assert.Equal(t, &User{ID: 9, Username: "zed", Email: "z@x.io"}, user)

	_, err = f.uc.CurrentUser(context.Background(), identity.Anonymous())
	assert.True(t, errors.IsUnauthorizedError(err))
}

func TestUseCase_Authenticate(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.On("FindByKey", mock.Anything, "abc").Return(&ports.TokenData{Key: "abc", UserID: 4}, nil)
		f.users.On("FindByID", mock.Anything, uint(4)).Return(&ports.UserData{ID: 4, Username: "dan", Email: "d@x.io"}, nil)

		caller, err := f.uc.Authenticate(context.Background(), "abc")

		require.NoError(t, err)
		assert.Equal(t, identity.Caller{UserID: 4, Username: "dan", Email: "d@x.io", Token: "abc"}, caller)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.On("FindByKey", mock.Anything, "nope").Return(nil, errors.NewNotFoundError("token not found"))

		caller, err := f.uc.Authenticate(context.Background(), "nope")

		assert.False(t, caller.IsAuthenticated())
		assert.True(t, errors.IsUnauthorizedError(err))
		assert.Equal(t, "Invalid token.", errors.Message(err))
	})

	t.Run("empty token", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Authenticate(context.Background(), " ")

		assert.True(t, errors.IsUnauthorizedError(err))
	})

	t.Run("store failure is not an auth failure", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.On("FindByKey", mock.Anything, "abc").Return(nil, errors.NewDatabaseError("failed to find token", stderrors.New("db down")))

		_, err := f.uc.Authenticate(context.Background(), "abc")

		require.Error(t, err)
		assert.True(t, errors.IsDatabaseError(err))
	})
}

func TestNewToken(t *testing.T) {
	a := NewToken(1)
	b := NewToken(1)

	assert.Len(t, a.Key, 32)
	assert.NotEqual(t, a.Key, b.Key)
	assert.NotContains(t, a.Key, "-")
	assert.Equal(t, uint(1), a.UserID)
}
