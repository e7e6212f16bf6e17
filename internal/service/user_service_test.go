package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"MedMonitor/internal/model"
)

// MockUserRepo реализует repo.UserRepository для изоляции сервиса.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	repoMock := new(MockUserRepo)
	svc := NewUserService(repoMock)

	repoMock.On("GetUserByEmail", ctx, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	repoMock.On("CreateUser", ctx, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*model.User)
			u.ID = 1
		}).
		Return(&model.User{ID: 1, Email: "new@example.com", Role: "patient", IsActive: true}, nil)

	u, err := svc.Register(ctx, "new@example.com", "password", "Kate", "K")
	require.NoError(t, err)
	assert.EqualValues(t, 1, u.ID)
	assert.Equal(t, "patient", u.Role)

	// пароль в хранилище — bcrypt-хеш, не исходная строка
	created := repoMock.Calls[1].Arguments.Get(1).(*model.User)
	assert.NotEqual(t, "password", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password")))

	repoMock.AssertExpectations(t)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repoMock := new(MockUserRepo)
	svc := NewUserService(repoMock)

	repoMock.On("GetUserByEmail", ctx, "taken@example.com").
		Return(&model.User{ID: 5, Email: "taken@example.com"}, nil)

	_, err := svc.Register(ctx, "taken@example.com", "password", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
	repoMock.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: 3, Email: "kate@example.com", PasswordHash: string(hash), IsActive: true}

	t.Run("ok", func(t *testing.T) {
		repoMock := new(MockUserRepo)
		svc := NewUserService(repoMock)
		repoMock.On("GetUserByEmail", ctx, "kate@example.com").Return(stored, nil)
		repoMock.On("TouchLastLogin", ctx, int64(3), mock.AnythingOfType("time.Time")).Return(nil)

		u, err := svc.Login(ctx, "kate@example.com", "correct")
		require.NoError(t, err)
		assert.EqualValues(t, 3, u.ID)
		repoMock.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repoMock := new(MockUserRepo)
		svc := NewUserService(repoMock)
		repoMock.On("GetUserByEmail", ctx, "kate@example.com").Return(stored, nil)

		_, err := svc.Login(ctx, "kate@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repoMock := new(MockUserRepo)
		svc := NewUserService(repoMock)
		repoMock.On("GetUserByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated", func(t *testing.T) {
		repoMock := new(MockUserRepo)
		svc := NewUserService(repoMock)
		inactive := *stored
		inactive.IsActive = false
		repoMock.On("GetUserByEmail", ctx, "kate@example.com").Return(&inactive, nil)

		_, err := svc.Login(ctx, "kate@example.com", "correct")
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}
