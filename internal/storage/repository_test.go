package storage

import (
	"context"
	"testing"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
	user *core.User
}

func (s *RepositoryTestSuite) SetupTest() {
	repo, err := NewRepository(":memory:")
	require.NoError(s.T(), err, "failed to create test database")
	s.repo = repo
	s.ctx = context.Background()

	hash, err := auth.HashPassword("testpass")
	require.NoError(s.T(), err)

	user, err := s.repo.CreateUser(s.ctx, "tester", "tester@example.com", hash)
	require.NoError(s.T(), err)
	s.user = user
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	_, err := s.repo.CreateUser(s.ctx, "other", "tester@example.com", "hash")
	assert.ErrorIs(s.T(), err, ErrEmailTaken)

	// No partial write: still exactly one user with that email.
	u, err := s.repo.GetUserByEmail(s.ctx, "tester@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "tester", u.Username)
}

func (s *RepositoryTestSuite) TestGetUserByEmailNotFound() {
	_, err := s.repo.GetUserByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, ErrUserNotFound)
}

func (s *RepositoryTestSuite) TestCreateAndListExpenses() {
	expenses := []core.Expense{
		{Date: "2024-01-05", Category: "Food", Amount: 10, Description: "lunch", UserID: s.user.ID},
		{Date: "2024-01-20", Category: "Food", Amount: 5, UserID: s.user.ID},
		{Date: "2024-02-01", Category: "Travel", Amount: 100, Description: "train", UserID: s.user.ID},
	}
	for _, e := range expenses {
		_, err := s.repo.CreateExpense(s.ctx, e)
		require.NoError(s.T(), err)
	}

	got, err := s.repo.ListExpenses(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 3)

	// Newest date first.
	assert.Equal(s.T(), "2024-02-01", got[0].Date)
	assert.Equal(s.T(), "Travel", got[0].Category)
	assert.Equal(s.T(), "2024-01-20", got[1].Date)
	assert.Equal(s.T(), "2024-01-05", got[2].Date)
	assert.Equal(s.T(), "lunch", got[2].Description)
}

func (s *RepositoryTestSuite) TestListExpensesScopedToUser() {
	other, err := s.repo.CreateUser(s.ctx, "other", "other@example.com", "hash")
	require.NoError(s.T(), err)

	_, err = s.repo.CreateExpense(s.ctx, core.Expense{Date: "2024-01-05", Category: "Food", Amount: 10, UserID: s.user.ID})
	require.NoError(s.T(), err)
	_, err = s.repo.CreateExpense(s.ctx, core.Expense{Date: "2024-01-06", Category: "Food", Amount: 20, UserID: other.ID})
	require.NoError(s.T(), err)

	mine, err := s.repo.ListExpenses(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), mine, 1)
	assert.Equal(s.T(), s.user.ID, mine[0].UserID)
}

func (s *RepositoryTestSuite) TestDeleteExpenseNotOwnedIsNoop() {
	other, err := s.repo.CreateUser(s.ctx, "other", "other@example.com", "hash")
	require.NoError(s.T(), err)

	id, err := s.repo.CreateExpense(s.ctx, core.Expense{Date: "2024-01-05", Category: "Food", Amount: 10, UserID: s.user.ID})
	require.NoError(s.T(), err)

	// Another user deleting it: no error, no change.
	require.NoError(s.T(), s.repo.DeleteExpense(s.ctx, id, other.ID))
	e, err := s.repo.GetExpense(s.ctx, id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.user.ID, e.UserID)

	// Missing id: also a no-op.
	require.NoError(s.T(), s.repo.DeleteExpense(s.ctx, 9999, s.user.ID))

	// The owner can delete it.
	require.NoError(s.T(), s.repo.DeleteExpense(s.ctx, id, s.user.ID))
	_, err = s.repo.GetExpense(s.ctx, id)
	assert.ErrorIs(s.T(), err, ErrExpenseNotFound)
}

func (s *RepositoryTestSuite) TestNegativeAndZeroAmountsAccepted() {
	for _, amt := range []float64{-5.5, 0} {
		_, err := s.repo.CreateExpense(s.ctx, core.Expense{Date: "2024-01-05", Category: "Misc", Amount: amt, UserID: s.user.ID})
		require.NoError(s.T(), err)
	}

	got, err := s.repo.ListExpenses(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), got, 2)
}

func (s *RepositoryTestSuite) TestSessionLifecycle() {
	token, err := auth.GenerateSessionToken()
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.repo.CreateSession(s.ctx, token, s.user.ID, time.Now().Add(time.Hour)))

	u, err := s.repo.ValidateSession(s.ctx, token)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.user.Email, u.Email)

	require.NoError(s.T(), s.repo.DeleteSession(s.ctx, token))
	_, err = s.repo.ValidateSession(s.ctx, token)
	assert.ErrorIs(s.T(), err, ErrSessionNotFound)
}

func (s *RepositoryTestSuite) TestExpiredSessionRejected() {
	token, err := auth.GenerateSessionToken()
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.repo.CreateSession(s.ctx, token, s.user.ID, time.Now().Add(-time.Minute)))
	_, err = s.repo.ValidateSession(s.ctx, token)
	assert.ErrorIs(s.T(), err, ErrSessionNotFound)

	require.NoError(s.T(), s.repo.CleanExpiredSessions(s.ctx))
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
