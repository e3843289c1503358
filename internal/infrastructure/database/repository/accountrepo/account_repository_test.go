package accountrepo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"bongo-server/internal/domain/account"
)

func newMockRepo(t *testing.T) (*GormAccountRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{TablePrefix: "bongo."},
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewGormAccountRepository(db), mock
}

func accountRows(tokens, calls int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at",
		"public_id", "subject", "email", "name",
		"tokens", "total_api_calls", "signup_bonus_granted",
	}).AddRow(1, now, now, "acct_x", "sub-1", "a@b.c", "A", tokens, calls, true)
}

func TestFindBySubject(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "bongo"\."accounts" WHERE subject = .+`).
		WillReturnRows(accountRows(7, 3))

	acc, err := repo.FindBySubject(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", acc.Subject)
	assert.Equal(t, int64(7), acc.Tokens)
	assert.Equal(t, int64(3), acc.TotalAPICalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBySubjectNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "bongo"\."accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindBySubject(context.Background(), "sub-1")
	assert.ErrorIs(t, err, account.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitTokensConditionalUpdate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bongo"\."accounts" SET .+ WHERE subject = .+ AND tokens >= .+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "bongo"\."accounts"`).
		WillReturnRows(accountRows(5, 4))

	acc, err := repo.DebitTokens(context.Background(), "sub-1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), acc.Tokens)
	assert.Equal(t, int64(4), acc.TotalAPICalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitTokensInsufficientBalance(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bongo"\."accounts" SET .+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	// The account exists; zero rows means the balance guard rejected it.
	mock.ExpectQuery(`SELECT \* FROM "bongo"\."accounts"`).
		WillReturnRows(accountRows(1, 4))

	_, err := repo.DebitTokens(context.Background(), "sub-1", 2)
	assert.ErrorIs(t, err, account.ErrInsufficientTokens)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitTokensUnknownAccount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bongo"\."accounts" SET .+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "bongo"\."accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.DebitTokens(context.Background(), "ghost", 2)
	assert.ErrorIs(t, err, account.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditTokens(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bongo"\."accounts" SET .+ WHERE subject = .+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "bongo"\."accounts"`).
		WillReturnRows(accountRows(10, 4))

	acc, err := repo.CreditTokens(context.Background(), "sub-1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(10), acc.Tokens)
	assert.NoError(t, mock.ExpectationsWereMet())
}
