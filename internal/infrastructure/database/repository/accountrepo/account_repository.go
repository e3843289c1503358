package accountrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bongo-server/internal/domain/account"
	"bongo-server/internal/infrastructure/database/dbschema"
)

// GormAccountRepository implements account.Repository on gorm/postgres.
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a repository over an open connection.
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) FindBySubject(ctx context.Context, subject string) (*account.Account, error) {
	var row dbschema.Account
	err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrNotFound
		}
		return nil, err
	}
	return row.EtoD(), nil
}

func (r *GormAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	row := dbschema.NewSchemaAccount(acc)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*acc = *row.EtoD()
	return nil
}

// DebitTokens performs the balance check and decrement in a single
// conditional UPDATE so concurrent requests cannot overdraw.
func (r *GormAccountRepository) DebitTokens(ctx context.Context, subject string, amount int64) (*account.Account, error) {
	res := r.db.WithContext(ctx).Model(&dbschema.Account{}).
		Where("subject = ? AND tokens >= ?", subject, amount).
		Updates(map[string]interface{}{
			"tokens":          gorm.Expr("tokens - ?", amount),
			"total_api_calls": gorm.Expr("total_api_calls + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing account from a short balance.
		if _, err := r.FindBySubject(ctx, subject); err != nil {
			return nil, err
		}
		return nil, account.ErrInsufficientTokens
	}
	return r.FindBySubject(ctx, subject)
}

func (r *GormAccountRepository) CreditTokens(ctx context.Context, subject string, amount int64) (*account.Account, error) {
	res := r.db.WithContext(ctx).Model(&dbschema.Account{}).
		Where("subject = ?", subject).
		Update("tokens", gorm.Expr("tokens + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, account.ErrNotFound
	}
	return r.FindBySubject(ctx, subject)
}
