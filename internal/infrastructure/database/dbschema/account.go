package dbschema

import (
	"bongo-server/internal/domain/account"
	"bongo-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(&Account{})
}

// Account represents the persisted account schema tied to an external
// identity provider subject.
type Account struct {
	BaseModel
	PublicID           string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Subject            string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Email              string `gorm:"type:varchar(320)"`
	Name               string `gorm:"type:varchar(255)"`
	Tokens             int64  `gorm:"not null;default:0"`
	TotalAPICalls      int64  `gorm:"not null;default:0"`
	SignupBonusGranted bool   `gorm:"not null;default:false"`
}

// NewSchemaAccount converts a domain account into a schema instance.
func NewSchemaAccount(a *account.Account) *Account {
	if a == nil {
		return nil
	}

	return &Account{
		BaseModel: BaseModel{
			ID:        a.ID,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		},
		PublicID:           a.PublicID,
		Subject:            a.Subject,
		Email:              a.Email,
		Name:               a.Name,
		Tokens:             a.Tokens,
		TotalAPICalls:      a.TotalAPICalls,
		SignupBonusGranted: a.SignupBonusGranted,
	}
}

// EtoD converts a schema account back to the domain representation.
func (a *Account) EtoD() *account.Account {
	if a == nil {
		return nil
	}

	return &account.Account{
		ID:                 a.ID,
		PublicID:           a.PublicID,
		Subject:            a.Subject,
		Email:              a.Email,
		Name:               a.Name,
		Tokens:             a.Tokens,
		TotalAPICalls:      a.TotalAPICalls,
		SignupBonusGranted: a.SignupBonusGranted,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
