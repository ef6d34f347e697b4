package seeders

import (
	"gorm.io/gorm"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/auth"
)

func init() {
	Register("demo-user", SeedDemoUser)
}

// SeedDemoUser creates the demo account used in walkthroughs. Idempotent:
// an existing account with the email is left untouched.
func SeedDemoUser(db *gorm.DB) error {
	hash, err := auth.HashPassword("demo123")
	if err != nil {
		return err
	}
	user := models.User{
		Email:        "demo@bookstore.com",
		PasswordHash: hash,
		Name:         "Demo User",
		Address:      "123 Demo Street, Demo City, DC 12345",
	}
	return db.Where(models.User{Email: user.Email}).FirstOrCreate(&user).Error
}
