package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/database"
)

var dbSeq int

// testDB opens a fresh in-memory sqlite database with the schema applied.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", dbSeq)
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func sampleOrder(id string, userID *uint) *models.Order {
	return &models.Order{
		ID:            id,
		UserID:        userID,
		CustomerEmail: "demo@bookstore.com",
		ShipName:      "Demo User",
		ShipAddress:   "123 Demo Street",
		ShipCity:      "Demo City",
		ShipZip:       "12345",
		Subtotal:      decimal.NewFromFloat(10.99),
		Total:         decimal.NewFromFloat(10.99),
		PaymentMethod: models.MethodCreditCard,
		Status:        models.StatusConfirmed,
		Items: []models.OrderItem{
			{Title: "The Great Gatsby", Genre: "Fiction", UnitPrice: decimal.NewFromFloat(10.99), Quantity: 1, LineTotal: decimal.NewFromFloat(10.99)},
		},
	}
}

func TestCreateAndFindOrder(t *testing.T) {
	repo := NewOrderRepository(testDB(t))

	require.NoError(t, repo.Create(sampleOrder("A1B2C3D4", nil)))

	got, err := repo.FindByID("A1B2C3D4")
	require.NoError(t, err)
	assert.Equal(t, "demo@bookstore.com", got.CustomerEmail)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "The Great Gatsby", got.Items[0].Title)
	assert.Equal(t, "10.99", got.Total.StringFixed(2))
}

func TestFindOrderMissing(t *testing.T) {
	repo := NewOrderRepository(testDB(t))

	_, err := repo.FindByID("NOPE0000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByUserOldestFirst(t *testing.T) {
	db := testDB(t)
	repo := NewOrderRepository(db)

	uid := uint(7)
	first := sampleOrder("11111111", &uid)
	second := sampleOrder("22222222", &uid)
	other := sampleOrder("33333333", nil)

	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.Create(other))

	// Force distinct timestamps regardless of insert order.
	require.NoError(t, db.Model(first).Update("created_at", time.Now().Add(-time.Hour)).Error)

	orders, err := repo.ListByUser(uid)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "11111111", orders[0].ID)
	assert.Equal(t, "22222222", orders[1].ID)
}
