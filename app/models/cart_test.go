package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatsby() Book {
	return Book{Title: "The Great Gatsby", Genre: "Fiction", Price: decimal.NewFromFloat(10.99)}
}

func nineteenEightyFour() Book {
	return Book{Title: "1984", Genre: "Dystopia", Price: decimal.NewFromFloat(8.99)}
}

func TestAddMergesSameTitle(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(gatsby(), 1))
	require.NoError(t, cart.Add(gatsby(), 2))

	line, ok := cart.Get("The Great Gatsby")
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 3, cart.TotalItems())
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	cart := NewCart()
	assert.ErrorIs(t, cart.Add(gatsby(), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.Add(gatsby(), -2), ErrInvalidQuantity)
	assert.True(t, cart.IsEmpty())
}

func TestUpdateQuantity(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(gatsby(), 2))

	require.NoError(t, cart.UpdateQuantity("The Great Gatsby", 5))
	line, _ := cart.Get("The Great Gatsby")
	assert.Equal(t, 5, line.Quantity)

	// Zero or negative removes the line.
	require.NoError(t, cart.UpdateQuantity("The Great Gatsby", 0))
	assert.True(t, cart.IsEmpty())
}

func TestUpdateQuantityUnknownTitle(t *testing.T) {
	cart := NewCart()
	assert.ErrorIs(t, cart.UpdateQuantity("Moby Dick", 1), ErrNotInCart)
}

func TestRemoveAbsentTitleIsNoOp(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(gatsby(), 1))
	cart.Remove("Moby Dick")
	assert.Equal(t, 1, cart.TotalItems())
}

func TestTotalPriceIsExact(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(gatsby(), 2))           // 21.98
	require.NoError(t, cart.Add(nineteenEightyFour(), 1)) // 8.99

	assert.Equal(t, "30.97", cart.TotalPrice().StringFixed(2))
}

func TestListSortedByTitle(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(gatsby(), 1))
	require.NoError(t, cart.Add(nineteenEightyFour(), 1))

	items := cart.List()
	require.Len(t, items, 2)
	assert.Equal(t, "1984", items[0].Book.Title)
	assert.Equal(t, "The Great Gatsby", items[1].Book.Title)
}

func TestClear(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(gatsby(), 3))
	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "0.00", cart.TotalPrice().StringFixed(2))
}

func TestParseQuantity(t *testing.T) {
	n, err := ParseQuantity(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseQuantity("abc")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ParseQuantity("2.5")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ParseQuantity("")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
