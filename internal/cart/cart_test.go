package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func tee(size string) Item {
	return Item{
		ProductID: "p-tee",
		Size:      size,
		Price:     decimal.NewFromInt(45),
		Name:      "OVERSIZED TEE — BLACK",
		Slug:      "oversized-tee-black",
	}
}

func beanie() Item {
	return Item{
		ProductID: "p-beanie",
		Size:      "TU",
		Price:     decimal.NewFromInt(35),
		Name:      "SWIRL BEANIE — TEAL",
	}
}

func TestAddMergesSameKey(t *testing.T) {
	c := Cart{}.Add(tee("M"), 1).Add(tee("M"), 2)
	require.Len(t, c.Items, 1)
	require.Equal(t, 3, c.Items[0].Quantity)

	c = c.Add(tee("L"), 1)
	require.Len(t, c.Items, 2)
	require.Equal(t, 4, c.ItemCount())
}

func TestAddDefaultsToOne(t *testing.T) {
	c := Cart{}.Add(beanie(), 0)
	require.Equal(t, 1, c.Items[0].Quantity)
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	base := Cart{}.Add(tee("M"), 1)
	_ = base.Add(tee("M"), 5)
	_ = base.UpdateQuantity(tee("M").Key(), 9)
	_ = base.Remove(tee("M").Key())
	require.Equal(t, 1, base.Items[0].Quantity)
	require.Len(t, base.Items, 1)
}

func TestUpdateQuantity(t *testing.T) {
	c := New(tee("M"), beanie())

	c = c.UpdateQuantity(tee("M").Key(), 4)
	require.Equal(t, 4, c.Items[0].Quantity)

	c = c.UpdateQuantity(Key{ProductID: "missing", Size: "M"}, 2)
	require.Len(t, c.Items, 2)

	c = c.UpdateQuantity(beanie().Key(), 0)
	require.Len(t, c.Items, 1)
	require.Equal(t, "p-tee", c.Items[0].ProductID)
}

func TestSubtotalAndClear(t *testing.T) {
	c := Cart{}.Add(tee("M"), 2).Add(beanie(), 1)
	require.True(t, decimal.NewFromInt(125).Equal(c.Subtotal()))
	require.Equal(t, 3, c.ItemCount())

	c = c.Clear()
	require.True(t, c.IsEmpty())
	require.True(t, decimal.Zero.Equal(c.Subtotal()))
	require.Zero(t, c.ItemCount())
}
