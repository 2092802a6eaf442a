package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
)

func TestCartService_GetCartWithoutCartCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	view, err := f.cart.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, view.Cart)

	var count int64
	require.NoError(t, f.repo.DB.Model(&models.Cart{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCartService_AddItemCreatesThenMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.product(t, 10)

	cart, created, err := f.cart.AddItem(ctx, userID, p.ID.String(), 2)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart, created, err = f.cart.AddItem(ctx, userID, p.ID.String(), 3)
	require.NoError(t, err)
	assert.False(t, created)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	other := f.product(t, 1)
	cart, _, err = f.cart.AddItem(ctx, userID, other.ID.String(), 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, other.ID, cart.Items[1].ProductID)

	view, err := f.cart.GetCart(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, view.Cart)
	require.Len(t, view.Cart.Items, 2)
	assert.Equal(t, p.ID, view.Cart.Items[0].ProductID)
	assert.Equal(t, "Phone", view.Products[p.ID].Title)

	assert.Equal(t, []string{"cart_item_added", "cart_item_added", "cart_item_added"}, f.events.types())
}

func TestCartService_AddItemErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.product(t, 3)

	tests := []struct {
		name      string
		productID string
		quantity  int
		want      error
	}{
		{name: "zero quantity", productID: p.ID.String(), quantity: 0, want: apperr.ErrInvalidQuantity},
		{name: "malformed product id", productID: "abc", quantity: 1, want: apperr.ErrMalformedID},
		{name: "unknown product", productID: uuid.NewString(), quantity: 1, want: apperr.ErrProductNotFound},
		{name: "over stock", productID: p.ID.String(), quantity: 4, want: apperr.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, _, err := f.cart.AddItem(ctx, userID, tt.productID, tt.quantity)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, cart)
		})
	}

	view, err := f.cart.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, view.Cart)
}

func TestCartService_AddItemStockBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.product(t, 5)

	_, _, err := f.cart.AddItem(ctx, userID, p.ID.String(), 5)
	require.NoError(t, err)

	_, _, err = f.cart.AddItem(ctx, userID, p.ID.String(), 1)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	view, err := f.cart.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Cart.Items[0].Quantity)
}

func TestCartService_AddItemLegacyDeltaCheck(t *testing.T) {
	f := newFixture(t)
	f.cart.CheckCumulativeStock = false
	ctx := context.Background()
	userID := uuid.New()
	p := f.product(t, 5)

	_, _, err := f.cart.AddItem(ctx, userID, p.ID.String(), 4)
	require.NoError(t, err)

	cart, _, err := f.cart.AddItem(ctx, userID, p.ID.String(), 4)
	require.NoError(t, err)
	assert.Equal(t, 8, cart.Items[0].Quantity)
}

func TestCartService_UpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.product(t, 5)

	_, err := f.cart.UpdateItem(ctx, userID, uuid.NewString(), 1)
	require.ErrorIs(t, err, apperr.ErrCartNotFound)

	cart, _, err := f.cart.AddItem(ctx, userID, p.ID.String(), 1)
	require.NoError(t, err)
	itemID := cart.Items[0].ID.String()

	cart, err = f.cart.UpdateItem(ctx, userID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	_, err = f.cart.UpdateItem(ctx, userID, itemID, 6)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	_, err = f.cart.UpdateItem(ctx, userID, itemID, 0)
	require.ErrorIs(t, err, apperr.ErrInvalidQuantity)

	_, err = f.cart.UpdateItem(ctx, userID, uuid.NewString(), 1)
	require.ErrorIs(t, err, apperr.ErrItemNotFound)

	_, err = f.cart.UpdateItem(ctx, userID, "garbage", 1)
	require.ErrorIs(t, err, apperr.ErrItemNotFound)

	require.NoError(t, f.repo.DB.Delete(&models.Product{}, "id = ?", p.ID).Error)
	_, err = f.cart.UpdateItem(ctx, userID, itemID, 1)
	require.ErrorIs(t, err, apperr.ErrProductNotFound)
}

func TestCartService_RemoveLastItemKeepsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.product(t, 5)

	_, err := f.cart.RemoveItem(ctx, userID, uuid.NewString())
	require.ErrorIs(t, err, apperr.ErrCartNotFound)

	cart, _, err := f.cart.AddItem(ctx, userID, p.ID.String(), 2)
	require.NoError(t, err)

	_, err = f.cart.RemoveItem(ctx, userID, uuid.NewString())
	require.ErrorIs(t, err, apperr.ErrItemNotFound)

	cart, err = f.cart.RemoveItem(ctx, userID, cart.Items[0].ID.String())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	view, err := f.cart.GetCart(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, view.Cart)
	assert.Equal(t, cart.ID, view.Cart.ID)
	assert.Empty(t, view.Cart.Items)
}

func TestCartService_GetCartWithDeletedProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.product(t, 5)

	_, _, err := f.cart.AddItem(ctx, userID, p.ID.String(), 1)
	require.NoError(t, err)
	require.NoError(t, f.repo.DB.Delete(&models.Product{}, "id = ?", p.ID).Error)

	view, err := f.cart.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 1)
	_, ok := view.Products[p.ID]
	assert.False(t, ok)
}
