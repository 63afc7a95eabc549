package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/models"
)

type wishlistFixture struct {
	svc       WishlistService
	users     *fakeUserRepo
	products  *fakeProductRepo
	wishlists *fakeWishlistRepo
}

func newWishlistFixture() *wishlistFixture {
	users := newFakeUserRepo()
	products := newFakeProductRepo()
	wishlists := newFakeWishlistRepo()
	return &wishlistFixture{
		svc:       NewWishlistService(users, products, wishlists),
		users:     users,
		products:  products,
		wishlists: wishlists,
	}
}

func (f *wishlistFixture) listing(seller *models.User, title string) *models.Product {
	product, _ := f.products.Create(context.Background(), &models.Product{
		Title:        title,
		Price:        100,
		SellerID:     seller.ID,
		UniversityID: seller.University,
		Status:       models.ProductAvailable,
	})
	return product
}

func TestWishlistAdd(t *testing.T) {
	f := newWishlistFixture()
	ctx := context.Background()

	seller := f.users.add(completeUser(models.UniversitySRMAP))
	buyer := f.users.add(completeUser(models.UniversitySRMAP))
	product := f.listing(seller, "Desk lamp")

	t.Run("unknown product", func(t *testing.T) {
		err := f.svc.Add(ctx, buyer.ID, primitive.NewObjectID())
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("saves the product", func(t *testing.T) {
		require.NoError(t, f.svc.Add(ctx, buyer.ID, product.ID))
		entries, err := f.wishlists.FindByUser(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("adding twice is idempotent", func(t *testing.T) {
		require.NoError(t, f.svc.Add(ctx, buyer.ID, product.ID))
		entries, err := f.wishlists.FindByUser(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestWishlistRemove(t *testing.T) {
	f := newWishlistFixture()
	ctx := context.Background()

	seller := f.users.add(completeUser(models.UniversitySRMAP))
	buyer := f.users.add(completeUser(models.UniversitySRMAP))
	product := f.listing(seller, "Desk lamp")

	require.NoError(t, f.svc.Add(ctx, buyer.ID, product.ID))

	t.Run("removes the entry", func(t *testing.T) {
		assert.NoError(t, f.svc.Remove(ctx, buyer.ID, product.ID))
	})

	t.Run("removing again is not found", func(t *testing.T) {
		err := f.svc.Remove(ctx, buyer.ID, product.ID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}

func TestWishlistList(t *testing.T) {
	f := newWishlistFixture()
	ctx := context.Background()

	seller := f.users.add(completeUser(models.UniversitySRMAP))
	buyer := f.users.add(completeUser(models.UniversitySRMAP))

	kept := f.listing(seller, "Desk lamp")
	doomed := f.listing(seller, "Wobbly chair")
	require.NoError(t, f.svc.Add(ctx, buyer.ID, kept.ID))
	require.NoError(t, f.svc.Add(ctx, buyer.ID, doomed.ID))

	t.Run("populates sellers", func(t *testing.T) {
		views, page, err := f.svc.List(ctx, buyer.ID, 1, 20)
		require.NoError(t, err)
		require.Len(t, views, 2)
		require.NotNil(t, views[0].Seller.User)
		assert.Equal(t, seller.ID, views[0].Seller.ID)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("deleted products are dropped", func(t *testing.T) {
		require.NoError(t, f.products.Delete(ctx, doomed.ID))
		views, page, err := f.svc.List(ctx, buyer.ID, 1, 20)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, kept.ID, views[0].ID)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		views, _, err := f.svc.List(ctx, buyer.ID, 5, 20)
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}
