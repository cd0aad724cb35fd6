package facade

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesapp/client/internal/domain/shared"
)

func TestFacade_TypedRecordWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("add product folds the server copy into the view", func(t *testing.T) {
		remote := newStubRemote()
		monitor := &stubMonitor{online: true}
		f, store, _ := newTestFacade(remote, monitor)

		doc := json.RawMessage(`{"_id":"p9","name":"Widget","sku":"W-9","basePrice":"4.50","isActive":true}`)
		product, err := f.AddProduct(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, "p9", product.ID)
		assert.Equal(t, "Widget", product.Name)

		cached, err := f.ProductByID("p9")
		require.NoError(t, err)
		assert.Equal(t, "W-9", cached.SKU)

		payload, err := store.LoadSnapshot(ctx, "products")
		require.NoError(t, err)
		assert.Contains(t, string(payload), `"p9"`, "the view is re-persisted")
	})

	t.Run("update customer returns the decoded server copy", func(t *testing.T) {
		remote := newStubRemote()
		monitor := &stubMonitor{online: true}
		f, _, _ := newTestFacade(remote, monitor)

		doc := json.RawMessage(`{"_id":"c1","name":"Acme Corp","phone":"0200","isActive":true}`)
		customer, err := f.UpdateCustomer(ctx, "c1", doc)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", customer.Name)

		cached, err := f.CustomerByID("c1")
		require.NoError(t, err)
		assert.Equal(t, "0200", cached.Phone)
	})

	t.Run("delete product drops it from the view", func(t *testing.T) {
		remote := newStubRemote()
		monitor := &stubMonitor{online: true}
		f, _, _ := newTestFacade(remote, monitor)

		_, err := f.AddProduct(ctx, json.RawMessage(`{"_id":"p1","name":"Widget","isActive":true}`))
		require.NoError(t, err)

		require.NoError(t, f.DeleteProduct(ctx, "p1"))
		_, err = f.ProductByID("p1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("catalog writes are online only", func(t *testing.T) {
		remote := newStubRemote()
		monitor := &stubMonitor{online: false}
		f, _, _ := newTestFacade(remote, monitor)

		_, err := f.AddCategory(ctx, json.RawMessage(`{"_id":"cat1","name":"Tools"}`))
		assert.ErrorIs(t, err, shared.ErrOffline)
		_, err = f.UpdateProduct(ctx, "p1", json.RawMessage(`{"_id":"p1"}`))
		assert.ErrorIs(t, err, shared.ErrOffline)
		assert.ErrorIs(t, f.DeleteCustomer(ctx, "c1"), shared.ErrOffline)
	})
}
