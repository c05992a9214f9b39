package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/phone"
	"github.com/yeremiapane/resto-panel/repository"
)

func mongoRepos(mt *mtest.T) *repository.Repositories {
	return repository.NewMongoRepositories(mt.DB, phone.NewNormalizer("33", "0"))
}

func updateOK(n int32) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

// firstUpdate returns the q and u documents of the first statement of an update command.
func firstUpdate(t *testing.T, cmd bson.Raw) (bson.Raw, bson.Raw) {
	t.Helper()
	updates, err := cmd.Lookup("updates").Array().Values()
	require.NoError(t, err)
	require.NotEmpty(t, updates)
	stmt := updates[0].Document()
	return stmt.Lookup("q").Document(), stmt.Lookup("u").Document()
}

func TestMongoOrderConfirmAddress(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("matched", func(mt *mtest.T) {
		repos := mongoRepos(mt)
		mt.AddMockResponses(updateOK(1))

		ok, err := repos.Orders.ConfirmAddress(ctx, "ord-1", models.OrderStatusPending,
			models.Address{Street: "12 rue de la Paix", ZipCode: "75001"}, models.OrderStatusInProgress)
		require.NoError(mt, err)
		assert.True(mt, ok)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		assert.Equal(mt, repository.OrderCollection, evt.Command.Lookup("update").StringValue())

		q, u := firstUpdate(mt.T, evt.Command)
		assert.Equal(mt, "ord-1", q.Lookup("_id").StringValue())
		assert.Equal(mt, string(models.OrderStatusPending), q.Lookup("status").StringValue())

		set := u.Lookup("$set").Document()
		assert.Equal(mt, "12 rue de la Paix", set.Lookup("address.street").StringValue())
		assert.Equal(mt, "75001", set.Lookup("address.zipCode").StringValue())
		assert.Equal(mt, string(models.OrderStatusInProgress), set.Lookup("status").StringValue())
		_, err = set.LookupErr("address.city")
		assert.Error(mt, err, "empty fields are not written")
	})

	mt.Run("status already moved", func(mt *mtest.T) {
		repos := mongoRepos(mt)
		mt.AddMockResponses(updateOK(0))

		ok, err := repos.Orders.ConfirmAddress(ctx, "ord-1", models.OrderStatusPending,
			models.Address{Street: "12 rue de la Paix"}, models.OrderStatusInProgress)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestMongoOrderFindLatestByClient(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("newest first", func(mt *mtest.T) {
		repos := mongoRepos(mt)
		ns := mt.DB.Name() + "." + repository.OrderCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "ord-2"},
			{Key: "clientId", Value: "cli-1"},
			{Key: "status", Value: string(models.OrderStatusPending)},
		}))

		got, err := repos.Orders.FindLatestByClient(ctx, "cli-1")
		require.NoError(mt, err)
		assert.Equal(mt, "ord-2", got.ID)
		assert.Equal(mt, models.OrderStatusPending, got.Status)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, "cli-1", evt.Command.Lookup("filter", "clientId").StringValue())
		assert.Equal(mt, int32(-1), evt.Command.Lookup("sort", "createdAt").Int32())
	})

	mt.Run("none", func(mt *mtest.T) {
		repos := mongoRepos(mt)
		ns := mt.DB.Name() + "." + repository.OrderCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repos.Orders.FindLatestByClient(ctx, "cli-1")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestMongoClientFindByPhone(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("falls back to the key", func(mt *mtest.T) {
		repos := mongoRepos(mt)
		ns := mt.DB.Name() + "." + repository.ClientCollection

		// "0612345678" is tried as-is then as "612345678" before the key lookup
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "cli-1"},
				{Key: "entrepriseId", Value: "ent-1"},
				{Key: "phoneNumber", Value: "06 12 34 56 78"},
				{Key: "name", Value: "Marie"},
			}),
		)

		got, err := repos.Clients.FindByPhone(ctx, "ent-1", "0612345678")
		require.NoError(mt, err)
		assert.Equal(mt, "cli-1", got.ID)
		assert.Equal(mt, "06 12 34 56 78", got.PhoneNumber)

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 3)
		assert.Equal(mt, "0612345678", events[0].Command.Lookup("filter", "phoneNumber").StringValue())
		assert.Equal(mt, "612345678", events[1].Command.Lookup("filter", "phoneNumber").StringValue())

		last := events[2].Command
		assert.Equal(mt, "612345678", last.Lookup("filter", "phoneKey").StringValue())
		assert.Equal(mt, "ent-1", last.Lookup("filter", "entrepriseId").StringValue())
		assert.Equal(mt, int32(1), last.Lookup("sort", "createdAt").Int32())
	})
}

func TestMongoClientFindAllByPhone(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	orForms := func(mt *mtest.T) []bson.RawValue {
		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		forms, err := evt.Command.Lookup("filter", "$or").Array().Values()
		require.NoError(mt, err)
		return forms
	}

	mt.Run("digits add the key clause", func(mt *mtest.T) {
		repos := mongoRepos(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+repository.ClientCollection, mtest.FirstBatch))

		_, err := repos.Clients.FindAllByPhone(ctx, "ent-1", "+33612345678")
		require.NoError(mt, err)

		forms := orForms(mt)
		require.Len(mt, forms, 2)
		assert.Equal(mt, "612345678", forms[1].Document().Lookup("phoneKey").StringValue())
	})

	mt.Run("no digits, no key clause", func(mt *mtest.T) {
		repos := mongoRepos(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+repository.ClientCollection, mtest.FirstBatch))

		list, err := repos.Clients.FindAllByPhone(ctx, "ent-1", "inconnu")
		require.NoError(mt, err)
		assert.Empty(mt, list)

		forms := orForms(mt)
		require.Len(mt, forms, 1)
		_, err = forms[0].Document().LookupErr("phoneKey")
		assert.Error(mt, err)
	})
}

func TestMongoClientUpdate_LeavesCounters(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	client := func() *models.Client {
		return &models.Client{ID: "cli-1", EntrepriseID: "ent-1", Name: "Marie Dupont", PhoneNumber: "06 12 34 56 78", OrderCount: 0}
	}

	mt.Run("set only editable fields", func(mt *mtest.T) {
		repos := mongoRepos(mt)
		mt.AddMockResponses(updateOK(1))

		require.NoError(mt, repos.Clients.Update(ctx, client()))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		q, u := firstUpdate(mt.T, evt.Command)
		assert.Equal(mt, "cli-1", q.Lookup("_id").StringValue())
		assert.Equal(mt, "ent-1", q.Lookup("entrepriseId").StringValue())

		set := u.Lookup("$set").Document()
		assert.Equal(mt, "Marie Dupont", set.Lookup("name").StringValue())
		assert.Equal(mt, "612345678", set.Lookup("phoneKey").StringValue())
		for _, counter := range []string{"orderCount", "totalSpent", "lastOrderDate", "createdAt"} {
			_, err := set.LookupErr(counter)
			assert.Error(mt, err, counter)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repos := mongoRepos(mt)
		mt.AddMockResponses(updateOK(0))

		assert.ErrorIs(mt, repos.Clients.Update(ctx, client()), repository.ErrNotFound)
	})
}
