package mongo

import (
	"context"
	"testing"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestPantryAddOrIncrement(t *testing.T) {
	mt := newMock(t)
	uid := primitive.NewObjectID()

	mt.Run("increments and writes metadata only on insert", func(mt *mtest.T) {
		repo := NewMongoPantryRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(findAndModifyValue(bson.D{
			{Key: "_id", Value: id},
			{Key: "userId", Value: uid},
			{Key: "code", Value: "789"},
			{Key: "nome", Value: "Aveia em flocos"},
			{Key: "quantidade", Value: 3},
		}))

		stored, err := repo.AddOrIncrement(context.Background(), &domain.PantryItem{
			UserID: uid, Code: "789", Name: "Aveia em flocos", Quantity: 2,
		})
		require.NoError(mt, err)
		assert.Equal(mt, id, stored.ID)
		assert.Equal(mt, 3, stored.Quantity)

		var cmd findAndModifyCmd
		decodeStarted(mt, &cmd)
		assert.True(mt, cmd.Upsert)
		assert.True(mt, cmd.New)
		assert.Equal(mt, "789", cmd.Query["code"])

		var u struct {
			Inc struct {
				Quantity int `bson:"quantidade"`
			} `bson:"$inc"`
			Set         bson.M `bson:"$set"`
			SetOnInsert bson.M `bson:"$setOnInsert"`
		}
		require.NoError(mt, bson.Unmarshal(cmd.Update.Document(), &u))
		assert.Equal(mt, 2, u.Inc.Quantity)
		assert.Equal(mt, "Aveia em flocos", u.SetOnInsert["nome"])
		assert.NotContains(mt, u.Set, "nome", "a rescan must not rename the item")
	})

	mt.Run("server error", func(mt *mtest.T) {
		repo := NewMongoPantryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11000, Message: "E11000 duplicate key"}))

		_, err := repo.AddOrIncrement(context.Background(), &domain.PantryItem{UserID: uid, Code: "789", Quantity: 1})
		assert.Error(mt, err)
	})
}

func TestPantryListByUser(t *testing.T) {
	mt := newMock(t)
	uid := primitive.NewObjectID()
	ns := mtest.TestDb + "." + pantryCollectionName

	mt.Run("empty pantry is an empty slice", func(mt *mtest.T) {
		repo := NewMongoPantryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		items, err := repo.ListByUser(context.Background(), uid)
		require.NoError(mt, err)
		assert.NotNil(mt, items)
		assert.Empty(mt, items)
	})

	mt.Run("decodes every item", func(mt *mtest.T) {
		repo := NewMongoPantryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "code", Value: "1"}, {Key: "nome", Value: "Arroz"}, {Key: "quantidade", Value: 1}},
			bson.D{{Key: "code", Value: "2"}, {Key: "nome", Value: "Feijão"}, {Key: "quantidade", Value: 4}},
		))

		items, err := repo.ListByUser(context.Background(), uid)
		require.NoError(mt, err)
		require.Len(mt, items, 2)
		assert.Equal(mt, "Feijão", items[1].Name)
		assert.Equal(mt, 4, items[1].Quantity)
	})
}

func TestPantrySetQuantityAndDelete(t *testing.T) {
	mt := newMock(t)
	uid := primitive.NewObjectID()

	mt.Run("set quantity on a missing item", func(mt *mtest.T) {
		repo := NewMongoPantryRepository(mt.DB)
		mt.AddMockResponses(findAndModifyValue(nil))

		_, err := repo.SetQuantity(context.Background(), uid, "404", 5)
		assert.ErrorIs(mt, err, repository.ErrNotFound)

		var cmd findAndModifyCmd
		decodeStarted(mt, &cmd)
		assert.False(mt, cmd.Upsert)
	})

	mt.Run("set quantity returns the stored item", func(mt *mtest.T) {
		repo := NewMongoPantryRepository(mt.DB)
		mt.AddMockResponses(findAndModifyValue(bson.D{{Key: "code", Value: "789"}, {Key: "quantidade", Value: 5}}))

		item, err := repo.SetQuantity(context.Background(), uid, "789", 5)
		require.NoError(mt, err)
		assert.Equal(mt, 5, item.Quantity)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoPantryRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		require.NoError(mt, repo.Delete(context.Background(), uid, "789"))
		assert.ErrorIs(mt, repo.Delete(context.Background(), uid, "789"), repository.ErrNotFound)
	})
}
