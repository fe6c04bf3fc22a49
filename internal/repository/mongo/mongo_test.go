package mongo

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// newMock starts a driver-level mock deployment. Responses are queued with
// mt.AddMockResponses and commands are read back with decodeStarted.
func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// decodeStarted pops the oldest command sent to the mock and decodes it into out.
func decodeStarted(mt *mtest.T, out interface{}) {
	mt.Helper()
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt, "no command was sent")
	require.NoError(mt, bson.Unmarshal(evt.Command, out))
}

// findAndModifyCmd is the subset of a findAndModify command the tests inspect.
type findAndModifyCmd struct {
	Query  bson.M        `bson:"query"`
	Update bson.RawValue `bson:"update"`
	Upsert bool          `bson:"upsert"`
	New    bool          `bson:"new"`
}

// updateCmd is the subset of an update command the tests inspect.
type updateCmd struct {
	Updates []struct {
		Q      bson.M   `bson:"q"`
		U      bson.Raw `bson:"u"`
		Upsert bool     `bson:"upsert"`
	} `bson:"updates"`
}

func findAndModifyValue(doc interface{}) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

func updateResult(matched int) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: matched},
	)
}
