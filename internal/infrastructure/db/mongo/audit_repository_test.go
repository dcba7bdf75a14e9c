package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prospira/edi-portal/internal/core/domain"
)

func TestAuditIndexes(t *testing.T) {
	idx := auditIndexes(0)
	require.Len(t, idx, 1)
	assert.Equal(t, bson.D{{Key: "identifier", Value: 1}, {Key: "at", Value: -1}}, idx[0].Keys)

	idx = auditIndexes(90 * 24 * time.Hour)
	require.Len(t, idx, 2)
	require.NotNil(t, idx[1].Options.ExpireAfterSeconds)
	assert.Equal(t, int32(90*24*3600), *idx[1].Options.ExpireAfterSeconds)
}

// Runs against a real server when AUDIT_MONGO_URI is set.
func TestAuditRepository_Save(t *testing.T) {
	uri := os.Getenv("AUDIT_MONGO_URI")
	if uri == "" {
		t.Skip("AUDIT_MONGO_URI not set")
	}
	ctx := context.Background()

	client, db, err := Connect(ctx, Config{URI: uri, Database: "edi_portal_test_" + uuid.NewString()[:8]})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	require.NoError(t, Pinger(client)(ctx))

	repo := NewAuditRepository(db, time.Hour)
	require.NoError(t, repo.EnsureIndexes(ctx))

	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Save(ctx, domain.LoginEvent{Op: "start", Category: domain.CategoryVendor, Identifier: "vendor@acme.test", Result: "code_sent", At: at}))
	require.NoError(t, repo.Save(ctx, domain.LoginEvent{Op: "verify", Category: domain.CategoryVendor, Identifier: "vendor@acme.test", Result: "token", At: at.Add(time.Second)}))
	require.NoError(t, repo.Save(ctx, domain.LoginEvent{Op: "start", Category: domain.CategoryEmployee, Identifier: "jdoe", Result: "rejected", At: at}))

	cur, err := db.Collection(collectionLoginEvents).Find(ctx, bson.M{"identifier": "vendor@acme.test"},
		options.Find().SetSort(bson.D{{Key: "at", Value: -1}}))
	require.NoError(t, err)
	var events []domain.LoginEvent
	require.NoError(t, cur.All(ctx, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "verify", events[0].Op)
	assert.Equal(t, "start", events[1].Op)
	assert.True(t, events[1].At.Equal(at))
}
