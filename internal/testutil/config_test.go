package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipRecorder captures Skip calls without stopping the test goroutine.
type skipRecorder struct {
	skipped bool
	fatal   bool
}

func (r *skipRecorder) Helper()                       {}
func (r *skipRecorder) Skip(...interface{})           { r.skipped = true }
func (r *skipRecorder) Skipf(string, ...interface{})  { r.skipped = true }
func (r *skipRecorder) Fatal(...interface{})          { r.fatal = true }
func (r *skipRecorder) Fatalf(string, ...interface{}) { r.fatal = true }
func (r *skipRecorder) Logf(string, ...interface{})   {}

func TestSetupTestMongo_SkipsWithoutURI(t *testing.T) {
	t.Setenv("TEST_MONGO_URI", "")
	t.Setenv("TEST_REQUIRE_MONGO", "")
	t.Setenv("TEST_REQUIRE_INFRA", "")

	rec := &skipRecorder{}
	SetupTestMongo(rec)
	assert.True(t, rec.skipped)
	assert.False(t, rec.fatal)
}

func TestSetupTestMongo_FailsWhenRequired(t *testing.T) {
	t.Setenv("TEST_MONGO_URI", "")
	t.Setenv("TEST_REQUIRE_INFRA", "true")

	rec := &skipRecorder{}
	SetupTestMongo(rec)
	assert.True(t, rec.fatal)
}

func TestSetupTestMongo_UniqueDatabase(t *testing.T) {
	t.Setenv("TEST_MONGO_URI", "mongodb://localhost:27017")

	a := SetupTestMongo(t)
	b := SetupTestMongo(t)
	assert.Equal(t, "mongodb://localhost:27017", a.URI)
	assert.True(t, strings.HasPrefix(a.Database, "ori_test_"))
	assert.NotEqual(t, a.Database, b.Database)
}

func TestSetupTestRedis(t *testing.T) {
	client, srv := SetupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute).Err())
	assert.True(t, srv.Exists("k"))

	srv.FastForward(2 * time.Minute)
	assert.False(t, srv.Exists("k"))
}

func TestFixedTimeFunc(t *testing.T) {
	fn := FixedTimeFunc(TestTime())
	assert.Equal(t, TestTime(), fn())
}
