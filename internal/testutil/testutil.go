// Package testutil provides test helpers for the ori-auth stores.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the skip helpers need.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireMongo() bool { return envBool("TEST_REQUIRE_MONGO") || envBool("TEST_REQUIRE_INFRA") }

// SetupTestRedis starts an in-process Redis and returns a client bound to it.
// The server is stopped when the test ends. Use the returned server to
// fast-forward TTLs.
func SetupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	})
	return client, srv
}

// MongoTarget identifies the server and throwaway database a test should use.
type MongoTarget struct {
	URI      string
	Database string
}

// SetupTestMongo returns connection details for an integration MongoDB.
// The test is skipped unless TEST_MONGO_URI is set (or fails when
// TEST_REQUIRE_MONGO/TEST_REQUIRE_INFRA is truthy). Each call gets a fresh
// database name so packages can run in parallel.
func SetupTestMongo(t TestingTB) MongoTarget {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		if requireMongo() {
			t.Fatal("TEST_MONGO_URI is required but not set")
		}
		t.Skip("MongoDB not configured for testing (set TEST_MONGO_URI)")
	}
	return MongoTarget{URI: uri, Database: generateDatabaseName()}
}

func generateDatabaseName() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "ori_test_" + strings.ReplaceAll(time.Now().Format("150405.000000000"), ".", "_")
	}
	return "ori_test_" + hex.EncodeToString(b[:])
}

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}
