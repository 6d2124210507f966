package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/dentalcenter/pkg/database"
)

// backends returns every backend reachable from this environment. Redis
// and PostgreSQL join only when their address is exported.
func backends(t *testing.T) map[string]Backend {
	t.Helper()
	ctx := context.Background()

	out := map[string]Backend{"memory": NewMemoryBackend()}

	db, err := database.OpenSQLite(database.SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "store.db"),
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlite := NewSQLiteBackend(db)
	if err := sqlite.Migrate(ctx); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	out["sqlite"] = sqlite

	if dsn := os.Getenv("DENTALCENTER_TEST_POSTGRES_DSN"); dsn != "" {
		pg, err := sql.Open("postgres", dsn)
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		b := NewPostgresBackend(pg)
		if err := b.Migrate(ctx); err != nil {
			t.Fatalf("migrate postgres: %v", err)
		}
		if _, err := pg.ExecContext(ctx, `DELETE FROM kv_store WHERE doc_key LIKE 'conformance:%'`); err != nil {
			t.Fatalf("clean postgres: %v", err)
		}
		out["postgres"] = b
	}

	if addr := os.Getenv("DENTALCENTER_TEST_REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		keys, _ := rdb.Keys(ctx, "conformance:*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
		out["redis"] = NewRedisBackend(rdb)
	}

	t.Cleanup(func() {
		for _, b := range out {
			b.Close()
		}
	})
	return out
}

func TestBackendConformance(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			const key = "conformance:a"

			if _, err := b.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() on empty key error = %v, want ErrNotFound", err)
			}

			wrote, err := b.SetIfAbsent(ctx, key, []byte(`"first"`))
			if err != nil || !wrote {
				t.Fatalf("SetIfAbsent() = %v, %v; want true, nil", wrote, err)
			}
			wrote, err = b.SetIfAbsent(ctx, key, []byte(`"second"`))
			if err != nil || wrote {
				t.Fatalf("SetIfAbsent() on existing key = %v, %v; want false, nil", wrote, err)
			}

			got, err := b.Get(ctx, key)
			if err != nil || string(got) != `"first"` {
				t.Fatalf("Get() = %q, %v; want \"first\"", got, err)
			}

			if err := b.Set(ctx, key, []byte(`"third"`)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, _ = b.Get(ctx, key)
			if string(got) != `"third"` {
				t.Errorf("Get() after Set = %q, want \"third\"", got)
			}

			err = b.Apply(ctx, map[string][]byte{
				"conformance:b": []byte(`1`),
				"conformance:c": []byte(`2`),
			}, nil)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			for k, want := range map[string]string{"conformance:b": "1", "conformance:c": "2"} {
				got, err := b.Get(ctx, k)
				if err != nil || string(got) != want {
					t.Errorf("Get(%s) = %q, %v; want %q", k, got, err, want)
				}
			}

			err = b.Apply(ctx, map[string][]byte{"conformance:d": []byte(`3`)}, []string{"conformance:b", "conformance:c"})
			if err != nil {
				t.Fatalf("Apply() with deletes error = %v", err)
			}
			for _, k := range []string{"conformance:b", "conformance:c"} {
				if _, err := b.Get(ctx, k); !errors.Is(err, ErrNotFound) {
					t.Errorf("Get(%s) after Apply delete error = %v, want ErrNotFound", k, err)
				}
			}
			if got, err := b.Get(ctx, "conformance:d"); err != nil || string(got) != "3" {
				t.Errorf("Get(conformance:d) = %q, %v; want 3", got, err)
			}
			b.Delete(ctx, "conformance:d")

			if err := b.Delete(ctx, key); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := b.Delete(ctx, key); err != nil {
				t.Fatalf("Delete() of absent key error = %v", err)
			}
			if _, err := b.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemoryBackend_Closed(t *testing.T) {
	b := NewMemoryBackend()
	b.Close()

	if _, err := b.Get(context.Background(), "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after Close error = %v, want ErrClosed", err)
	}
	if err := b.Set(context.Background(), "k", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() after Close error = %v, want ErrClosed", err)
	}
}

func TestSQLiteBackend_Persists(t *testing.T) {
	ctx := context.Background()
	cfg := database.SQLiteConfig{Path: filepath.Join(t.TempDir(), "p.db"), BusyTimeout: time.Second}

	db, err := database.OpenSQLite(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b := NewSQLiteBackend(db)
	if err := b.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := b.Set(ctx, "k", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	b.Close()

	db, err = database.OpenSQLite(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	b = NewSQLiteBackend(db)
	defer b.Close()
	if err := b.Migrate(ctx); err != nil {
		t.Fatalf("migrate twice: %v", err)
	}

	got, err := b.Get(ctx, "k")
	if err != nil || string(got) != `{"x":1}` {
		t.Errorf("Get() after reopen = %q, %v", got, err)
	}
}
