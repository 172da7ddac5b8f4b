package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "todo")
		if !errors.Is(err, ErrNotExist) {
			t.Fatalf("Get(todo): got %v, want ErrNotExist", err)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		want := []byte("[\n  {\"id\": \"x\"}\n]\n")
		if err := s.Put(ctx, "doing", want); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "doing")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != string(want) {
			t.Errorf("Get: got %q, want %q", got, want)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := s.Put(ctx, "done", []byte("first")); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := s.Put(ctx, "done", []byte("[]\n")); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "done")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != "[]\n" {
			t.Errorf("Get after overwrite: got %q", got)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		if err := s.Put(ctx, "a-1", []byte("one")); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := s.Put(ctx, "a_2", []byte("two")); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "a-1")
		if err != nil || string(got) != "one" {
			t.Errorf("Get(a-1): got %q, %v", got, err)
		}
	})

	t.Run("empty value", func(t *testing.T) {
		if err := s.Put(ctx, "empty", nil); err != nil {
			t.Fatalf("Put(nil): %v", err)
		}
		got, err := s.Get(ctx, "empty")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Get: got %q, want empty", got)
		}
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, key := range []string{"", "Todo", "../todo", "a b", "todo.json"} {
			if err := s.Put(ctx, key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Put(%q): got %v, want ErrInvalidKey", key, err)
			}
			if _, err := s.Get(ctx, key); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Get(%q): got %v, want ErrInvalidKey", key, err)
			}
		}
	})
}

func TestFileStore(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "data"))
	testStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	testStore(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Put(ctx, "todo", []byte("[]\n")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "todo")
	if err != nil || string(got) != "[]\n" {
		t.Errorf("Get after reopen: got %q, %v", got, err)
	}
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, DefaultRedisPrefix)
	t.Cleanup(func() { s.Close() })
	testStore(t, s)

	got, err := mr.Get(DefaultRedisPrefix + "doing")
	if err != nil {
		t.Fatalf("miniredis Get: %v", err)
	}
	if !strings.HasPrefix(got, "[") {
		t.Errorf("raw value under prefixed key: got %q", got)
	}
}

func TestRedisStoreServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	s := NewRedisStore(client, "")
	defer s.Close()
	mr.Close()

	_, err = s.Get(context.Background(), "todo")
	if err == nil {
		t.Fatal("Get with server down: expected error")
	}
	if errors.Is(err, ErrNotExist) {
		t.Errorf("connection failure reported as ErrNotExist: %v", err)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("KANBAN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("KANBAN_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if _, err := s.pool.Exec(ctx, `DELETE FROM kanban_snapshots`); err != nil {
		t.Fatalf("reset table: %v", err)
	}
	testStore(t, s)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreInjectedFailures(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	boom := errors.New("disk on fire")

	if err := s.Put(ctx, "todo", []byte("old")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s.FailPut("todo", boom)
	if err := s.Put(ctx, "todo", []byte("new")); !errors.Is(err, boom) {
		t.Fatalf("Put with failure: got %v", err)
	}
	got, _ := s.Get(ctx, "todo")
	if string(got) != "old" {
		t.Errorf("failed Put changed value to %q", got)
	}

	s.FailGet("todo", boom)
	if _, err := s.Get(ctx, "todo"); !errors.Is(err, boom) {
		t.Errorf("Get with failure: got %v", err)
	}
	s.FailGet("todo", nil)
	if _, err := s.Get(ctx, "todo"); err != nil {
		t.Errorf("Get after clearing failure: %v", err)
	}
	if s.Puts() != 1 {
		t.Errorf("Puts: got %d, want 1", s.Puts())
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	ctx := context.Background()

	for _, key := range []string{"todo", "doing", "done"} {
		if err := s.Put(ctx, key, []byte("[]\n")); err != nil {
			t.Fatalf("Put(%s): %v", key, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"doing_list_storage.json", "done_list_storage.json", "todo_list_storage.json"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("files: got %v, want %v", names, want)
	}

	info, err := os.Stat(s.Path("todo"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("perm: got %o, want 644", perm)
	}
}

func TestFileStoreIgnoresStrayTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	ctx := context.Background()

	if err := s.Put(ctx, "todo", []byte("[]\n")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Left behind by a write that crashed before rename.
	stray := filepath.Join(dir, "todo"+FileSuffix+".tmp.123")
	if err := os.WriteFile(stray, []byte("[{\"id\""), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := s.Get(ctx, "todo")
	if err != nil || string(got) != "[]\n" {
		t.Errorf("Get: got %q, %v", got, err)
	}
	if err := s.Put(ctx, "todo", []byte("[ ]\n")); err != nil {
		t.Fatalf("Put over stray: %v", err)
	}
}

func TestFileStoreFailedPutKeepsPrevious(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	dir := t.TempDir()
	s := NewFileStore(dir)
	ctx := context.Background()

	if err := s.Put(ctx, "todo", []byte("old")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	if err := s.Put(ctx, "todo", []byte("new")); err == nil {
		t.Fatal("Put into read-only dir: expected error")
	}
	got, err := s.Get(ctx, "todo")
	if err != nil || string(got) != "old" {
		t.Errorf("Get after failed Put: got %q, %v", got, err)
	}
}

func TestContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewFileStore(t.TempDir())
	if err := s.Put(ctx, "todo", []byte("[]")); !errors.Is(err, context.Canceled) {
		t.Errorf("Put: got %v, want context.Canceled", err)
	}
	if _, err := s.Get(ctx, "todo"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get: got %v, want context.Canceled", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr error
	}{
		{name: "default", opts: Options{Dir: dir}, want: "*storage.FileStore"},
		{name: "file", opts: Options{Backend: BackendFile, Dir: dir}, want: "*storage.FileStore"},
		{name: "sqlite in data dir", opts: Options{Backend: BackendSQLite, Dir: dir}, want: "*storage.SQLiteStore"},
		{name: "redis", opts: Options{Backend: BackendRedis, RedisAddr: mr.Addr()}, want: "*storage.RedisStore"},
		{name: "memory", opts: Options{Backend: BackendMemory}, want: "*storage.MemoryStore"},
		{name: "unknown", opts: Options{Backend: "etcd"}, wantErr: ErrUnknownBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()
			if got := typeName(s); got != tt.want {
				t.Errorf("type: got %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, DefaultSQLiteFile)); err != nil {
		t.Errorf("sqlite database not created in data dir: %v", err)
	}
	if _, err := Open(ctx, Options{Backend: BackendPostgres}); err == nil {
		t.Error("postgres without dsn: expected error")
	}
	if _, err := Open(ctx, Options{Backend: BackendFile}); err == nil {
		t.Error("file without dir: expected error")
	}
}

func typeName(s Store) string {
	switch s.(type) {
	case *FileStore:
		return "*storage.FileStore"
	case *SQLiteStore:
		return "*storage.SQLiteStore"
	case *RedisStore:
		return "*storage.RedisStore"
	case *PostgresStore:
		return "*storage.PostgresStore"
	case *MemoryStore:
		return "*storage.MemoryStore"
	}
	return "unknown"
}
