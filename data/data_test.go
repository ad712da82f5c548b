package data_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"entgo.io/ent/dialect"
	_ "github.com/mattn/go-sqlite3"
	"github.com/ncobase/taskmanager/data"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	keys   []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, key, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, string(key))
	return nil
}

func openTestData(t *testing.T, opts ...data.Option) *data.Data {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	d := data.NewWithDB(db, dialect.SQLite, opts...)
	t.Cleanup(func() { _ = d.Close() })

	if _, err := db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return d
}

func countItems(t *testing.T, d *data.Data) int {
	t.Helper()
	var n int
	if err := d.DB().QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithTxCommits(t *testing.T) {
	d := openTestData(t)

	err := d.WithTx(context.Background(), func(ctx context.Context, tx data.Querier) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, "a")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}
	if n := countItems(t, d); n != 1 {
		t.Errorf("items = %d, want 1", n)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	d := openTestData(t)
	boom := errors.New("boom")

	err := d.WithTx(context.Background(), func(ctx context.Context, tx data.Querier) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, "a"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}
	if n := countItems(t, d); n != 0 {
		t.Errorf("items = %d, want 0 after rollback", n)
	}
}

func TestWithTxReadSeesCommittedRows(t *testing.T) {
	d := openTestData(t)
	if _, err := d.DB().Exec(`INSERT INTO items (name) VALUES ('a'), ('b')`); err != nil {
		t.Fatal(err)
	}

	var n int
	err := d.WithTxRead(context.Background(), func(ctx context.Context, tx data.Querier) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	})
	if err != nil {
		t.Fatalf("WithTxRead() error = %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestClosedDataRejectsWork(t *testing.T) {
	d := openTestData(t)
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	err := d.WithTx(context.Background(), func(context.Context, data.Querier) error { return nil })
	if !errors.Is(err, data.ErrClosed) {
		t.Errorf("WithTx() after close = %v, want ErrClosed", err)
	}
	if err := d.Ping(context.Background()); !errors.Is(err, data.ErrClosed) {
		t.Errorf("Ping() after close = %v, want ErrClosed", err)
	}
}

func TestPublish(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		d := openTestData(t)
		if d.IsMessagingEnabled() {
			t.Fatal("messaging should be disabled without a publisher")
		}
		if err := d.Publish(context.Background(), []byte("k"), []byte("{}")); err != nil {
			t.Errorf("Publish() error = %v", err)
		}
	})

	t.Run("publishes to configured topic", func(t *testing.T) {
		p := &recordingPublisher{}
		d := openTestData(t, data.WithPublisher(p), data.WithTopic("task-events"))

		if err := d.Publish(context.Background(), []byte("42"), []byte(`{"type":"task.created"}`)); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if len(p.topics) != 1 || p.topics[0] != "task-events" || p.keys[0] != "42" {
			t.Errorf("published topics=%v keys=%v", p.topics, p.keys)
		}
	})
}

func TestHealth(t *testing.T) {
	d := openTestData(t)

	services, healthy := d.Health(context.Background())
	if !healthy {
		t.Fatalf("Health() unhealthy: %v", services)
	}
	db, ok := services["database"].(map[string]any)
	if !ok || db["status"] != "healthy" || db["dialect"] != dialect.SQLite {
		t.Errorf("database = %v", services["database"])
	}
}
