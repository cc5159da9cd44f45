package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"btocore/pkg/domain"
)

// stubConn is a minimal database/sql driver backed by an in-memory bucket
// map, enough to exercise the snapshot table without a running server.
type stubConn struct {
	execs    []string
	state    map[string][]byte
	failExec bool
}

func newStubDB() (*sql.DB, *stubConn) {
	conn := &stubConn{state: make(map[string][]byte)}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *stubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, fmt.Errorf("not implemented")
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *stubConn) Ping(context.Context) error { return nil }

func (c *stubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return stubTx{}, nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.execs = append(c.execs, query)
	if c.failExec {
		return nil, fmt.Errorf("exec fail")
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "INSERT INTO STATE") {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected bucket and payload args, got %d", len(args))
		}
		bucket, ok := args[0].Value.(string)
		if !ok {
			return nil, fmt.Errorf("bucket arg is %T", args[0].Value)
		}
		payload, ok := args[1].Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("payload arg is %T", args[1].Value)
		}
		c.state[bucket] = append([]byte(nil), payload...)
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if !strings.Contains(strings.ToUpper(query), "FROM STATE") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	buckets := make([]string, 0, len(c.state))
	for bucket := range c.state {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)
	rows := make([][]driver.Value, 0, len(buckets))
	for _, bucket := range buckets {
		rows = append(rows, []driver.Value{bucket, append([]byte(nil), c.state[bucket]...)})
	}
	return &stubRows{rows: rows}, nil
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubRows struct {
	rows [][]driver.Value
	pos  int
}

func (r *stubRows) Columns() []string { return []string{"bucket", "payload"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

func TestRunInTransactionSnapshotsEveryBucket(t *testing.T) {
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	var sawDDL bool
	for _, stmt := range conn.execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected state table DDL, got execs: %v", conn.execs)
	}

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreatePerson(domain.Person{
			Name:         "Alice",
			Age:          28,
			Capabilities: []domain.Capability{domain.CanApply},
		})
		return err
	}); err != nil {
		t.Fatalf("RunInTransaction: %v", err)
	}

	for _, bucket := range postgresBuckets {
		if len(conn.state[bucket]) == 0 {
			t.Fatalf("expected bucket %s to be snapshotted, state: %v", bucket, conn.state)
		}
	}
}

func TestNewStoreHydratesFromExistingSnapshot(t *testing.T) {
	db, _ := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	seed, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := seed.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateProject(domain.Project{
			Name:          "Acacia Breeze",
			Neighbourhood: "Yishun",
			Capacity:      map[domain.FlatType]int{domain.FlatTwoRoom: 3},
			Remaining:     map[domain.FlatType]int{domain.FlatTwoRoom: 3},
			OpenDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			CloseDate:     time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		})
		return err
	}); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	reopened, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	projects := reopened.ListProjects()
	if len(projects) != 1 || projects[0].Name != "Acacia Breeze" {
		t.Fatalf("expected hydrated project, got %v", projects)
	}
}

func TestRunInTransactionSurfacesPersistFailure(t *testing.T) {
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	conn.failExec = true
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreatePerson(domain.Person{Name: "Bob", Age: 40})
		return err
	}); err == nil {
		t.Fatalf("expected persistence error when exec fails")
	}
}

func TestNewStoreOpenError(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return nil, fmt.Errorf("open fail")
	})
	defer restore()
	if _, err := NewStore("", nil); err == nil || !strings.Contains(err.Error(), "open fail") {
		t.Fatalf("expected open error, got %v", err)
	}
}
