package data

import (
	"context"
	"strings"
	"testing"
)

// Mock drivers for testing
type mockDatabaseDriver struct {
	name string
}

func (d *mockDatabaseDriver) Name() string { return d.name }
func (d *mockDatabaseDriver) Connect(ctx context.Context, cfg any) (any, error) {
	return "mock-connection", nil
}
func (d *mockDatabaseDriver) Close(conn any) error                     { return nil }
func (d *mockDatabaseDriver) Ping(ctx context.Context, conn any) error { return nil }

type mockMessageDriver struct {
	name string
}

func (d *mockMessageDriver) Name() string { return d.name }
func (d *mockMessageDriver) Connect(ctx context.Context, cfg any) (any, error) {
	return nil, nil
}
func (d *mockMessageDriver) Close(conn any) error { return nil }

func resetRegistries(t *testing.T) {
	t.Helper()

	databaseDriversMu.Lock()
	savedDB := databaseDrivers
	databaseDrivers = make(map[string]DatabaseDriver)
	databaseDriversMu.Unlock()

	messageDriversMu.Lock()
	savedMsg := messageDrivers
	messageDrivers = make(map[string]MessageDriver)
	messageDriversMu.Unlock()

	t.Cleanup(func() {
		databaseDriversMu.Lock()
		databaseDrivers = savedDB
		databaseDriversMu.Unlock()
		messageDriversMu.Lock()
		messageDrivers = savedMsg
		messageDriversMu.Unlock()
	})
}

func TestRegisterDatabaseDriver(t *testing.T) {
	resetRegistries(t)

	RegisterDatabaseDriver(&mockDatabaseDriver{name: "test-db"})

	retrieved, err := GetDatabaseDriver("test-db")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if retrieved.Name() != "test-db" {
		t.Errorf("expected driver name 'test-db', got %q", retrieved.Name())
	}
}

func TestRegisterDriverPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil database driver", func() { RegisterDatabaseDriver(nil) }},
		{"empty database name", func() { RegisterDatabaseDriver(&mockDatabaseDriver{}) }},
		{"duplicate database driver", func() {
			RegisterDatabaseDriver(&mockDatabaseDriver{name: "dup"})
			RegisterDatabaseDriver(&mockDatabaseDriver{name: "dup"})
		}},
		{"nil message driver", func() { RegisterMessageDriver(nil) }},
		{"duplicate message driver", func() {
			RegisterMessageDriver(&mockMessageDriver{name: "dup"})
			RegisterMessageDriver(&mockMessageDriver{name: "dup"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetRegistries(t)
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestGetDriverNotFound(t *testing.T) {
	resetRegistries(t)
	RegisterDatabaseDriver(&mockDatabaseDriver{name: "sqlite"})

	_, err := GetDatabaseDriver("oracle")
	if err == nil {
		t.Fatal("expected error when getting non-existent driver")
	}
	if !strings.Contains(err.Error(), "data/oracle") || !strings.Contains(err.Error(), "[sqlite]") {
		t.Errorf("error should name the import path and available drivers: %v", err)
	}

	if _, err := GetMessageDriver("nats"); err == nil {
		t.Fatal("expected error when getting non-existent message driver")
	}
}

func TestListDrivers(t *testing.T) {
	resetRegistries(t)

	RegisterDatabaseDriver(&mockDatabaseDriver{name: "postgres"})
	RegisterDatabaseDriver(&mockDatabaseDriver{name: "mysql"})
	RegisterMessageDriver(&mockMessageDriver{name: "kafka"})

	if got := ListDatabaseDrivers(); len(got) != 2 || got[0] != "mysql" || got[1] != "postgres" {
		t.Errorf("ListDatabaseDrivers() = %v, want [mysql postgres]", got)
	}
	if got := ListMessageDrivers(); len(got) != 1 || got[0] != "kafka" {
		t.Errorf("ListMessageDrivers() = %v, want [kafka]", got)
	}
}

func TestDriverConcurrentAccess(t *testing.T) {
	resetRegistries(t)
	RegisterDatabaseDriver(&mockDatabaseDriver{name: "concurrent-test"})

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			if _, err := GetDatabaseDriver("concurrent-test"); err != nil {
				t.Errorf("concurrent access failed: %v", err)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver  string
		want    string
		wantErr bool
	}{
		{"sqlite", "sqlite3", false},
		{"postgres", "postgres", false},
		{"pgx", "postgres", false},
		{"mysql", "mysql", false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		got, err := DialectFor(tt.driver)
		if (err != nil) != tt.wantErr {
			t.Errorf("DialectFor(%q) error = %v, wantErr %v", tt.driver, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("DialectFor(%q) = %q, want %q", tt.driver, got, tt.want)
		}
	}
}
