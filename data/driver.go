package data

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Driver interfaces define contracts for the backends the data layer talks to.
// Following the design pattern of database/sql, drivers register themselves
// using init() functions and are looked up at runtime based on configuration.

// DatabaseDriver defines the interface for relational database drivers.
// Implementations should handle connection lifecycle and health checks.
type DatabaseDriver interface {
	// Name returns the driver identifier (e.g., "postgres", "mysql", "sqlite")
	Name() string

	// Connect establishes a new database connection using the provided configuration.
	// The returned connection should be a ready to use *sql.DB.
	Connect(ctx context.Context, cfg any) (any, error)

	// Close terminates the database connection and releases resources.
	Close(conn any) error

	// Ping verifies the connection is alive and functional.
	Ping(ctx context.Context, conn any) error
}

// MessageDriver defines the interface for message broker drivers.
// Connect receives the whole *config.Config of the data layer and returns a Publisher.
type MessageDriver interface {
	// Name returns the driver identifier (e.g., "kafka", "rabbitmq", "redis")
	Name() string

	// Connect establishes a new message broker connection.
	Connect(ctx context.Context, cfg any) (any, error)

	// Close terminates the message broker connection.
	Close(conn any) error
}

// Global driver registries with mutex protection for concurrent access.
var (
	databaseDrivers   = make(map[string]DatabaseDriver)
	databaseDriversMu sync.RWMutex

	messageDrivers   = make(map[string]MessageDriver)
	messageDriversMu sync.RWMutex
)

// RegisterDatabaseDriver makes a database driver available by the provided name.
// It is intended to be called from the init function in driver packages.
//
// Example usage in a driver package:
//
//	func init() {
//	    data.RegisterDatabaseDriver(&driver{})
//	}
//
// If RegisterDatabaseDriver is called twice with the same name or if driver is nil,
// it panics.
func RegisterDatabaseDriver(driver DatabaseDriver) {
	databaseDriversMu.Lock()
	defer databaseDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterDatabaseDriver driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("data: RegisterDatabaseDriver driver name is empty")
	}

	if _, exists := databaseDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterDatabaseDriver called twice for driver %s", name))
	}

	databaseDrivers[name] = driver
}

// RegisterMessageDriver makes a message broker driver available by the provided name.
// It follows the same rules as RegisterDatabaseDriver.
func RegisterMessageDriver(driver MessageDriver) {
	messageDriversMu.Lock()
	defer messageDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterMessageDriver driver is nil")
	}

	name := driver.Name()
	if name == "" {
		panic("data: RegisterMessageDriver driver name is empty")
	}

	if _, exists := messageDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterMessageDriver called twice for driver %s", name))
	}

	messageDrivers[name] = driver
}

// GetDatabaseDriver retrieves a registered database driver by name.
// It returns an error with helpful instructions if the driver is not found.
func GetDatabaseDriver(name string) (DatabaseDriver, error) {
	databaseDriversMu.RLock()
	defer databaseDriversMu.RUnlock()

	driver, ok := databaseDrivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"data: database driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"Add to your imports:\n"+
				"    _ \"github.com/ncobase/taskmanager/data/%s\"\n\n"+
				"Available drivers: %v",
			name, name, listDatabaseDriversLocked(),
		)
	}

	return driver, nil
}

// GetMessageDriver retrieves a registered message broker driver by name.
func GetMessageDriver(name string) (MessageDriver, error) {
	messageDriversMu.RLock()
	defer messageDriversMu.RUnlock()

	driver, ok := messageDrivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"data: message driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"Add to your imports:\n"+
				"    _ \"github.com/ncobase/taskmanager/data/messaging/%s\"\n\n"+
				"Available drivers: %v",
			name, name, listMessageDriversLocked(),
		)
	}

	return driver, nil
}

// ListDatabaseDrivers returns the names of all registered database drivers.
func ListDatabaseDrivers() []string {
	databaseDriversMu.RLock()
	defer databaseDriversMu.RUnlock()
	return listDatabaseDriversLocked()
}

// ListMessageDrivers returns the names of all registered message drivers.
func ListMessageDrivers() []string {
	messageDriversMu.RLock()
	defer messageDriversMu.RUnlock()
	return listMessageDriversLocked()
}

func listDatabaseDriversLocked() []string {
	names := make([]string, 0, len(databaseDrivers))
	for name := range databaseDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func listMessageDriversLocked() []string {
	names := make([]string, 0, len(messageDrivers))
	for name := range messageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
