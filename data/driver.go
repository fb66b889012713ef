package data

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DatabaseDriver opens the relational store. Driver packages register one
// from init() and configuration selects it by name.
type DatabaseDriver interface {
	// Name is the value of data.database.driver selecting this driver.
	Name() string
	// Dialect is the SQL flavour spoken by the connections it opens.
	Dialect() Dialect
	// Connect opens and pings a *sql.DB for a *config.Database.
	Connect(ctx context.Context, cfg any) (any, error)
	Close(conn any) error
	Ping(ctx context.Context, conn any) error
}

// CacheDriver opens the optional tenant lookup cache.
type CacheDriver interface {
	Name() string
	Connect(ctx context.Context, cfg any) (any, error)
	Close(conn any) error
	Ping(ctx context.Context, conn any) error
}

// MessageDriver opens the optional event broker connection.
type MessageDriver interface {
	Name() string
	Connect(ctx context.Context, cfg any) (any, error)
	Close(conn any) error
}

type named interface{ Name() string }

// registry is a name-indexed set of drivers of one kind.
type registry[D named] struct {
	kind    string
	mu      sync.RWMutex
	drivers map[string]D
}

func newRegistry[D named](kind string) *registry[D] {
	return &registry[D]{kind: kind, drivers: make(map[string]D)}
}

func (r *registry[D]) register(d D) {
	if any(d) == nil {
		panic(fmt.Sprintf("data: %s driver is nil", r.kind))
	}
	name := d.Name()
	if name == "" {
		panic(fmt.Sprintf("data: %s driver name is empty", r.kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.drivers[name]; dup {
		panic(fmt.Sprintf("data: %s driver %s registered twice", r.kind, name))
	}
	r.drivers[name] = d
}

func (r *registry[D]) get(name string) (D, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[name]
	return d, ok
}

func (r *registry[D]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *registry[D]) reset() {
	r.mu.Lock()
	r.drivers = make(map[string]D)
	r.mu.Unlock()
}

var (
	databaseDrivers = newRegistry[DatabaseDriver]("database")
	cacheDrivers    = newRegistry[CacheDriver]("cache")
	messageDrivers  = newRegistry[MessageDriver]("message")
)

// RegisterDatabaseDriver makes a database driver available by its name.
// It panics on a nil driver or a duplicate name.
//
//	func init() {
//	    data.RegisterDatabaseDriver(&driver{})
//	}
func RegisterDatabaseDriver(d DatabaseDriver) { databaseDrivers.register(d) }

// RegisterCacheDriver makes a cache driver available by its name.
func RegisterCacheDriver(d CacheDriver) { cacheDrivers.register(d) }

// RegisterMessageDriver makes a message broker driver available by its name.
func RegisterMessageDriver(d MessageDriver) { messageDrivers.register(d) }

// GetDatabaseDriver returns the database driver registered under name.
func GetDatabaseDriver(name string) (DatabaseDriver, error) {
	d, ok := databaseDrivers.get(name)
	if !ok {
		return nil, fmt.Errorf("data: database driver %q not registered (import _ \"github.com/ncobase/cargohold/data/%s\"); available: %v",
			name, name, databaseDrivers.names())
	}
	return d, nil
}

// GetCacheDriver returns the cache driver registered under name.
func GetCacheDriver(name string) (CacheDriver, error) {
	d, ok := cacheDrivers.get(name)
	if !ok {
		return nil, fmt.Errorf("data: cache driver %q not registered; available: %v", name, cacheDrivers.names())
	}
	return d, nil
}

// GetMessageDriver returns the message driver registered under name.
func GetMessageDriver(name string) (MessageDriver, error) {
	d, ok := messageDrivers.get(name)
	if !ok {
		return nil, fmt.Errorf("data: message driver %q not registered; available: %v", name, messageDrivers.names())
	}
	return d, nil
}

// ListRegisteredDrivers returns the sorted driver names of every kind.
func ListRegisteredDrivers() map[string][]string {
	return map[string][]string{
		"database": databaseDrivers.names(),
		"cache":    cacheDrivers.names(),
		"message":  messageDrivers.names(),
	}
}
