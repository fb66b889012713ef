package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ncobase/cargohold/data"
	"github.com/ncobase/cargohold/data/config"
)

func TestDriverRegistered(t *testing.T) {
	d, err := data.GetCacheDriver("redis")
	if err != nil {
		t.Fatalf("GetCacheDriver: %v", err)
	}
	if d.Name() != "redis" {
		t.Errorf("Name() = %q", d.Name())
	}
}

func TestConnectValidatesConfig(t *testing.T) {
	d := driver{}
	if _, err := d.Connect(context.Background(), &config.Redis{}); err == nil {
		t.Error("expected error for empty address")
	}
	if _, err := d.Connect(context.Background(), "localhost:6379"); err == nil {
		t.Error("expected error for wrong config type")
	}
	if err := d.Close("nope"); !errors.Is(err, errNotClient) {
		t.Errorf("Close(non-client) = %v", err)
	}
	if err := d.Ping(context.Background(), 42); !errors.Is(err, errNotClient) {
		t.Errorf("Ping(non-client) = %v", err)
	}
}

func TestOptions(t *testing.T) {
	o := options(&config.Redis{Addr: "cache:6379", Db: 2, DialTimeout: time.Second})
	if o.Addr != "cache:6379" || o.DB != 2 || o.DialTimeout != time.Second {
		t.Errorf("options = %+v", o)
	}
}
