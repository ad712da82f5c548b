package redis

import (
	"context"
	"testing"

	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/data/config"
)

func TestNewRequiresAddr(t *testing.T) {
	if _, err := New(context.Background(), &config.Redis{}); err == nil {
		t.Fatal("expected error without addr")
	}
}

func TestDriverRegistered(t *testing.T) {
	d, err := data.GetMessageDriver("redis")
	if err != nil {
		t.Fatalf("GetMessageDriver() error = %v", err)
	}
	if d.Name() != "redis" {
		t.Errorf("Name() = %q", d.Name())
	}
	if err := d.Close("bad"); err == nil {
		t.Error("expected error for invalid connection type")
	}
}

var _ data.Publisher = (*Redis)(nil)
