package data

import (
	"context"
	"fmt"
	"os"

	"github.com/google/wire"
	"github.com/ncobase/taskmanager/data/config"
)

// ProviderSet is the wire provider set for the data package.
// It provides *Data with a cleanup function that closes all connections.
var ProviderSet = wire.NewSet(ProvideData)

// ProvideData initializes and returns the data layer with cleanup function.
func ProvideData(cfg *config.Config) (*Data, func(), error) {
	d, err := New(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := d.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "data cleanup: %v\n", err)
		}
	}
	return d, cleanup, nil
}
