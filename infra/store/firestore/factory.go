package firestore

import (
	"context"

	"github.com/kilianp07/motofleet/core/factory"
	"github.com/kilianp07/motofleet/core/store"
	"github.com/kilianp07/motofleet/infra/logger"
)

func init() {
	_ = store.RegisterRepository("firestore", func(conf map[string]any) (store.Repository, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return Open(context.Background(), c, logger.New("firestore"))
	})
}
