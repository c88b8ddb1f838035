package sqlstore

import (
	"github.com/kilianp07/motofleet/core/factory"
	"github.com/kilianp07/motofleet/core/store"
	"github.com/kilianp07/motofleet/infra/logger"
)

func init() {
	for _, driver := range []string{"sqlite", "postgres"} {
		_ = store.RegisterRepository(driver, func(conf map[string]any) (store.Repository, error) {
			var c Config
			if err := factory.Decode(conf, &c); err != nil {
				return nil, err
			}
			c.Driver = driver
			return Open(c, logger.New("sqlstore"))
		})
	}
}
