package app

// Backends register themselves with the store and sink registries.
import (
	_ "github.com/kilianp07/motofleet/infra/cache"
	_ "github.com/kilianp07/motofleet/infra/mqtt"
	_ "github.com/kilianp07/motofleet/infra/store/firestore"
	_ "github.com/kilianp07/motofleet/infra/store/fixture"
	_ "github.com/kilianp07/motofleet/infra/store/sqlstore"
)
