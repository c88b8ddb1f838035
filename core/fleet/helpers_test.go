package fleet

import (
	"time"

	"github.com/kilianp07/motofleet/core/model"
)

var testNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestEngine(cfg Config) *Engine {
	return NewEngine(cfg, WithClock(func() time.Time { return testNow }))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func rate(f float64) *float64 { return &f }

func snap(plate string, st model.AssetState, ts *time.Time) model.AssetSnapshot {
	return model.AssetSnapshot{Plate: plate, State: st, LastMovementAt: ts}
}

func rentedAsset(plate, modelName, franchisee string, r *float64) model.AssetSnapshot {
	return model.AssetSnapshot{
		Plate:          plate,
		State:          model.StateRented,
		Model:          modelName,
		Franchisee:     franchisee,
		LastMovementAt: at(2024, 1, 15),
		WeeklyRate:     r,
	}
}

func maint(plate string, d time.Time, net float64) model.MaintenanceRecord {
	return model.MaintenanceRecord{Plate: plate, Date: d, NetAmount: net}
}
