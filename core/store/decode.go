package store

import (
	"github.com/kilianp07/motofleet/core/logger"
	"github.com/kilianp07/motofleet/core/model"
)

// DecodeAssets validates raw rows. Rows without a plate are dropped and
// malformed fields are logged; decoding never fails.
func DecodeAssets(rows []model.RawAsset, log logger.Logger) []model.AssetSnapshot {
	log = logger.OrNop(log)
	out := make([]model.AssetSnapshot, 0, len(rows))
	for i, r := range rows {
		s, issues, err := r.Snapshot()
		if err != nil {
			log.Warnf("asset row %d skipped: %v", i, err)
			continue
		}
		for _, is := range issues {
			log.Debugw("asset field ignored", map[string]any{"plate": s.Plate, "error": is.Error()})
		}
		out = append(out, s)
	}
	return out
}

// DecodeMaintenance validates raw maintenance rows the same way.
func DecodeMaintenance(rows []model.RawMaintenance, log logger.Logger) []model.MaintenanceRecord {
	log = logger.OrNop(log)
	out := make([]model.MaintenanceRecord, 0, len(rows))
	for i, r := range rows {
		rec, issues, err := r.Record()
		if err != nil {
			log.Warnf("maintenance row %d skipped: %v", i, err)
			continue
		}
		for _, is := range issues {
			log.Debugw("maintenance field ignored", map[string]any{"plate": rec.Plate, "error": is.Error()})
		}
		out = append(out, rec)
	}
	return out
}
