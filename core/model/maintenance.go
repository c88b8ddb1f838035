package model

import (
	"fmt"
	"strings"
	"time"
)

// MaintenanceRecord is one workshop visit for an asset.
type MaintenanceRecord struct {
	Plate        string    `json:"plate"`
	Date         time.Time `json:"date"`
	PartsRevenue float64   `json:"parts_revenue"`
	PartsCost    float64   `json:"parts_cost"`
	NetAmount    float64   `json:"net_amount"`
}

// RawMaintenance is an unvalidated maintenance row.
type RawMaintenance struct {
	Plate        string `json:"placa" yaml:"placa"`
	Date         string `json:"data" yaml:"data"`
	PartsRevenue string `json:"receita_pecas" yaml:"receita_pecas"`
	PartsCost    string `json:"custo_pecas" yaml:"custo_pecas"`
	NetAmount    string `json:"valor_liquido" yaml:"valor_liquido"`
}

// Record validates the row. Plate and date are required; malformed amounts
// default to zero and are reported in issues.
func (r RawMaintenance) Record() (rec MaintenanceRecord, issues []error, err error) {
	plate := NormalizePlate(r.Plate)
	if plate == "" {
		return MaintenanceRecord{}, nil, ErrMissingPlate
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return MaintenanceRecord{}, nil, fmt.Errorf("%s date: %w", plate, err)
	}
	rec = MaintenanceRecord{Plate: plate, Date: date}
	amounts := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"parts_revenue", r.PartsRevenue, &rec.PartsRevenue},
		{"parts_cost", r.PartsCost, &rec.PartsCost},
		{"net_amount", r.NetAmount, &rec.NetAmount},
	}
	for _, a := range amounts {
		if strings.TrimSpace(a.raw) == "" {
			continue
		}
		v, perr := ParseMoney(a.raw)
		if perr != nil {
			issues = append(issues, fmt.Errorf("%s %s: %w", plate, a.name, perr))
			continue
		}
		*a.dst = v
	}
	return rec, issues, nil
}
