package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AssetSnapshot is one validated row describing a motorcycle at the time it
// was last written to the store. Several snapshots may share a plate.
type AssetSnapshot struct {
	Plate          string     `json:"plate"`
	State          AssetState `json:"state"`
	Model          string     `json:"model"`
	Franchisee     string     `json:"franchisee,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	LastMovementAt *time.Time `json:"last_movement_at,omitempty"`
	WeeklyRate     *float64   `json:"weekly_rate,omitempty"`
	IdleDays       int        `json:"idle_days"`
	CountingPaused bool       `json:"counting_paused"`
}

// HasRate reports whether the snapshot carries a positive weekly rate.
func (a AssetSnapshot) HasRate() bool {
	return a.WeeklyRate != nil && *a.WeeklyRate > 0
}

// RawAsset mirrors an asset row as delivered by the persistence layer, before
// validation. All fields are free text.
type RawAsset struct {
	Plate          string `json:"placa" yaml:"placa"`
	Status         string `json:"status" yaml:"status"`
	Model          string `json:"modelo" yaml:"modelo"`
	Franchisee     string `json:"franqueado" yaml:"franqueado"`
	CreatedAt      string `json:"data_criacao" yaml:"data_criacao"`
	LastMovementAt string `json:"data_ultima_movimentacao" yaml:"data_ultima_movimentacao"`
	WeeklyRate     string `json:"valor_semanal" yaml:"valor_semanal"`
	IdleDays       string `json:"dias_parada" yaml:"dias_parada"`
	CountingPaused string `json:"contagem_pausada" yaml:"contagem_pausada"`
}

// Snapshot validates the raw row. A missing plate is fatal for the row and
// returns ErrMissingPlate. Malformed optional fields are left empty and
// reported in issues so callers can log them.
func (r RawAsset) Snapshot() (snap AssetSnapshot, issues []error, err error) {
	plate := NormalizePlate(r.Plate)
	if plate == "" {
		return AssetSnapshot{}, nil, ErrMissingPlate
	}
	snap = AssetSnapshot{
		Plate:      plate,
		State:      ParseState(r.Status),
		Model:      strings.TrimSpace(r.Model),
		Franchisee: strings.TrimSpace(r.Franchisee),
	}
	if strings.TrimSpace(r.CreatedAt) != "" {
		if t, perr := ParseDate(r.CreatedAt); perr == nil {
			snap.CreatedAt = &t
		} else {
			issues = append(issues, fmt.Errorf("%s created_at: %w", plate, perr))
		}
	}
	if strings.TrimSpace(r.LastMovementAt) != "" {
		if t, perr := ParseDate(r.LastMovementAt); perr == nil {
			snap.LastMovementAt = &t
		} else {
			issues = append(issues, fmt.Errorf("%s last_movement_at: %w", plate, perr))
		}
	}
	if strings.TrimSpace(r.WeeklyRate) != "" {
		if v, perr := ParseMoney(r.WeeklyRate); perr == nil {
			snap.WeeklyRate = &v
		} else {
			issues = append(issues, fmt.Errorf("%s weekly_rate: %w", plate, perr))
		}
	}
	if s := strings.TrimSpace(r.IdleDays); s != "" {
		if n, perr := strconv.Atoi(s); perr == nil && n > 0 {
			snap.IdleDays = n
		} else if perr != nil {
			issues = append(issues, fmt.Errorf("%s idle_days: %w", plate, perr))
		}
	}
	if s := strings.TrimSpace(r.CountingPaused); s != "" {
		snap.CountingPaused = parseBool(s)
	}
	return snap, issues, nil
}

// NormalizePlate upper-cases the plate and strips separators.
func NormalizePlate(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	return strings.NewReplacer("-", "", " ", "").Replace(p)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "sim", "yes", "s", "y":
		return true
	}
	return false
}
