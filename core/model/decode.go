package model

import (
	"fmt"
	"strconv"
	"time"
)

// RawAssetFromMap builds a RawAsset from a loosely typed document such as a
// Firestore snapshot. Timestamps, numbers and booleans are rendered to the
// text forms understood by the parsers.
func RawAssetFromMap(doc map[string]any) RawAsset {
	return RawAsset{
		Plate:          text(doc["placa"]),
		Status:         text(doc["status"]),
		Model:          text(doc["modelo"]),
		Franchisee:     text(doc["franqueado"]),
		CreatedAt:      text(doc["data_criacao"]),
		LastMovementAt: text(doc["data_ultima_movimentacao"]),
		WeeklyRate:     text(doc["valor_semanal"]),
		IdleDays:       text(doc["dias_parada"]),
		CountingPaused: text(doc["contagem_pausada"]),
	}
}

// RawMaintenanceFromMap is the maintenance counterpart of RawAssetFromMap.
func RawMaintenanceFromMap(doc map[string]any) RawMaintenance {
	return RawMaintenance{
		Plate:        text(doc["placa"]),
		Date:         text(doc["data"]),
		PartsRevenue: text(doc["receita_pecas"]),
		PartsCost:    text(doc["custo_pecas"]),
		NetAmount:    text(doc["valor_liquido"]),
	}
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
