package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AssetState is the operational state of a motorcycle.
type AssetState int

const (
	StateUnknown AssetState = iota
	StateAvailable
	StateRented
	StateRelocated
	StateMaintenance
	StateRepossessed
	StateDelinquent
	StateTrackerBlocked
	StateRegistrationBlocked
	StateTheft
)

var stateNames = map[AssetState]string{
	StateUnknown:             "unknown",
	StateAvailable:           "available",
	StateRented:              "rented",
	StateRelocated:           "relocated",
	StateMaintenance:         "maintenance",
	StateRepossessed:         "repossessed",
	StateDelinquent:          "delinquent",
	StateTrackerBlocked:      "tracker_blocked",
	StateRegistrationBlocked: "registration_blocked",
	StateTheft:               "theft",
}

// Labels used by the import jobs and manual edits, accents stripped.
var stateAliases = map[string]AssetState{
	"available":              StateAvailable,
	"disponivel":             StateAvailable,
	"rented":                 StateRented,
	"alugada":                StateRented,
	"alugado":                StateRented,
	"relocated":              StateRelocated,
	"relocada":               StateRelocated,
	"maintenance":            StateMaintenance,
	"manutencao":             StateMaintenance,
	"repossessed":            StateRepossessed,
	"recolhida":              StateRepossessed,
	"delinquent":             StateDelinquent,
	"inadimplente":           StateDelinquent,
	"tracker_blocked":        StateTrackerBlocked,
	"bloqueada_rastreador":   StateTrackerBlocked,
	"registration_blocked":   StateRegistrationBlocked,
	"bloqueada_documentacao": StateRegistrationBlocked,
	"theft":                  StateTheft,
	"roubo":                  StateTheft,
	"furto":                  StateTheft,
}

func (s AssetState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return stateNames[StateUnknown]
}

// IsRenting reports whether the asset is generating rental revenue.
func (s AssetState) IsRenting() bool {
	return s == StateRented || s == StateRelocated
}

// MarshalText encodes the state with its canonical name.
func (s AssetState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts any label understood by ParseState.
func (s *AssetState) UnmarshalText(b []byte) error {
	*s = ParseState(string(b))
	return nil
}

// ParseState maps a free-text status to an AssetState. Matching ignores case,
// accents and the separator used between words. Unrecognised labels map to
// StateUnknown.
func ParseState(label string) AssetState {
	key := foldLabel(label)
	if st, ok := stateAliases[key]; ok {
		return st
	}
	return StateUnknown
}

func foldLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, folded)
}
