package fleet

import "strings"

// UnknownModel groups assets whose model field is empty.
const UnknownModel = "SEM MODELO"

// ModelNormalizer maps free-text model names to a grouping key.
type ModelNormalizer interface {
	Normalize(model string) string
}

// AliasNormalizer upper-cases and collapses whitespace, then applies an alias
// table keyed by the lower-cased collapsed spelling.
type AliasNormalizer struct {
	aliases map[string]string
}

// NewAliasNormalizer builds a normalizer from the configured aliases.
func NewAliasNormalizer(aliases map[string]string) AliasNormalizer {
	m := make(map[string]string, len(aliases))
	for k, v := range aliases {
		m[collapse(strings.ToLower(k))] = collapse(strings.ToUpper(v))
	}
	return AliasNormalizer{aliases: m}
}

// Normalize implements ModelNormalizer.
func (n AliasNormalizer) Normalize(model string) string {
	c := collapse(model)
	if c == "" {
		return UnknownModel
	}
	if alias, ok := n.aliases[strings.ToLower(c)]; ok {
		return alias
	}
	return strings.ToUpper(c)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// rateKey is the lookup key used by rate imputation.
func rateKey(n ModelNormalizer, model string) string {
	return strings.ToLower(n.Normalize(model))
}
