// Package textnorm normalise les textes libres et les en-têtes de colonnes
// (minuscules, sans accents) pour que "Região", "regiao" et "REGIAO" se confondent.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold met en minuscules et retire les diacritiques: "Previsão" -> "previsao"
func Fold(s string) string {
	// Le transformer n'est pas réentrant, on en crée un par appel
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// ColumnKey normalise un nom de colonne: trim, Fold, espaces et tirets -> "_"
func ColumnKey(s string) string {
	s = Fold(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	}), "_")
}

// CollapseSpaces réduit les blancs multiples à un seul espace
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
