package domain

import (
	"fmt"
	"strings"
)

// Rule règle de nettoyage ayant retiré ou signalé des lignes
type Rule string

const (
	RuleCriticalNull    Rule = "critical_null"
	RuleDuplicateID     Rule = "duplicate_id"
	RuleOrphanProduct   Rule = "orphan_product"
	RuleOrphanVendor    Rule = "orphan_vendor"
	RuleNonPositive     Rule = "non_positive"
	RuleTotalDerived    Rule = "total_value_derived"
	RuleTotalMismatch   Rule = "total_value_mismatch"
	RuleMissingDate     Rule = "missing_date"
	RuleDefaultedRegion Rule = "region_not_informed"
)

// Drops vrai si la règle retire des lignes (RowDropped), faux si elle les signale seulement
func (r Rule) Drops() bool {
	switch r {
	case RuleCriticalNull, RuleDuplicateID, RuleOrphanProduct, RuleOrphanVendor, RuleNonPositive:
		return true
	}
	return false
}

func (r Rule) description() string {
	switch r {
	case RuleCriticalNull:
		return "campos obrigatórios nulos ou inválidos"
	case RuleDuplicateID:
		return "identificador duplicado"
	case RuleOrphanProduct:
		return "produto inexistente"
	case RuleOrphanVendor:
		return "vendedor inexistente"
	case RuleNonPositive:
		return "quantidade ou preço não positivo"
	case RuleTotalDerived:
		return "valor total calculado a partir de quantidade x preço"
	case RuleTotalMismatch:
		return "valor total diferente de quantidade x preço (mantido)"
	case RuleMissingDate:
		return "data ausente (fora das séries temporais)"
	case RuleDefaultedRegion:
		return "região não informada"
	}
	return string(r)
}

// AuditEntry nombre de lignes concernées par une règle sur une table
type AuditEntry struct {
	Table TableName
	Rule  Rule
	Count int
}

// Message message lisible de l'entrée
func (e AuditEntry) Message() string {
	verb := "registro(s) sinalizado(s)"
	if e.Rule.Drops() {
		verb = "registro(s) removido(s)"
	}
	return fmt.Sprintf("%s: %d %s (%s)", e.Table.Label(), e.Count, verb, e.Rule.description())
}

// AuditLog journal du nettoyage: lignes en entrée, en sortie et retraits par règle
type AuditLog struct {
	entries []AuditEntry
	input   map[TableName]int
	output  map[TableName]int
}

// NewAuditLog crée un journal vide
func NewAuditLog() *AuditLog {
	return &AuditLog{
		input:  make(map[TableName]int, len(Tables)),
		output: make(map[TableName]int, len(Tables)),
	}
}

// Record ajoute une entrée; les compteurs nuls sont ignorés
func (a *AuditLog) Record(table TableName, rule Rule, count int) {
	if count <= 0 {
		return
	}
	a.entries = append(a.entries, AuditEntry{Table: table, Rule: rule, Count: count})
}

// SetInput nombre de lignes brutes lues
func (a *AuditLog) SetInput(table TableName, n int) {
	a.input[table] = n
}

// SetOutput nombre de lignes conservées
func (a *AuditLog) SetOutput(table TableName, n int) {
	a.output[table] = n
}

// Input lignes brutes lues pour la table
func (a *AuditLog) Input(table TableName) int {
	return a.input[table]
}

// Output lignes conservées pour la table
func (a *AuditLog) Output(table TableName) int {
	return a.output[table]
}

// Entries retourne les entrées dans l'ordre d'enregistrement
func (a *AuditLog) Entries() []AuditEntry {
	return a.entries
}

// Count total d'une règle pour une table
func (a *AuditLog) Count(table TableName, rule Rule) int {
	n := 0
	for _, e := range a.entries {
		if e.Table == table && e.Rule == rule {
			n += e.Count
		}
	}
	return n
}

// Dropped total des lignes retirées d'une table
func (a *AuditLog) Dropped(table TableName) int {
	n := 0
	for _, e := range a.entries {
		if e.Table == table && e.Rule.Drops() {
			n += e.Count
		}
	}
	return n
}

// Lines rend le journal sous forme de lignes, résumé par table compris
func (a *AuditLog) Lines() []string {
	lines := make([]string, 0, len(a.entries)+len(Tables))
	for _, e := range a.entries {
		lines = append(lines, e.Message())
	}
	for _, t := range Tables {
		if _, ok := a.input[t]; !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d lido(s), %d mantido(s)", t.Label(), a.input[t], a.output[t]))
	}
	return lines
}

// String implémente fmt.Stringer
func (a *AuditLog) String() string {
	return strings.Join(a.Lines(), "\n")
}
