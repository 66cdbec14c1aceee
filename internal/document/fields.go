package document

import (
	"regexp"
	"strings"
)

// FieldPattern is one entry of the legal field extraction table: a
// category label, a compiled pattern, and the index of the submatch
// the value is taken from (0 means the entire match).
type FieldPattern struct {
	Category FieldCategory
	Pattern  *regexp.Regexp
	Group    int
}

// nameGroup captures a run of capitalized words (accents and Ñ
// included, dots allowed for abbreviated names). The group is
// deliberately case-sensitive so a following lowercase word ends the
// party name instead of being swallowed into it.
const nameGroup = `((?:[A-ZÁÉÍÓÚÑ][A-Za-zÁÉÍÓÚÑáéíóúñ]*\.?[ \t]*)+)`

// DefaultFieldPatterns returns the fixed extraction table in
// definition order. Categories with Group 0 take the whole match as
// the value; Demandante/Demandado take the captured party name.
func DefaultFieldPatterns() []FieldPattern {
	return []FieldPattern{
		{
			Category: CategoryJuzgado,
			Pattern:  regexp.MustCompile(`(?i)(juzgado|sala|tribunal)[\wáéíóúñº°\-.\s]*`),
			Group:    0,
		},
		{
			Category: CategoryExpediente,
			Pattern:  regexp.MustCompile(`(?i)(expediente|t\.|toca|juicio|proceso|asunto)\s*[A-Z0-9/\-.]+`),
			Group:    0,
		},
		{
			Category: CategorySecretaria,
			Pattern:  regexp.MustCompile(`(?i)(secretar[ií]a|despacho)\s*[\wº°#\-\s]*`),
			Group:    0,
		},
		{
			Category: CategoryDemandante,
			Pattern:  regexp.MustCompile(`(?i:demandante|actor|parte\s+actora)[:\s]+` + nameGroup),
			Group:    1,
		},
		{
			Category: CategoryDemandado,
			Pattern:  regexp.MustCompile(`(?i:demandado|demandada|parte\s+demandada)[:\s]+` + nameGroup),
			Group:    1,
		},
	}
}

// Analyzer extracts key legal fields from document text by running a
// fixed table of labeled patterns.
type Analyzer struct {
	patterns []FieldPattern
}

// NewAnalyzer creates an analyzer with the default pattern table.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		patterns: DefaultFieldPatterns(),
	}
}

// NewAnalyzerWithPatterns creates an analyzer over a custom table.
// Entries run in slice order.
func NewAnalyzerWithPatterns(patterns []FieldPattern) *Analyzer {
	return &Analyzer{
		patterns: patterns,
	}
}

// AnalyzeText runs every pattern over the full text and returns the
// deduplicated (category, value) pairs, grouped by category in table
// order and by first occurrence within a category. Values are trimmed;
// whitespace-only captures are dropped. An empty result means no
// pattern matched anywhere, which is not an error.
func (a *Analyzer) AnalyzeText(text string) []LegalField {
	type fieldKey struct {
		category FieldCategory
		value    string
	}

	seen := make(map[fieldKey]bool)
	var fields []LegalField

	for _, entry := range a.patterns {
		for _, match := range entry.Pattern.FindAllStringSubmatch(text, -1) {
			if entry.Group >= len(match) {
				continue
			}
			value := strings.TrimSpace(match[entry.Group])
			if value == "" {
				continue
			}

			key := fieldKey{category: entry.Category, value: value}
			if seen[key] {
				continue
			}
			seen[key] = true

			fields = append(fields, LegalField{
				Category: entry.Category,
				Value:    value,
			})
		}
	}

	return fields
}
