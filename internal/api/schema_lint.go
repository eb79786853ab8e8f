// api/schema_lint.go
package api

import (
	"fmt"
	"sort"
	"strings"

	"jarch/internal/entityconfig"
	"jarch/internal/reference"
)

type SchemaIssue struct {
	Enum    string `json:"enum"`
	Code    string `json:"code"`
	Issue   string `json:"issue"`
	Message string `json:"message"`
}

// справочники, коды которых должен понимать валидатор типов
func grammarSets() map[string][]string {
	return map[string][]string{
		reference.FieldType:     entityconfig.BasicTypes(),
		reference.ContainerType: entityconfig.ContainerTypes(),
		reference.RelationType:  entityconfig.RelationTypes,
		reference.FetchType:     entityconfig.FetchTypes,
		reference.CascadeType:   entityconfig.CascadeTypes,
	}
}

// CatalogLint ищет блокирующие противоречия в справочниках:
// пустые и повторяющиеся коды, а также коды типов, которых не знает валидатор.
func CatalogLint(cat reference.Catalog) []SchemaIssue {
	var issues []SchemaIssue

	names := make([]string, 0, len(cat))
	for n := range cat {
		names = append(names, n)
	}
	sort.Strings(names)

	grammar := grammarSets()
	for _, name := range names {
		dir := cat[name]
		seen := map[string]bool{}
		for _, it := range dir.Items {
			code := strings.TrimSpace(it.Code)
			if code == "" {
				issues = append(issues, SchemaIssue{
					Enum:    name,
					Issue:   "code_empty",
					Message: "item has empty code",
				})
				continue
			}
			if seen[code] {
				issues = append(issues, SchemaIssue{
					Enum:    name,
					Code:    code,
					Issue:   "code_duplicate",
					Message: fmt.Sprintf("duplicate code %q", code),
				})
			}
			seen[code] = true

			if allowed, ok := grammar[name]; ok && !contains(allowed, code) {
				issues = append(issues, SchemaIssue{
					Enum:    name,
					Code:    code,
					Issue:   "code_unsupported",
					Message: fmt.Sprintf("code %q is not supported by the type validator (allowed: %s)", code, strings.Join(allowed, ", ")),
				})
			}
		}
	}
	return issues
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
