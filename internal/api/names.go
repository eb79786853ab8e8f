// api/names.go
package api

import "strings"

// NormalizeEnumName возвращает каноническое имя справочника ("fieldtype" -> "FieldType").
// Сначала точное совпадение, затем единственное регистронезависимое.
func (s *Storage) NormalizeEnumName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	cat := s.catalog()
	if _, ok := cat[name]; ok {
		return name, true
	}

	var found string
	for n := range cat {
		if strings.EqualFold(n, name) {
			if found != "" { // неуникально
				return "", false
			}
			found = n
		}
	}
	return found, found != ""
}
