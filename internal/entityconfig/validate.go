package entityconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate проверяет документ и возвращает человекочитаемые ошибки.
// Документ валиден, если список пуст. Паники и error наружу не уходят.
func Validate(doc Document) []string {
	var errs []string

	if len(doc.Entities) == 0 {
		return []string{"Должна быть хотя бы одна сущность"}
	}

	// имена считаем заново на каждый проход
	known := KnownEntityNames(doc)

	for ei, e := range doc.Entities {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Sprintf("Сущность %d: имя обязательно", ei+1))
		}
		entityLabel := labelOf(e.Name, ei)

		for fi, f := range e.Fields {
			if strings.TrimSpace(f.Name) == "" {
				errs = append(errs, fmt.Sprintf(`Сущность "%s", поле %d: имя обязательно`, entityLabel, fi+1))
			}
			fieldLabel := labelOf(f.Name, fi)
			prefix := fmt.Sprintf(`Сущность "%s", поле "%s": `, entityLabel, fieldLabel)

			if f.Type == "" {
				errs = append(errs, prefix+"тип обязателен")
				continue
			}

			rt := ResolveType(f.Type, f.Relation != nil, known)
			if !rt.Valid() {
				errs = append(errs, prefix+rt.Reason)
			}

			if f.Relation == nil {
				continue
			}
			if strings.TrimSpace(f.Relation.TargetEntity) == "" {
				errs = append(errs, prefix+"targetEntity обязателен для связанного поля")
			}

			// basic, generic-map и невалидный тип не дают одной ожидаемой сущности
			var expected string
			switch rt.Kind {
			case KindEntity:
				expected = rt.Value
			case KindGeneric:
				expected = rt.Inner
			default:
				continue
			}
			target := Normalize(f.Relation.TargetEntity)
			if !strings.EqualFold(target, expected) {
				errs = append(errs, prefix+fmt.Sprintf(`targetEntity "%s" не соответствует типу поля "%s"`, target, expected))
			}
		}
	}
	return errs
}

// IsValid — сокращение для len(Validate(doc)) == 0.
func IsValid(doc Document) bool { return len(Validate(doc)) == 0 }

// labelOf: имя как есть, либо позиция с единицы
func labelOf(name string, idx int) string {
	if name != "" {
		return name
	}
	return strconv.Itoa(idx + 1)
}
