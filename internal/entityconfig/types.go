package entityconfig

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind — результат классификации строки типа
type Kind int

const (
	KindInvalid Kind = iota
	KindBasic
	KindEntity
	KindGeneric    // Container<Inner>
	KindGenericMap // Map<Key,Value>
)

func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindEntity:
		return "entity"
	case KindGeneric:
		return "generic"
	case KindGenericMap:
		return "generic-map"
	default:
		return "invalid"
	}
}

// MarshalText — в JSON вид отдаётся строкой ("basic", "generic-map", ...).
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ResolvedType — классификация типа поля.
// Для KindInvalid заполнен только Reason.
type ResolvedType struct {
	Kind      Kind   `json:"kind"`
	Value     string `json:"value,omitempty"`
	Container string `json:"container,omitempty"`
	Inner     string `json:"innerType,omitempty"`
	Key       string `json:"keyType,omitempty"`
	ValueType string `json:"valueType,omitempty"`
	Reason    string `json:"error,omitempty"`
}

func (r ResolvedType) Valid() bool { return r.Kind != KindInvalid }

var (
	genericRe = regexp.MustCompile(`^(\w+)<(.+)>$`)
	spacesRe  = regexp.MustCompile(`\s+`)
)

// Normalize схлопывает пробелы и обрезает края.
func Normalize(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// KnownEntityNames — непустые обрезанные имена сущностей, в порядке документа.
func KnownEntityNames(doc Document) []string {
	names := make([]string, 0, len(doc.Entities))
	for _, e := range doc.Entities {
		if n := strings.TrimSpace(e.Name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func invalid(format string, args ...any) ResolvedType {
	return ResolvedType{Kind: KindInvalid, Reason: fmt.Sprintf(format, args...)}
}

// ResolveType разбирает строку типа поля.
// hasRelation разрешает ссылки на сущности и контейнеры; known — имена сущностей документа.
func ResolveType(typeString string, hasRelation bool, known []string) ResolvedType {
	if typeString == "" {
		return invalid("Тип не указан")
	}
	t := Normalize(typeString)

	if IsBasicType(t) {
		return ResolvedType{Kind: KindBasic, Value: t}
	}
	if !hasRelation {
		return invalid(`Некорректный тип "%s". Для простых полей допустимы только: %s`, t, strings.Join(basicTypes, ", "))
	}
	if contains(known, t) {
		return ResolvedType{Kind: KindEntity, Value: t}
	}

	if m := genericRe.FindStringSubmatch(t); m != nil {
		container, payload := m[1], m[2]
		if !IsContainerType(container) {
			return invalid("Неизвестный контейнерный тип: %s", container)
		}

		if strings.Contains(container, "Map") {
			parts := strings.Split(payload, ",")
			if len(parts) != 2 {
				return invalid("Для Map требуется два типа через запятую")
			}
			key, val := Normalize(parts[0]), Normalize(parts[1])
			if r := resolveInner(key, true, known); !r.Valid() {
				return invalid("Некорректный тип ключа: %s", r.Reason)
			}
			if r := resolveInner(val, true, known); !r.Valid() {
				return invalid("Некорректный тип значения: %s", r.Reason)
			}
			return ResolvedType{Kind: KindGenericMap, Value: t, Container: container, Key: key, ValueType: val}
		}

		inner := Normalize(payload)
		if r := resolveInner(inner, true, known); !r.Valid() {
			return invalid("Некорректный внутренний тип: %s", r.Reason)
		}
		return ResolvedType{Kind: KindGeneric, Value: t, Container: container, Inner: inner}
	}

	suggestion := "Создайте сначала сущности"
	if len(known) > 0 {
		suggestion = "Возможно вы имели в виду: " + strings.Join(known, ", ")
	}
	return invalid(`Некорректный тип "%s". %s`, t, suggestion)
}

// resolveInner — тип внутри контейнера. Вложенный контейнер уходит в ResolveType.
func resolveInner(typeString string, hasRelation bool, known []string) ResolvedType {
	t := Normalize(typeString)

	if IsBasicType(t) {
		return ResolvedType{Kind: KindBasic, Value: t}
	}
	if hasRelation && contains(known, t) {
		return ResolvedType{Kind: KindEntity, Value: t}
	}
	if hasRelation && genericRe.MatchString(t) {
		return ResolveType(t, true, known)
	}
	if hasRelation {
		return invalid("Неизвестный тип: %s", t)
	}
	return invalid(`Некорректный тип "%s". Для простых полей допустимы только базовые типы`, t)
}
