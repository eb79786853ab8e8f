package pg

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"jarch/internal/entityconfig"
)

// ErrInvalidDocument — DDL строим только по валидному entity-config.
var ErrInvalidDocument = errors.New("entity-config is invalid")

// ErrInvalidName: схема, сущность или поле не годятся в идентификатор Postgres.
var ErrInvalidName = errors.New("invalid SQL identifier")

// 63 байта — NAMEDATALEN-1
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

func checkName(what, s string) error {
	if !identRe.MatchString(s) {
		return fmt.Errorf("%w: %s %q", ErrInvalidName, what, s)
	}
	return nil
}

type OnDeletePolicy string

const (
	OnDeleteRestrict OnDeletePolicy = "RESTRICT"
	OnDeleteCascade  OnDeletePolicy = "CASCADE"
)

// Ключи результата GenerateDDL, ApplyDDL выполняет их по порядку
const (
	KeyTables      = "000_schema_and_tables"
	KeyJoinTables  = "100_join_tables"
	KeyForeignKeys = "200_foreign_keys"
)

var reserved = map[string]struct{}{
	"user": {}, "select": {}, "table": {}, "insert": {}, "update": {}, "delete": {},
	"where": {}, "join": {}, "group": {}, "order": {}, "limit": {}, "offset": {},
	"primary": {}, "foreign": {}, "key": {}, "constraint": {}, "default": {},
	"from": {}, "into": {}, "values": {}, "unique": {}, "index": {}, "create": {},
	"drop": {}, "alter": {}, "schema": {}, "grant": {}, "revoke": {},
}

func isReserved(s string) bool { _, ok := reserved[strings.ToLower(s)]; return ok }

// элементарная плюрализация (достаточно для users, orders, ...)
func plural(s string) string {
	s = strings.ToLower(s)
	if strings.HasSuffix(s, "s") {
		return s
	}
	return s + "s"
}

func safeTable(entity string) string {
	t := plural(strings.TrimSpace(entity))
	if isReserved(t) {
		// помечаем «опасное» имя префиксом
		t = "e_" + t
	}
	return t
}

func sqlIdent(s string) string { return pgx.Identifier{strings.ToLower(s)}.Sanitize() }

// mapType — базовые типы entity-config в типы Postgres
func mapType(basic string) (string, error) {
	switch basic {
	case "String":
		return "text", nil
	case "Integer":
		return "integer", nil
	case "Long":
		return "bigint", nil
	case "Double":
		return "double precision", nil
	case "Float":
		return "real", nil
	case "Boolean":
		return "boolean", nil
	case "LocalDate":
		return "date", nil
	case "LocalDateTime":
		return "timestamp", nil
	case "LocalTime":
		return "time", nil
	case "BigDecimal":
		return "numeric(19,2)", nil
	default:
		return "", fmt.Errorf("unknown type: %s", basic)
	}
}

func onDeletePolicy(r *entityconfig.Relation) OnDeletePolicy {
	if r == nil {
		return OnDeleteRestrict
	}
	switch strings.ToUpper(strings.TrimSpace(r.CascadeType)) {
	case entityconfig.CascadeRemove, entityconfig.CascadeAll:
		return OnDeleteCascade
	default:
		return OnDeleteRestrict
	}
}

type fkStmt struct {
	tbl, name, col, refTbl string
	onDelete               OnDeletePolicy
}

// GenerateDDL возвращает карту ключ -> SQL: схема и таблицы, join-таблицы, внешние ключи.
// Порядок сущностей — как в документе, чтобы превью было стабильным.
func GenerateDDL(doc entityconfig.Document, schema string) (map[string]string, error) {
	if errs := entityconfig.Validate(doc); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(errs, "; "))
	}
	schema = strings.TrimSpace(schema)
	if schema == "" {
		schema = "public"
	}
	if err := checkName("schema", schema); err != nil {
		return nil, err
	}
	for _, e := range doc.Entities {
		if err := checkName("entity", strings.TrimSpace(e.Name)); err != nil {
			return nil, err
		}
		for _, f := range e.Fields {
			if err := checkName(e.Name+" field", f.Name); err != nil {
				return nil, err
			}
		}
	}
	known := entityconfig.KnownEntityNames(doc)
	q := func(tbl string) string {
		return pgx.Identifier{strings.ToLower(schema), strings.ToLower(tbl)}.Sanitize()
	}

	var tablesSb, joinSb, fkSb strings.Builder
	var fks []fkStmt
	fmt.Fprintf(&tablesSb, "create schema if not exists %s;\n", sqlIdent(schema))

	for _, e := range doc.Entities {
		tbl := safeTable(e.Name)

		var cols []string
		cols = append(cols, `"id" bigserial primary key`)
		seen := map[string]struct{}{"id": {}}
		addCol := func(name, def string) error {
			nameLower := strings.ToLower(name)
			if _, exists := seen[nameLower]; exists {
				return fmt.Errorf("%s: column %q duplicates a system or another column", e.Name, name)
			}
			seen[nameLower] = struct{}{}
			cols = append(cols, sqlIdent(name)+" "+def)
			return nil
		}
		var uniques []string

		for _, f := range e.Fields {
			rt := entityconfig.ResolveType(f.Type, f.Relation != nil, known)
			null := "null"
			if f.Required {
				null = "not null"
			}

			switch rt.Kind {
			case entityconfig.KindBasic:
				typ, err := mapType(rt.Value)
				if err != nil {
					return nil, fmt.Errorf("%s.%s: %w", e.Name, f.Name, err)
				}
				if err := addCol(f.Name, typ+" "+null); err != nil {
					return nil, err
				}

			case entityconfig.KindEntity:
				relType := ""
				if f.Relation != nil {
					relType = f.Relation.Type
				}
				switch relType {
				case entityconfig.OneToMany:
					// владелец связи — другая сторона
					continue
				case entityconfig.ManyToMany:
					writeJoinTable(&joinSb, q, tbl, f.Name, safeTable(rt.Value), onDeletePolicy(f.Relation))
					continue
				}
				col := f.Name + "_id"
				if err := addCol(col, "bigint "+null); err != nil {
					return nil, err
				}
				if relType == entityconfig.OneToOne {
					uniques = append(uniques, col)
				}
				fks = append(fks, fkStmt{
					tbl:      tbl,
					name:     strings.ToLower(tbl + "_" + col + "_fk"),
					col:      col,
					refTbl:   safeTable(rt.Value),
					onDelete: onDeletePolicy(f.Relation),
				})

			case entityconfig.KindGeneric:
				if contains(known, rt.Inner) {
					if f.Relation != nil && f.Relation.Type == entityconfig.OneToMany {
						continue
					}
					writeJoinTable(&joinSb, q, tbl, f.Name, safeTable(rt.Inner), onDeletePolicy(f.Relation))
					continue
				}
				// коллекции примитивов и вложенные контейнеры — в jsonb
				if err := addCol(f.Name, "jsonb "+null); err != nil {
					return nil, err
				}

			case entityconfig.KindGenericMap:
				if err := addCol(f.Name, "jsonb "+null); err != nil {
					return nil, err
				}
			}
		}

		fmt.Fprintf(&tablesSb, "create table if not exists %s (\n  %s\n);\n", q(tbl), strings.Join(cols, ",\n  "))
		for _, col := range uniques {
			fmt.Fprintf(&tablesSb, "create unique index if not exists %s on %s(%s);\n",
				sqlIdent(tbl+"_"+col+"_uq"), q(tbl), sqlIdent(col))
		}
	}

	// --- внешние ключи (после создания всех таблиц) ---
	for _, fk := range fks {
		fmt.Fprintf(&fkSb,
			"alter table %s add constraint %s foreign key (%s) references %s(id) on delete %s;\n",
			q(fk.tbl), sqlIdent(fk.name), sqlIdent(fk.col), q(fk.refTbl), fk.onDelete)
	}

	out := map[string]string{KeyTables: tablesSb.String()}
	if joinSb.Len() > 0 {
		out[KeyJoinTables] = joinSb.String()
	}
	if fkSb.Len() > 0 {
		out[KeyForeignKeys] = fkSb.String()
	}
	return out, nil
}

func writeJoinTable(sb *strings.Builder, q func(string) string, ownerTbl, field, targetTbl string, onDelete OnDeletePolicy) {
	join := strings.ToLower(ownerTbl + "_" + field)
	fmt.Fprintf(sb, "create table if not exists %s (\n  \"owner_id\" bigint not null references %s(id) on delete %s,\n  \"target_id\" bigint not null references %s(id) on delete %s,\n  primary key (\"owner_id\", \"target_id\")\n);\n",
		q(join), q(ownerTbl), OnDeleteCascade, q(targetTbl), onDelete)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
