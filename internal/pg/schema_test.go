package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarch/internal/entityconfig"
)

func rel(typ, target, cascade string) *entityconfig.Relation {
	return &entityconfig.Relation{Type: typ, TargetEntity: target, FetchType: entityconfig.FetchLazy, CascadeType: cascade}
}

func shop() entityconfig.Document {
	return entityconfig.Document{Entities: []entityconfig.Entity{
		{Name: "Customer", Fields: []entityconfig.Field{
			{Name: "email", Type: "String", Required: true},
			{Name: "orders", Type: "List<Order>", Relation: rel(entityconfig.OneToMany, "Order", entityconfig.CascadeAll)},
			{Name: "profile", Type: "Profile", Relation: rel(entityconfig.OneToOne, "Profile", entityconfig.CascadeAll)},
		}},
		{Name: "Profile", Fields: []entityconfig.Field{
			{Name: "bio", Type: "String"},
		}},
		{Name: "Order", Fields: []entityconfig.Field{
			{Name: "total", Type: "BigDecimal"},
			{Name: "placedAt", Type: "LocalDateTime", Required: true},
			{Name: "customer", Type: "Customer", Relation: rel(entityconfig.ManyToOne, "customer", entityconfig.CascadePersist)},
			{Name: "tags", Type: "Set<Tag>", Relation: rel(entityconfig.ManyToMany, "Tag", entityconfig.CascadeMerge)},
			{Name: "attrs", Type: "Map<String,Integer>", Relation: rel(entityconfig.OneToMany, "Tag", entityconfig.CascadeAll)},
			{Name: "notes", Type: "List<String>", Relation: rel(entityconfig.OneToMany, "String", entityconfig.CascadeAll)},
		}},
		{Name: "Tag", Fields: []entityconfig.Field{
			{Name: "label", Type: "String", Required: true},
		}},
	}}
}

func TestGenerateDDL_Shop(t *testing.T) {
	ddl, err := GenerateDDL(shop(), "")
	require.NoError(t, err)

	tables := ddl[KeyTables]
	assert.Contains(t, tables, `create schema if not exists "public";`)
	assert.Contains(t, tables, `create table if not exists "public"."customers"`)
	assert.Contains(t, tables, `"email" text not null`)
	assert.Contains(t, tables, `"profile_id" bigint null`)
	assert.Contains(t, tables, `create unique index if not exists "customers_profile_id_uq"`)
	// "orders" — не зарезервировано, "order" было бы
	assert.Contains(t, tables, `"public"."orders"`)
	assert.Contains(t, tables, `"total" numeric(19,2) null`)
	assert.Contains(t, tables, `"placedat" timestamp not null`)
	assert.Contains(t, tables, `"customer_id" bigint null`)
	assert.Contains(t, tables, `"attrs" jsonb null`)
	assert.Contains(t, tables, `"notes" jsonb null`)
	assert.NotContains(t, tables, `"orders" jsonb`)

	assert.Contains(t, ddl[KeyJoinTables], `"public"."orders_tags"`)
	assert.Contains(t, ddl[KeyJoinTables], `references "public"."tags"(id) on delete RESTRICT`)

	fks := ddl[KeyForeignKeys]
	assert.Contains(t, fks, `alter table "public"."orders" add constraint "orders_customer_id_fk" foreign key ("customer_id") references "public"."customers"(id) on delete RESTRICT;`)
	assert.Contains(t, fks, `references "public"."profiles"(id) on delete CASCADE;`)
}

func TestGenerateDDL_Deterministic(t *testing.T) {
	a, err := GenerateDDL(shop(), "shop")
	require.NoError(t, err)
	b, err := GenerateDDL(shop(), "shop")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, a[KeyTables], `create schema if not exists "shop";`)
}

func TestGenerateDDL_RejectsInvalid(t *testing.T) {
	_, err := GenerateDDL(entityconfig.Document{}, "")
	require.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, err.Error(), "Должна быть хотя бы одна сущность")
}

func TestGenerateDDL_DuplicateColumn(t *testing.T) {
	doc := entityconfig.Document{Entities: []entityconfig.Entity{
		{Name: "Item", Fields: []entityconfig.Field{{Name: "id", Type: "Long"}}},
	}}
	_, err := GenerateDDL(doc, "")
	assert.Error(t, err)
}

func TestSafeTable(t *testing.T) {
	assert.Equal(t, "users", safeTable("User"))
	assert.Equal(t, "e_values", safeTable("Value"))
	assert.Equal(t, "status", safeTable("Status"))
}

func TestMapType_AllBasicTypes(t *testing.T) {
	for _, bt := range entityconfig.BasicTypes() {
		_, err := mapType(bt)
		assert.NoError(t, err, bt)
	}
	_, err := mapType("UUID")
	assert.Error(t, err)
}

func TestGenerateDDL_RejectsUnsafeNames(t *testing.T) {
	withField := func(name string) entityconfig.Document {
		return entityconfig.Document{Entities: []entityconfig.Entity{
			{Name: "Item", Fields: []entityconfig.Field{{Name: name, Type: "String"}}},
		}}
	}

	_, err := GenerateDDL(withField("x\" text);\ndrop table \"victims"), "shop")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = GenerateDDL(withField("title"), `x"; drop schema public cascade; --`)
	require.ErrorIs(t, err, ErrInvalidName)

	doc := withField("title")
	doc.Entities[0].Name = `Item"`
	_, err = GenerateDDL(doc, "")
	require.ErrorIs(t, err, ErrInvalidName)

	// допустимое имя по-прежнему в кавычках
	ddl, err := GenerateDDL(withField("title"), "Shop_1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		`create schema if not exists "shop_1"`,
		"create table if not exists \"shop_1\".\"items\" (\n  \"id\" bigserial primary key,\n  \"title\" text null\n)",
	}, Statements(ddl[KeyTables]))
}

func TestSQLIdent_EscapesQuotes(t *testing.T) {
	assert.Equal(t, `"a""b"`, sqlIdent(`A"b`))
}
