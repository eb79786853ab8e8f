package entityconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveType_Basic(t *testing.T) {
	for _, bt := range BasicTypes() {
		for _, rel := range []bool{false, true} {
			r := ResolveType(bt, rel, nil)
			require.True(t, r.Valid(), bt)
			assert.Equal(t, KindBasic, r.Kind)
			assert.Equal(t, bt, r.Value)
		}
	}
}

func TestResolveType_NormalizesWhitespace(t *testing.T) {
	r := ResolveType("  String \t", false, nil)
	assert.Equal(t, KindBasic, r.Kind)

	r = ResolveType("List<  Order  >", true, []string{"Order"})
	require.True(t, r.Valid(), r.Reason)
	assert.Equal(t, "Order", r.Inner)
}

func TestResolveType_PlainFieldRejectsNonBasic(t *testing.T) {
	known := []string{"Order"}
	for _, typ := range []string{"Order", "List<Order>", "string", "Map<String,Integer>", "Whatever"} {
		r := ResolveType(typ, false, known)
		require.False(t, r.Valid(), typ)
		assert.Contains(t, r.Reason, "Для простых полей")
	}
}

func TestResolveType_Entity(t *testing.T) {
	r := ResolveType("Order", true, []string{"Customer", "Order"})
	assert.Equal(t, KindEntity, r.Kind)
	assert.Equal(t, "Order", r.Value)

	// регистр имени сущности важен
	r = ResolveType("order", true, []string{"Order"})
	assert.False(t, r.Valid())
}

func TestResolveType_Generic(t *testing.T) {
	known := []string{"Foo"}

	r := ResolveType("List<Foo>", true, known)
	require.True(t, r.Valid(), r.Reason)
	assert.Equal(t, KindGeneric, r.Kind)
	assert.Equal(t, "List", r.Container)
	assert.Equal(t, "Foo", r.Inner)

	r = ResolveType("TreeSet<Integer>", true, known)
	require.True(t, r.Valid(), r.Reason)
	assert.Equal(t, "Integer", r.Inner)

	r = ResolveType("List<Bar>", true, known)
	require.False(t, r.Valid())
	assert.Equal(t, "Некорректный внутренний тип: Неизвестный тип: Bar", r.Reason)
}

func TestResolveType_Map(t *testing.T) {
	known := []string{"Foo"}

	r := ResolveType("Map<String,Integer>", true, known)
	require.True(t, r.Valid(), r.Reason)
	assert.Equal(t, KindGenericMap, r.Kind)
	assert.Equal(t, "String", r.Key)
	assert.Equal(t, "Integer", r.ValueType)

	r = ResolveType("HashMap<String, Foo>", true, known)
	require.True(t, r.Valid(), r.Reason)
	assert.Equal(t, "Foo", r.ValueType)

	r = ResolveType("Map<Integer>", true, known)
	require.False(t, r.Valid())
	assert.Equal(t, "Для Map требуется два типа через запятую", r.Reason)

	r = ResolveType("Map<Bar,Integer>", true, known)
	require.False(t, r.Valid())
	assert.Contains(t, r.Reason, "Некорректный тип ключа")

	r = ResolveType("Map<Integer,Bar>", true, known)
	require.False(t, r.Valid())
	assert.Contains(t, r.Reason, "Некорректный тип значения")
}

func TestResolveType_UnknownContainer(t *testing.T) {
	r := ResolveType("Bag<Integer>", true, nil)
	require.False(t, r.Valid())
	assert.Equal(t, "Неизвестный контейнерный тип: Bag", r.Reason)
}

func TestResolveType_Nested(t *testing.T) {
	r := ResolveType("List<Set<Foo>>", true, []string{"Foo"})
	require.True(t, r.Valid(), r.Reason)
	assert.Equal(t, KindGeneric, r.Kind)
	assert.Equal(t, "Set<Foo>", r.Inner)

	r = ResolveType("List<List<List<Integer>>>", true, nil)
	assert.True(t, r.Valid(), r.Reason)
}

func TestResolveType_Suggestions(t *testing.T) {
	r := ResolveType("Ordr", true, []string{"Order", "Customer"})
	require.False(t, r.Valid())
	assert.Equal(t, `Некорректный тип "Ordr". Возможно вы имели в виду: Order, Customer`, r.Reason)

	r = ResolveType("Ordr", true, nil)
	assert.Equal(t, `Некорректный тип "Ordr". Создайте сначала сущности`, r.Reason)
}

func TestResolveType_Empty(t *testing.T) {
	r := ResolveType("", true, nil)
	assert.Equal(t, "Тип не указан", r.Reason)
}

func TestKnownEntityNames(t *testing.T) {
	doc := Document{Entities: []Entity{{Name: " Order "}, {Name: ""}, {Name: "   "}, {Name: "Customer"}}}
	assert.Equal(t, []string{"Order", "Customer"}, KnownEntityNames(doc))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "generic-map", KindGenericMap.String())
	assert.Equal(t, "invalid", KindInvalid.String())
}
