package entityconfig

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shopDoc() Document {
	return Document{Entities: []Entity{
		{
			Name: "Customer",
			Fields: []Field{
				{Name: "email", Type: "String", Required: true},
				{Name: "orders", Type: "List<Order>", Relation: &Relation{
					Type: OneToMany, TargetEntity: "order", FetchType: FetchLazy, CascadeType: CascadeAll,
				}},
			},
		},
		{
			Name:        "Order",
			Description: "заказ",
			Fields: []Field{
				{Name: "total", Type: "BigDecimal"},
				{Name: "customer", Type: "Customer", Relation: &Relation{
					Type: ManyToOne, TargetEntity: "Customer", FetchType: FetchEager, CascadeType: CascadePersist,
				}},
				{Name: "attrs", Type: "Map<String,Integer>", Relation: &Relation{
					Type: OneToMany, TargetEntity: "Whatever", FetchType: FetchLazy, CascadeType: CascadeAll,
				}},
			},
		},
	}}
}

func TestValidate_EmptyDocument(t *testing.T) {
	assert.Equal(t, []string{"Должна быть хотя бы одна сущность"}, Validate(Document{}))
	assert.Equal(t, []string{"Должна быть хотя бы одна сущность"}, Validate(Document{Entities: []Entity{}}))
}

func TestValidate_ValidDocument(t *testing.T) {
	doc := shopDoc()
	assert.Empty(t, Validate(doc))
	assert.True(t, IsValid(doc))
}

func TestValidate_StructuralErrors(t *testing.T) {
	doc := Document{Entities: []Entity{
		{Name: "", Fields: []Field{{Name: "", Type: "String"}, {Name: "code"}}},
		{Name: "Item", Fields: []Field{{Name: "", Type: ""}}},
	}}
	assert.Equal(t, []string{
		"Сущность 1: имя обязательно",
		`Сущность "1", поле 1: имя обязательно`,
		`Сущность "1", поле "code": тип обязателен`,
		`Сущность "Item", поле 1: имя обязательно`,
		`Сущность "Item", поле "1": тип обязателен`,
	}, Validate(doc))
}

func TestValidate_PlainFieldTypes(t *testing.T) {
	doc := Document{Entities: []Entity{
		{Name: "Order", Fields: []Field{{Name: "ref", Type: "Order"}}},
	}}
	errs := Validate(doc)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `Сущность "Order", поле "ref": Некорректный тип "Order". Для простых полей`)
}

func TestValidate_ListRequiresRelation(t *testing.T) {
	withRel := Document{Entities: []Entity{
		{Name: "Foo", Fields: []Field{{Name: "items", Type: "List<Foo>", Relation: &Relation{TargetEntity: "Foo"}}}},
	}}
	assert.Empty(t, Validate(withRel))

	noRel := Document{Entities: []Entity{
		{Name: "Foo", Fields: []Field{{Name: "items", Type: "List<Foo>"}}},
	}}
	assert.Len(t, Validate(noRel), 1)
}

func TestValidate_TargetEntityMismatch(t *testing.T) {
	doc := Document{Entities: []Entity{
		{Name: "Customer"},
		{Name: "Order", Fields: []Field{
			{Name: "buyer", Type: "Customer", Relation: &Relation{TargetEntity: "CUSTOMER"}},
			{Name: "other", Type: "Customer", Relation: &Relation{TargetEntity: " Order "}},
			{Name: "many", Type: "Set<Customer>", Relation: &Relation{TargetEntity: "Product"}},
		}},
	}}
	assert.Equal(t, []string{
		`Сущность "Order", поле "other": targetEntity "Order" не соответствует типу поля "Customer"`,
		`Сущность "Order", поле "many": targetEntity "Product" не соответствует типу поля "Customer"`,
	}, Validate(doc))
}

func TestValidate_MissingTargetEntity(t *testing.T) {
	doc := Document{Entities: []Entity{
		{Name: "Customer", Fields: []Field{
			{Name: "self", Type: "Customer", Relation: &Relation{Type: ManyToOne}},
		}},
	}}
	assert.Equal(t, []string{
		`Сущность "Customer", поле "self": targetEntity обязателен для связанного поля`,
		`Сущность "Customer", поле "self": targetEntity "" не соответствует типу поля "Customer"`,
	}, Validate(doc))
}

func TestValidate_MismatchSkippedForBasicMapAndInvalid(t *testing.T) {
	doc := Document{Entities: []Entity{
		{Name: "Foo", Fields: []Field{
			{Name: "a", Type: "String", Relation: &Relation{TargetEntity: "Bar"}},
			{Name: "b", Type: "Map<String,Integer>", Relation: &Relation{TargetEntity: "Bar"}},
			{Name: "c", Type: "Bag<Integer>", Relation: &Relation{TargetEntity: "Bar"}},
		}},
	}}
	assert.Equal(t, []string{
		`Сущность "Foo", поле "c": Неизвестный контейнерный тип: Bag`,
	}, Validate(doc))
}

func TestValidate_MalformedContainers(t *testing.T) {
	doc := Document{Entities: []Entity{
		{Name: "Foo", Fields: []Field{
			{Name: "bag", Type: "Bag<Integer>", Relation: &Relation{TargetEntity: "Foo"}},
			{Name: "m", Type: "Map<Integer>", Relation: &Relation{TargetEntity: "Foo"}},
		}},
	}}
	errs := Validate(doc)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "Неизвестный контейнерный тип: Bag")
	assert.Contains(t, errs[1], "Для Map требуется два типа через запятую")
}

func TestValidate_Idempotent(t *testing.T) {
	doc := Document{Entities: []Entity{
		{Name: "", Fields: []Field{{Name: "x", Type: "Nope"}}},
		{Name: "Foo", Fields: []Field{{Name: "y", Type: "List<Foo>", Relation: &Relation{TargetEntity: "bar"}}}},
	}}
	first := Validate(doc)
	second := Validate(doc)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestValidate_RoundTrip(t *testing.T) {
	doc := shopDoc()
	require.Empty(t, Validate(doc))

	b, err := json.Marshal(doc)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, doc, back)
	assert.Empty(t, Validate(back))
}

func TestValidate_DecodesOriginalLayout(t *testing.T) {
	raw := `{
	  "entities": [
	    {"name": "User", "description": "", "fields": [
	      {"name": "login", "type": "String", "description": "", "required": true}
	    ]},
	    {"name": "Post", "fields": [
	      {"name": "author", "type": "User", "required": false,
	       "relation": {"type": "MANY_TO_ONE", "targetEntity": "user", "fetchType": "LAZY", "cascadeType": "PERSIST"}}
	    ]}
	  ]
	}`
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.NotNil(t, doc.Entities[1].Fields[0].Relation)
	assert.Equal(t, ManyToOne, doc.Entities[1].Fields[0].Relation.Type)
	assert.Empty(t, Validate(doc))
}

func TestValidate_NamesQuotedVerbatim(t *testing.T) {
	doc := Document{Entities: []Entity{
		{Name: `Say"Hi\`, Fields: []Field{
			{Name: `a"b`, Type: `Fo"o`},
			{Name: "owner", Type: `Say"Hi\`, Relation: &Relation{Type: ManyToOne, TargetEntity: `Other"`}},
		}},
	}}
	errs := Validate(doc)
	require.Len(t, errs, 2)
	assert.True(t, strings.HasPrefix(errs[0], `Сущность "Say"Hi\", поле "a"b": Некорректный тип "Fo"o". Для простых полей`), errs[0])
	assert.Equal(t, `Сущность "Say"Hi\", поле "owner": targetEntity "Other"" не соответствует типу поля "Say"Hi\"`, errs[1])
}
