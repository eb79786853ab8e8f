package entityconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events    []string
	snapshots []Document
	valid     []bool
	errs      [][]string
}

func (r *recorder) opts() []EditorOption {
	return []EditorOption{
		OnChange(func(d Document) {
			r.events = append(r.events, "change")
			r.snapshots = append(r.snapshots, d)
		}),
		OnValidationChange(func(ok bool, errs []string) {
			r.events = append(r.events, "validate")
			r.valid = append(r.valid, ok)
			r.errs = append(r.errs, errs)
		}),
	}
}

func TestEditor_InitialValidation(t *testing.T) {
	rec := &recorder{}
	ed := NewEditor(Document{}, rec.opts()...)

	assert.Equal(t, []string{"validate"}, rec.events)
	assert.False(t, ed.Valid())
	assert.Equal(t, []string{"Должна быть хотя бы одна сущность"}, ed.Errors())
}

func TestEditor_AddEntityAndFields(t *testing.T) {
	rec := &recorder{}
	ed := NewEditor(Document{}, rec.opts()...)
	rec.events = nil

	ed.AddEntity()
	assert.Equal(t, []string{"change", "validate"}, rec.events)
	assert.True(t, ed.Valid())
	assert.Equal(t, "Entity1", ed.Document().Entities[0].Name)

	require.NoError(t, ed.AddField(0, false))
	require.NoError(t, ed.AddField(0, true))

	doc := ed.Document()
	require.Len(t, doc.Entities[0].Fields, 2)
	assert.Equal(t, Field{Name: "field1", Type: "String"}, doc.Entities[0].Fields[0])

	rel := doc.Entities[0].Fields[1]
	assert.Equal(t, "field2", rel.Name)
	assert.Equal(t, "Entity1", rel.Type)
	require.NotNil(t, rel.Relation)
	assert.Equal(t, Relation{Type: ManyToOne, TargetEntity: "entity1", FetchType: FetchLazy, CascadeType: CascadePersist}, *rel.Relation)
	assert.True(t, ed.Valid(), ed.Errors())

	assert.Len(t, rec.snapshots, 3)
	assert.Equal(t, doc, rec.snapshots[2])
}

func TestEditor_OutOfRange(t *testing.T) {
	rec := &recorder{}
	ed := NewEditor(Document{}, rec.opts()...)
	rec.events = nil

	assert.ErrorIs(t, ed.AddField(3, false), ErrIndexOutOfRange)
	assert.ErrorIs(t, ed.UpdateField(0, 0, func(*Field) {}), ErrIndexOutOfRange)
	assert.ErrorIs(t, ed.RemoveEntity(0), ErrIndexOutOfRange)
	assert.Empty(t, rec.events)
}

func TestEditor_UpdateAndRemove(t *testing.T) {
	ed := NewEditor(shopDoc())
	require.True(t, ed.Valid())

	require.NoError(t, ed.UpdateField(1, 1, func(f *Field) { f.Relation.TargetEntity = "Product" }))
	assert.False(t, ed.Valid())
	assert.Contains(t, ed.Errors()[0], `targetEntity "Product"`)

	require.NoError(t, ed.RemoveField(1, 1))
	assert.True(t, ed.Valid(), ed.Errors())

	require.NoError(t, ed.UpdateEntity(0, func(e *Entity) { e.Name = "" }))
	assert.Contains(t, ed.Errors(), "Сущность 1: имя обязательно")

	require.NoError(t, ed.RemoveEntity(0))
	require.NoError(t, ed.RemoveEntity(0))
	assert.Equal(t, []string{"Должна быть хотя бы одна сущность"}, ed.Errors())
}

func TestEditor_SnapshotsAreIsolated(t *testing.T) {
	ed := NewEditor(shopDoc())
	snap := ed.Document()
	snap.Entities[0].Fields[1].Relation.TargetEntity = "changed"

	assert.Equal(t, "order", ed.Document().Entities[0].Fields[1].Relation.TargetEntity)
}

func TestEditor_Replace(t *testing.T) {
	rec := &recorder{}
	ed := NewEditor(Document{}, rec.opts()...)
	ed.Replace(shopDoc())

	assert.True(t, ed.Valid())
	assert.Equal(t, []bool{false, true}, rec.valid)
}

func TestSuggestTypes(t *testing.T) {
	doc := Document{Entities: []Entity{{Name: "Order"}}}
	assert.Equal(t, BasicTypes(), SuggestTypes(doc, false))

	s := SuggestTypes(doc, true)
	assert.Contains(t, s, "Order")
	assert.Contains(t, s, "List<Order>")
	for _, typ := range s {
		assert.True(t, ResolveType(typ, true, KnownEntityNames(doc)).Valid(), typ)
	}
}

func TestEditor_PanicInUpdateKeepsEditorUsable(t *testing.T) {
	rec := &recorder{}
	ed := NewEditor(shopDoc(), rec.opts()...)
	rec.events = nil

	assert.ErrorIs(t, ed.UpdateField(0, 0, nil), ErrNilUpdate)
	assert.ErrorIs(t, ed.UpdateEntity(0, nil), ErrNilUpdate)

	assert.Panics(t, func() {
		_ = ed.UpdateEntity(0, func(*Entity) { panic("boom") })
	})
	assert.Empty(t, rec.events)
	assert.Equal(t, shopDoc(), ed.Document(), "document unchanged after panic")

	require.NoError(t, ed.UpdateEntity(0, func(e *Entity) { e.Description = "after" }))
	assert.Equal(t, "after", ed.Document().Entities[0].Description)
}
