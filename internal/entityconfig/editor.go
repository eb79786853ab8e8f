package entityconfig

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNilUpdate       = errors.New("update func is nil")
)

// Editor держит документ одной сессии редактирования.
// После каждой успешной мутации: сначала OnChange(снимок), затем OnValidationChange.
type Editor struct {
	mu         sync.Mutex
	doc        Document
	errs       []string
	onChange   func(Document)
	onValidate func(valid bool, errs []string)
}

type EditorOption func(*Editor)

func OnChange(fn func(Document)) EditorOption {
	return func(e *Editor) { e.onChange = fn }
}

func OnValidationChange(fn func(valid bool, errs []string)) EditorOption {
	return func(e *Editor) { e.onValidate = fn }
}

// NewEditor валидирует начальный документ и сразу сообщает результат (как при монтировании редактора).
func NewEditor(doc Document, opts ...EditorOption) *Editor {
	e := &Editor{doc: doc.Clone()}
	for _, o := range opts {
		o(e)
	}
	e.errs = Validate(e.doc)
	if e.onValidate != nil {
		e.onValidate(len(e.errs) == 0, append([]string(nil), e.errs...))
	}
	return e
}

func (e *Editor) Document() Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

func (e *Editor) Errors() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.errs...)
}

func (e *Editor) Valid() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errs) == 0
}

// Replace подменяет документ целиком (загрузка сохранения).
func (e *Editor) Replace(doc Document) {
	e.mutate(func(d *Document) error {
		*d = doc.Clone()
		return nil
	})
}

// AddEntity добавляет сущность Entity<N> без полей.
func (e *Editor) AddEntity() {
	e.mutate(func(d *Document) error {
		d.Entities = append(d.Entities, Entity{
			Name:   fmt.Sprintf("Entity%d", len(d.Entities)+1),
			Fields: []Field{},
		})
		return nil
	})
}

// AddField добавляет поле field<N>. С withRelation поле сразу ссылается на первую известную сущность.
func (e *Editor) AddField(entityIndex int, withRelation bool) error {
	return e.mutate(func(d *Document) error {
		if entityIndex < 0 || entityIndex >= len(d.Entities) {
			return fmt.Errorf("entity %d: %w", entityIndex, ErrIndexOutOfRange)
		}
		ent := &d.Entities[entityIndex]
		f := Field{
			Name: fmt.Sprintf("field%d", len(ent.Fields)+1),
			Type: "String",
		}
		if withRelation {
			known := KnownEntityNames(*d)
			f.Type = "Entity"
			target := "entity"
			if len(known) > 0 {
				f.Type = known[0]
				target = strings.ToLower(known[0])
			}
			f.Relation = &Relation{
				Type:         ManyToOne,
				TargetEntity: target,
				FetchType:    FetchLazy,
				CascadeType:  CascadePersist,
			}
		}
		ent.Fields = append(ent.Fields, f)
		return nil
	})
}

// UpdateField применяет fn к полю.
func (e *Editor) UpdateField(entityIndex, fieldIndex int, fn func(*Field)) error {
	if fn == nil {
		return ErrNilUpdate
	}
	return e.mutate(func(d *Document) error {
		f, err := fieldAt(d, entityIndex, fieldIndex)
		if err != nil {
			return err
		}
		fn(f)
		return nil
	})
}

// UpdateEntity применяет fn к сущности (имя, описание).
func (e *Editor) UpdateEntity(entityIndex int, fn func(*Entity)) error {
	if fn == nil {
		return ErrNilUpdate
	}
	return e.mutate(func(d *Document) error {
		if entityIndex < 0 || entityIndex >= len(d.Entities) {
			return fmt.Errorf("entity %d: %w", entityIndex, ErrIndexOutOfRange)
		}
		fn(&d.Entities[entityIndex])
		return nil
	})
}

func (e *Editor) RemoveEntity(entityIndex int) error {
	return e.mutate(func(d *Document) error {
		if entityIndex < 0 || entityIndex >= len(d.Entities) {
			return fmt.Errorf("entity %d: %w", entityIndex, ErrIndexOutOfRange)
		}
		d.Entities = append(d.Entities[:entityIndex], d.Entities[entityIndex+1:]...)
		return nil
	})
}

func (e *Editor) RemoveField(entityIndex, fieldIndex int) error {
	return e.mutate(func(d *Document) error {
		if _, err := fieldAt(d, entityIndex, fieldIndex); err != nil {
			return err
		}
		ent := &d.Entities[entityIndex]
		ent.Fields = append(ent.Fields[:fieldIndex], ent.Fields[fieldIndex+1:]...)
		return nil
	})
}

func fieldAt(d *Document, ei, fi int) (*Field, error) {
	if ei < 0 || ei >= len(d.Entities) {
		return nil, fmt.Errorf("entity %d: %w", ei, ErrIndexOutOfRange)
	}
	fields := d.Entities[ei].Fields
	if fi < 0 || fi >= len(fields) {
		return nil, fmt.Errorf("entity %d field %d: %w", ei, fi, ErrIndexOutOfRange)
	}
	return &fields[fi], nil
}

// mutate работает на копии: при ошибке документ и подписчики не трогаются.
// Колбэки вызываются вне блокировки.
func (e *Editor) mutate(fn func(*Document) error) error {
	snapshot, errs, err := e.commit(fn)
	if err != nil {
		return err
	}
	// подписчики задаются только в NewEditor
	if e.onChange != nil {
		e.onChange(snapshot)
	}
	if e.onValidate != nil {
		e.onValidate(len(errs) == 0, errs)
	}
	return nil
}

// commit: fn под блокировкой; паника в fn не оставляет редактор запертым.
func (e *Editor) commit(fn func(*Document) error) (Document, []string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.doc.Clone()
	if err := fn(&next); err != nil {
		return Document{}, nil, err
	}
	e.doc = next
	e.errs = Validate(next)
	return next.Clone(), append([]string(nil), e.errs...), nil
}

// SuggestTypes — допустимые варианты типа для поля (подсказки редактора).
func SuggestTypes(doc Document, hasRelation bool) []string {
	out := BasicTypes()
	if !hasRelation {
		return out
	}
	for _, n := range KnownEntityNames(doc) {
		out = append(out, n, "List<"+n+">", "Set<"+n+">")
	}
	return out
}
