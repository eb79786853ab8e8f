package entityconfig

// Document — entity-config: набор сущностей, который уходит генератору как есть.
type Document struct {
	Entities []Entity `json:"entities"`
}

// Entity описывает одну сущность документа
type Entity struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// Field описывает поле сущности
type Field struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"` // String, Order, List<Order>, Map<String,Integer> ...
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	Relation    *Relation `json:"relation,omitempty"`
}

// Relation — метаданные связи поля с другой сущностью
type Relation struct {
	Type         string `json:"type"`
	TargetEntity string `json:"targetEntity"`
	FetchType    string `json:"fetchType"`
	CascadeType  string `json:"cascadeType"`
}

const (
	OneToOne   = "ONE_TO_ONE"
	OneToMany  = "ONE_TO_MANY"
	ManyToOne  = "MANY_TO_ONE"
	ManyToMany = "MANY_TO_MANY"

	FetchLazy  = "LAZY"
	FetchEager = "EAGER"

	CascadePersist = "PERSIST"
	CascadeMerge   = "MERGE"
	CascadeRemove  = "REMOVE"
	CascadeRefresh = "REFRESH"
	CascadeDetach  = "DETACH"
	CascadeAll     = "ALL"
)

// порядок важен: он же попадает в текст ошибки
var basicTypes = []string{
	"String", "Integer", "Long", "Double", "Float", "Boolean",
	"LocalDate", "LocalDateTime", "LocalTime", "BigDecimal",
}

var containerTypes = []string{
	"List", "Set", "Collection", "ArrayList", "LinkedList",
	"HashSet", "TreeSet", "Map", "HashMap", "TreeMap",
}

var (
	RelationTypes = []string{OneToOne, OneToMany, ManyToOne, ManyToMany}
	FetchTypes    = []string{FetchLazy, FetchEager}
	CascadeTypes  = []string{CascadePersist, CascadeMerge, CascadeRemove, CascadeRefresh, CascadeDetach, CascadeAll}
)

// BasicTypes возвращает копию списка базовых типов.
func BasicTypes() []string { return append([]string(nil), basicTypes...) }

// ContainerTypes возвращает копию списка контейнеров.
func ContainerTypes() []string { return append([]string(nil), containerTypes...) }

func IsBasicType(s string) bool { return contains(basicTypes, s) }

func IsContainerType(s string) bool { return contains(containerTypes, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Clone делает глубокую копию документа (снимок для подписчиков редактора).
func (d Document) Clone() Document {
	if d.Entities == nil {
		return Document{}
	}
	out := Document{Entities: make([]Entity, len(d.Entities))}
	for i, e := range d.Entities {
		ce := e
		if e.Fields != nil {
			ce.Fields = make([]Field, len(e.Fields))
			for j, f := range e.Fields {
				cf := f
				if f.Relation != nil {
					r := *f.Relation
					cf.Relation = &r
				}
				ce.Fields[j] = cf
			}
		}
		out.Entities[i] = ce
	}
	return out
}
