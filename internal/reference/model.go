package reference

// EnumDirectory описывает один справочник типа enum
type EnumDirectory struct {
	Name  string     `yaml:"name" json:"name"`
	Items []EnumItem `yaml:"items" json:"items"`
}

type EnumItem struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// порядок показа в редакторе
	Order int `yaml:"order,omitempty" json:"order,omitempty"`
}

// Catalog — справочники по имени (FieldType, RelationType, BuildTool ...)
type Catalog map[string]EnumDirectory

// Имена справочников, которые знает консоль
const (
	FieldType        = "FieldType"
	ContainerType    = "ContainerType"
	RelationType     = "RelationType"
	FetchType        = "FetchType"
	CascadeType      = "CascadeType"
	BuildTool        = "BuildTool"
	PropertiesFormat = "PropertiesFormat"
	DatabaseType     = "DatabaseType"
	DDLAuto          = "DDLAuto"
)

// Codes возвращает коды справочника в порядке Order (при равенстве — как в файле).
func (c Catalog) Codes(name string) []string {
	dir, ok := c[name]
	if !ok {
		return nil
	}
	items := append([]EnumItem(nil), dir.Items...)
	sortItems(items)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Code)
	}
	return out
}

// Has: ok=false, если справочника нет вовсе.
func (c Catalog) Has(name, code string) (found, ok bool) {
	dir, ok := c[name]
	if !ok {
		return false, false
	}
	for _, it := range dir.Items {
		if it.Code == code {
			return true, true
		}
	}
	return false, true
}

// Merge: справочники other перекрывают одноимённые целиком.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
