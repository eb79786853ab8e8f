package reference

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed enums/*.yaml
var embedded embed.FS

// Default — встроенные справочники консоли.
func Default() Catalog {
	c, err := loadFS(embedded, "enums")
	if err != nil {
		// встроенные файлы проверяются тестами
		panic(fmt.Sprintf("reference: embedded enums: %v", err))
	}
	return c
}

// LoadEnumCatalog читает все enum-справочники из папки dir (*.yaml, *.yml)
func LoadEnumCatalog(dir string) (Catalog, error) {
	return loadFS(os.DirFS(dir), ".")
}

// Load — встроенные справочники, перекрытые файлами из dir (если dir задан).
func Load(dir string) (Catalog, error) {
	base := Default()
	if strings.TrimSpace(dir) == "" {
		return base, nil
	}
	over, err := LoadEnumCatalog(dir)
	if err != nil {
		return nil, fmt.Errorf("enums %s: %w", dir, err)
	}
	return base.Merge(over), nil
}

func loadFS(fsys fs.FS, dir string) (Catalog, error) {
	result := make(Catalog)
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if file.IsDir() || !(strings.HasSuffix(file.Name(), ".yaml") || strings.HasSuffix(file.Name(), ".yml")) {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, file.Name())))
		if err != nil {
			return nil, err
		}
		var enumDir EnumDirectory
		if err := yaml.Unmarshal(data, &enumDir); err != nil {
			return nil, fmt.Errorf("%s: %w", file.Name(), err)
		}
		// Имя справочника — из enumDir.Name или из имени файла
		enumName := enumDir.Name
		if enumName == "" {
			enumName = strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
			enumDir.Name = enumName
		}
		result[enumName] = enumDir
	}
	return result, nil
}

func sortItems(items []EnumItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
}
