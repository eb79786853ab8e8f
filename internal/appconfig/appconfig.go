// Package appconfig — второй документ сохранения: параметры генерируемого приложения.
package appconfig

import (
	"fmt"
	"strings"

	"jarch/internal/reference"
)

type Document struct {
	BasePackage      string   `json:"basePackage"`
	ApplicationName  string   `json:"applicationName"`
	BuildTool        string   `json:"buildTool"`
	PropertiesFormat string   `json:"propertiesFormat"`
	ServerPort       int      `json:"serverPort"`
	Database         Database `json:"database"`
}

type Database struct {
	Type         string `json:"type"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DDLAuto      string `json:"ddlAuto"`
	PoolSize     int    `json:"poolSize"`
}

// Default — заготовка, с которой открывается редактор.
func Default() Document {
	return Document{
		BuildTool:        "MAVEN",
		PropertiesFormat: "YAML",
		ServerPort:       8080,
		Database: Database{
			Type:     "POSTGRESQL",
			Host:     "localhost",
			Port:     5432,
			DDLAuto:  "update",
			PoolSize: 10,
		},
	}
}

// Validate возвращает список ошибок; пустой список — документ валиден.
// catalog может быть nil — тогда значения перечислений не сверяются.
func Validate(doc Document, catalog reference.Catalog) []string {
	var errs []string
	required := func(v, name string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, name+" обязателен")
		}
	}
	port := func(v int, name string) {
		if v <= 0 {
			errs = append(errs, name+" должен быть положительным числом")
		}
		if v > 65535 {
			errs = append(errs, name+" должен быть меньше 65535")
		}
	}
	enum := func(v, name, dir string) {
		if v == "" || catalog == nil {
			return
		}
		if found, ok := catalog.Has(dir, v); ok && !found {
			errs = append(errs, fmt.Sprintf("%s: недопустимое значение %q (допустимо: %s)",
				name, v, strings.Join(catalog.Codes(dir), ", ")))
		}
	}

	required(doc.BasePackage, "basePackage")
	required(doc.ApplicationName, "applicationName")
	required(doc.BuildTool, "buildTool")
	enum(doc.BuildTool, "buildTool", reference.BuildTool)
	required(doc.PropertiesFormat, "propertiesFormat")
	enum(doc.PropertiesFormat, "propertiesFormat", reference.PropertiesFormat)
	port(doc.ServerPort, "serverPort")

	db := doc.Database
	required(db.Type, "database.type")
	enum(db.Type, "database.type", reference.DatabaseType)
	required(db.Host, "database.host")
	port(db.Port, "database.port")
	required(db.DatabaseName, "database.databaseName")
	required(db.Username, "database.username")
	enum(db.DDLAuto, "database.ddlAuto", reference.DDLAuto)
	if db.PoolSize < 1 {
		errs = append(errs, "database.poolSize должен быть минимум 1")
	}
	return errs
}
