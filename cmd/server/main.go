package main

import (
	"context"
	"fmt"
	"log"

	"jarch/internal/api"
	"jarch/internal/client"
	"jarch/internal/config"
	"jarch/internal/pg"
	"jarch/internal/reference"
)

func main() {
	cfg, err := config.LoadWithPath("jarch.json")
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	// 1. Справочники: встроенные + переопределения из каталога
	enumCatalog, err := reference.Load(cfg.EnumsDir)
	if err != nil {
		log.Fatalf("Ошибка загрузки enum-справочников: %v", err)
	}
	if issues := api.CatalogLint(enumCatalog); len(issues) > 0 {
		for _, it := range issues {
			log.Printf("enum %s: %s", it.Enum, it.Message)
		}
		log.Fatalf("Справочники содержат %d ошибок", len(issues))
	}
	fmt.Printf("Загружено enum-справочников: %d\n", len(enumCatalog))

	// 2. Хранилище черновиков и архивов
	storage := api.NewStorage(enumCatalog)
	storage.EnumsDir = cfg.EnumsDir
	storage.Schema = cfg.Schema
	storage.Blob = &api.LocalBlobStore{Root: cfg.FilesRoot}

	// 3. Клиент платформы; токен переживает перезапуск, если задан tokenFile
	session, err := client.NewSession(cfg.TokenFile)
	if err != nil {
		log.Fatalf("Ошибка чтения токена: %v", err)
	}
	storage.Platform = client.New(cfg.APIBase, session)
	if u := session.Username(); u != "" {
		fmt.Printf("Сессия платформы: %s\n", u)
	}

	// 4. Postgres — только для применения DDL
	if cfg.DBURL != "" {
		db, err := pg.Open(context.Background(), cfg.DBURL)
		if err != nil {
			log.Fatalf("Ошибка подключения к БД: %v", err)
		}
		defer db.Close()
		storage.DB = db
	}

	fmt.Printf("Стартуем консоль jarch на :%s (платформа %s)...\n", cfg.Port, cfg.APIBase)
	if err := api.RunServer(":"+cfg.Port, storage); err != nil {
		log.Fatalf("server: %v", err)
	}
}
