package config

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	Port      string `json:"port"`
	APIBase   string `json:"apiBase"`   // адрес платформы (шлюз)
	TokenFile string `json:"tokenFile"` // где хранить токен между запусками; "" — только в памяти
	EnumsDir  string `json:"enumsDir"`  // переопределения справочников поверх встроенных

	// Локальное хранилище архивов генерации
	FilesRoot string `json:"filesRoot"`

	// Postgres для применения превью DDL (пусто — применение выключено)
	DBURL  string `json:"dbUrl"`
	Schema string `json:"schema"`
}

func def() Config {
	return Config{
		Port:      "3000",
		APIBase:   "http://localhost:8080",
		TokenFile: defaultTokenFile(),
		EnumsDir:  "",
		FilesRoot: "archives",
		DBURL:     "",
		Schema:    "public",
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jarch", "token")
}

func loadJSON(path string, c Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// FromFileAndEnv — значения по умолчанию, затем JSON (если файл есть), затем ENV.
func FromFileAndEnv(jsonPath string) (Config, error) {
	cfg := def()

	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		c2, err := loadJSON(jsonPath, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = c2
	}

	cfg.Port = getenv("JARCH_PORT", cfg.Port)
	cfg.APIBase = getenv("JARCH_API_BASE", cfg.APIBase)
	cfg.TokenFile = getenv("JARCH_TOKEN_FILE", cfg.TokenFile)
	cfg.EnumsDir = getenv("JARCH_ENUMS_DIR", cfg.EnumsDir)
	cfg.FilesRoot = getenv("JARCH_FILES_ROOT", cfg.FilesRoot)
	cfg.DBURL = getenv("JARCH_DB_URL", cfg.DBURL)
	cfg.Schema = getenv("JARCH_SCHEMA", cfg.Schema)
	return cfg, nil
}

// Load: JSON -> ENV -> флаги из args. Флаг -config перечитывает конфиг из другого файла.
func Load(jsonPath string, args []string) (Config, error) {
	cfg, err := FromFileAndEnv(jsonPath)
	if err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("jarch", flag.ContinueOnError)
	configPath := fs.String("config", jsonPath, "Path to config JSON")
	port := fs.String("port", cfg.Port, "HTTP port")
	apiBase := fs.String("api", cfg.APIBase, "Platform API base URL")
	token := fs.String("token-file", cfg.TokenFile, "Token file (empty = memory only)")
	enums := fs.String("enums", cfg.EnumsDir, "Enum overrides directory (empty = embedded only)")
	files := fs.String("files-root", cfg.FilesRoot, "Local archives root")
	db := fs.String("db", cfg.DBURL, "Postgres URL for DDL apply (empty = disabled)")
	schema := fs.String("schema", cfg.Schema, "Postgres schema for DDL")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	// Если через флаг передали другой конфиг — перечитаем
	if *configPath != jsonPath {
		return Load(*configPath, args)
	}

	cfg.Port = strings.TrimSpace(*port)
	cfg.APIBase = strings.TrimRight(strings.TrimSpace(*apiBase), "/")
	cfg.TokenFile = strings.TrimSpace(*token)
	cfg.EnumsDir = strings.TrimSpace(*enums)
	cfg.FilesRoot = strings.TrimSpace(*files)
	cfg.DBURL = strings.TrimSpace(*db)
	cfg.Schema = strings.TrimSpace(*schema)
	return cfg, nil
}

// LoadWithPath — Load по аргументам процесса.
func LoadWithPath(jsonPath string) (Config, error) {
	return Load(jsonPath, os.Args[1:])
}
