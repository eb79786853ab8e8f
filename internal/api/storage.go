package api

import (
	"database/sql"
	"errors"
	"io"
	"math/rand"
	"sync"
	"time"

	"jarch/internal/appconfig"
	"jarch/internal/client"
	"jarch/internal/entityconfig"
	"jarch/internal/reference"

	"github.com/oklog/ulid/v2"
)

var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrVersionConflict = errors.New("version conflict")
)

// Draft — локальная копия пары документов, которую редактирует консоль.
// SaveID != 0 — черновик уже опубликован как сохранение на платформе.
type Draft struct {
	ID           string                `json:"id"`
	Version      int64                 `json:"version"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Name         string                `json:"name"`
	ProjectID    int64                 `json:"projectId,omitempty"`
	SaveID       int64                 `json:"saveId,omitempty"`
	EntityConfig entityconfig.Document `json:"entityConfig"`
	AppConfig    appconfig.Document    `json:"appConfig"`
}

func (d *Draft) clone() *Draft {
	cp := *d
	cp.EntityConfig = d.EntityConfig.Clone()
	return &cp
}

// Archive — zip, полученный от платформы и сохранённый в BlobStore.
type Archive struct {
	ID        string    `json:"id"`
	SaveID    int64     `json:"saveId"`
	JobID     string    `json:"jobId"`
	BlobKey   string    `json:"-"`
	FileName  string    `json:"fileName"`
	Size      int64     `json:"size"`
	SHA256    string    `json:"sha256"`
	CreatedAt time.Time `json:"created_at"`
}

type Storage struct {
	mu       sync.RWMutex
	Drafts   map[string]*Draft
	Archives map[string]*Archive
	Enums    reference.Catalog // справочники (встроенные + переопределения)
	EnumsDir string

	Blob     BlobStore
	Platform *client.Client // nil — публикация и генерация недоступны

	// Postgres для применения DDL (nil — выключено)
	DB     *sql.DB
	Schema string

	entropy io.Reader
}

// NewStorage — пустое хранилище черновиков со справочниками.
func NewStorage(enumCatalog reference.Catalog) *Storage {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Storage{
		Drafts:   make(map[string]*Draft),
		Archives: make(map[string]*Archive),
		Enums:    enumCatalog,
		Schema:   "public",
		entropy:  ulid.Monotonic(src, 0),
	}
}

// newID вызывается под write-lock: Monotonic entropy не потокобезопасна.
func (s *Storage) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *Storage) catalog() reference.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Enums
}

func (s *Storage) CreateDraft(d Draft) *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	d.ID = s.newID()
	d.Version = 1
	d.CreatedAt = now
	d.UpdatedAt = now
	d.EntityConfig = d.EntityConfig.Clone()
	s.Drafts[d.ID] = &d
	return d.clone()
}

func (s *Storage) GetDraft(id string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.Drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d.clone(), nil
}

// ListDrafts — копии всех черновиков в порядке создания (ULID сортируется по времени).
func (s *Storage) ListDrafts() []*Draft {
	s.mu.RLock()
	out := make([]*Draft, 0, len(s.Drafts))
	for _, d := range s.Drafts {
		out = append(out, d.clone())
	}
	s.mu.RUnlock()
	sortDrafts(out, []SortKey{{Field: "id"}})
	return out
}

// UpdateDraft применяет fn к копии, если версия совпала; версия растёт на 1.
func (s *Storage) UpdateDraft(id string, expVersion int64, fn func(*Draft)) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.Drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if cur.Version != expVersion {
		return cur.clone(), ErrVersionConflict
	}
	next := cur.clone()
	fn(next)
	// служебные поля не трогаем
	next.ID, next.CreatedAt = cur.ID, cur.CreatedAt
	next.Version = cur.Version + 1
	next.UpdatedAt = time.Now().UTC()
	s.Drafts[id] = next
	return next.clone(), nil
}

// SetSaveID привязывает черновик к сохранению на платформе без проверки версии:
// сохранение уже создано, потерять его id нельзя. Версия растёт на 1.
func (s *Storage) SetSaveID(id string, saveID int64) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.Drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	next := cur.clone()
	next.SaveID = saveID
	next.Version = cur.Version + 1
	next.UpdatedAt = time.Now().UTC()
	s.Drafts[id] = next
	return next.clone(), nil
}

func (s *Storage) DeleteDraft(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.Drafts, id)
	return nil
}

func (s *Storage) AddArchive(a Archive) {
	s.mu.Lock()
	s.Archives[a.ID] = &a
	s.mu.Unlock()
}

func (s *Storage) GetArchive(id string) (*Archive, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.Archives[id]
	if !ok {
		return nil, false
	}
	cp := *a
	return &cp, true
}

func (s *Storage) RemoveArchive(id string) (*Archive, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Archives[id]
	if ok {
		delete(s.Archives, id)
	}
	return a, ok
}
