// Package clienttest — поддельная платформа генерации на gin для тестов клиента и API.
package clienttest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Frame — одно SSE-событие, которое платформа отдаст в поток.
type Frame struct {
	Event string
	Data  any
}

// StoredSave — сохранение так, как его получила платформа.
type StoredSave struct {
	ID           int64
	Name         string
	ProjectID    int64
	EntityConfig []byte
	AppConfig    []byte
	EntityFile   string
	AppFile      string
}

type project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
}

type Platform struct {
	mu       sync.Mutex
	key      []byte
	projects []project
	members  map[int64][]string
	saves    map[int64]*StoredSave
	nextID   int64

	// Frames — сценарий потока генерации; Archive — zip для download.
	Frames  []Frame
	Archive []byte
	// Requests — "METHOD path" всех запросов по порядку.
	Requests []string
	onCreateSave func(StoredSave)

	srv *httptest.Server
}

// New поднимает платформу; закрывается через t.Cleanup.
func New(t testing.TB) *Platform {
	t.Helper()
	gin.SetMode(gin.TestMode)
	p := &Platform{
		key:     []byte("clienttest"),
		members: map[int64][]string{},
		saves:   map[int64]*StoredSave{},
		Archive: []byte("PK\x05\x06" + strings.Repeat("\x00", 18)),
	}
	p.srv = httptest.NewServer(p.router())
	t.Cleanup(p.srv.Close)
	return p
}

func (p *Platform) URL() string { return p.srv.URL }

// Token выписывает подписанный токен с sub=username.
func (p *Platform) Token(username string) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": username}).SignedString(p.key)
	if err != nil {
		panic(err)
	}
	return tok
}

func (p *Platform) SetFrames(frames ...Frame) {
	p.mu.Lock()
	p.Frames = frames
	p.mu.Unlock()
}

// OnCreateSave: fn вызывается после создания сохранения, до ответа клиенту.
func (p *Platform) OnCreateSave(fn func(StoredSave)) {
	p.mu.Lock()
	p.onCreateSave = fn
	p.mu.Unlock()
}

// SaveByID — копия сохранения или nil.
func (p *Platform) SaveByID(id int64) *StoredSave {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.saves[id]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

func (p *Platform) SeedSave(s StoredSave) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	s.ID = p.nextID
	p.saves[s.ID] = &s
	return s.ID
}

func (p *Platform) Seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Requests...)
}

func (p *Platform) router() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		p.mu.Lock()
		p.Requests = append(p.Requests, c.Request.Method+" "+c.Request.URL.Path)
		p.mu.Unlock()
		c.Next()
	})

	r.GET("/auth/login", func(c *gin.Context) {
		email := c.Query("email")
		if email == "" || c.Query("password") == "" {
			c.String(http.StatusUnauthorized, "Неверный email или пароль")
			return
		}
		c.String(http.StatusOK, p.Token(strings.Split(email, "@")[0]))
	})
	r.GET("/auth/register", func(c *gin.Context) {
		if c.Query("username") == "" {
			c.String(http.StatusBadRequest, "username обязателен")
			return
		}
		c.String(http.StatusOK, p.Token(c.Query("username")))
	})

	auth := r.Group("/", p.requireAuth)
	auth.POST("/project/save", p.createProject)
	auth.GET("/project/all", p.listProjects)
	auth.GET("/project/joined", func(c *gin.Context) { c.JSON(http.StatusOK, []project{}) })
	auth.GET("/project", p.projectByName)

	auth.POST("/team", p.addMember)
	auth.GET("/team", p.listMembers)
	auth.DELETE("/team", p.removeMember)

	auth.GET("/project-saves/get-all/:id", p.listSaves)
	auth.GET("/project-saves/get/:id", p.getSave)
	auth.GET("/project-saves/config/:id", p.saveConfig)
	auth.POST("/project-saves/save", p.createSave)
	auth.PUT("/project-saves/update/:id", p.updateSave)
	auth.DELETE("/project-saves/delete/:id", p.deleteSave)
	auth.GET("/project-saves/download-entity/:id", p.downloadPart(true))
	auth.GET("/project-saves/download-app/:id", p.downloadPart(false))

	auth.POST("/jarch/generate-project/from-saving/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": "job-" + c.Param("id")})
	})
	auth.GET("/jarch/generate-project/stream/:id", p.stream)
	auth.GET("/jarch/generate-project/download/:id", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/zip", p.Archive)
	})
	return r
}

func (p *Platform) requireAuth(c *gin.Context) {
	tok := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if tok == "" {
		tok = c.Query("token")
	}
	parsed, err := jwt.Parse(tok, func(*jwt.Token) (any, error) { return p.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	sub, _ := parsed.Claims.GetSubject()
	c.Set("user", sub)
	c.Next()
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "bad id")
		return 0, false
	}
	return id, true
}

func (p *Platform) createProject(c *gin.Context) {
	var in project
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == "" {
		c.String(http.StatusBadRequest, "Название проекта обязательно")
		return
	}
	p.mu.Lock()
	p.nextID++
	in.ID = p.nextID
	in.Owner = c.GetString("user")
	p.projects = append(p.projects, in)
	p.mu.Unlock()
	c.Status(http.StatusOK)
}

func (p *Platform) listProjects(c *gin.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []project{}
	for _, pr := range p.projects {
		if pr.Owner == c.GetString("user") {
			out = append(out, pr)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (p *Platform) projectByName(c *gin.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pr := range p.projects {
		if pr.Name == c.Query("projectName") {
			c.JSON(http.StatusOK, pr)
			return
		}
	}
	c.String(http.StatusNotFound, "Проект не найден")
}

func queryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("projectId"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "projectId обязателен")
		return 0, false
	}
	return id, true
}

func (p *Platform) addMember(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var in struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Username == "" {
		c.String(http.StatusBadRequest, "username обязателен")
		return
	}
	p.mu.Lock()
	p.members[id] = append(p.members[id], in.Username)
	p.mu.Unlock()
	c.Status(http.StatusOK)
}

func (p *Platform) listMembers(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []gin.H{}
	for i, u := range p.members[id] {
		out = append(out, gin.H{"id": i + 1, "username": u})
	}
	c.JSON(http.StatusOK, out)
}

func (p *Platform) removeMember(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.members[id][:0]
	for _, u := range p.members[id] {
		if u != c.Query("teamMember") {
			kept = append(kept, u)
		}
	}
	p.members[id] = kept
	c.Status(http.StatusNoContent)
}

func (p *Platform) listSaves(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []gin.H{}
	for sid := int64(1); sid <= p.nextID; sid++ {
		if s, ok := p.saves[sid]; ok && s.ProjectID == id {
			out = append(out, gin.H{"id": s.ID, "name": s.Name})
		}
	}
	c.JSON(http.StatusOK, out)
}

func (p *Platform) lookup(c *gin.Context) (*StoredSave, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	p.mu.Lock()
	s, found := p.saves[id]
	p.mu.Unlock()
	if !found {
		c.String(http.StatusNotFound, "Сохранение не найдено")
		return nil, false
	}
	return s, true
}

func (p *Platform) getSave(c *gin.Context) {
	if s, ok := p.lookup(c); ok {
		c.JSON(http.StatusOK, gin.H{"id": s.ID, "name": s.Name})
	}
}

func (p *Platform) saveConfig(c *gin.Context) {
	s, ok := p.lookup(c)
	if !ok {
		return
	}
	body := `{"entityConfig":` + orNull(s.EntityConfig) + `,"appConfig":` + orNull(s.AppConfig) + `}`
	c.Data(http.StatusOK, "application/json", []byte(body))
}

func orNull(b []byte) string {
	if len(b) == 0 {
		return "null"
	}
	return string(b)
}

func readForm(c *gin.Context, s *StoredSave) bool {
	for _, part := range []struct {
		field string
		data  *[]byte
		name  *string
	}{
		{"entityConfig", &s.EntityConfig, &s.EntityFile},
		{"appConfig", &s.AppConfig, &s.AppFile},
	} {
		fh, err := c.FormFile(part.field)
		if err != nil {
			c.String(http.StatusBadRequest, part.field+" обязателен")
			return false
		}
		f, err := fh.Open()
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return false
		}
		b, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return false
		}
		*part.data = b
		*part.name = fh.Filename
	}
	return true
}

func (p *Platform) createSave(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.PostForm("projectId"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "projectId обязателен")
		return
	}
	s := &StoredSave{Name: c.PostForm("saveName"), ProjectID: projectID}
	if !readForm(c, s) {
		return
	}
	p.mu.Lock()
	p.nextID++
	s.ID = p.nextID
	p.saves[s.ID] = s
	hook := p.onCreateSave
	p.mu.Unlock()
	if hook != nil {
		hook(*s)
	}
	c.JSON(http.StatusOK, gin.H{"id": s.ID, "name": s.Name})
}

func (p *Platform) updateSave(c *gin.Context) {
	s, ok := p.lookup(c)
	if !ok {
		return
	}
	upd := *s
	upd.Name = c.PostForm("saveName")
	if !readForm(c, &upd) {
		return
	}
	p.mu.Lock()
	p.saves[s.ID] = &upd
	p.mu.Unlock()
	// как и настоящая платформа — пустой ответ
	c.Status(http.StatusOK)
}

func (p *Platform) deleteSave(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p.mu.Lock()
	delete(p.saves, id)
	p.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (p *Platform) downloadPart(entity bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := p.lookup(c)
		if !ok {
			return
		}
		if entity {
			c.Data(http.StatusOK, "application/json", s.EntityConfig)
			return
		}
		c.Data(http.StatusOK, "application/json", s.AppConfig)
	}
}

func (p *Platform) stream(c *gin.Context) {
	p.mu.Lock()
	frames := append([]Frame(nil), p.Frames...)
	p.mu.Unlock()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	for _, f := range frames {
		c.SSEvent(f.Event, f.Data)
		c.Writer.Flush()
	}
}
