package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Типы событий потока генерации
const (
	EventLog      = "log"
	EventZipReady = "zipReady"
	EventError    = "error"
)

// ConnectionLost — сообщение, с которым поток закрывается при обрыве.
const ConnectionLost = "Ошибка подключения к потоку логов"

// Event — одно событие потока. Для log заполнены Level и Message;
// для error Message всегда ConnectionLost, а Detail — то, что прислал сервер.
type Event struct {
	Type    string `json:"type"`
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

const generatePrefix = "/jarch/generate-project"

// GenerateFromSave запускает генерацию из сохранения и возвращает id задания.
func (c *Client) GenerateFromSave(ctx context.Context, saveID int64) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, savePath(generatePrefix+"/from-saving/", saveID), nil, nil)
	if err != nil {
		return "", err
	}
	var text string
	if err := c.do(req, &text); err != nil {
		return "", err
	}
	id := jobID(text)
	if id == "" {
		return "", errors.New("generation: empty job id")
	}
	return id, nil
}

// jobID: сервер отдаёт либо {"id": ...}, либо голую строку.
func jobID(text string) string {
	var obj struct {
		ID json.RawMessage `json:"id"`
	}
	if strings.HasPrefix(text, "{") && json.Unmarshal([]byte(text), &obj) == nil && len(obj.ID) > 0 {
		return textValue(obj.ID)
	}
	return strings.TrimSpace(text)
}

// Stream открывает SSE-поток задания. Канал закрывается после zipReady,
// после единственного события error, либо по отмене ctx. Переподключений нет.
func (c *Client) Stream(ctx context.Context, jobID string) (<-chan Event, error) {
	// EventSource не умеет заголовки, поэтому токен уходит в query
	tok := c.session.Token()
	if tok == "" {
		return nil, ErrNotAuthenticated
	}
	q := url.Values{"token": {tok}}
	req, err := c.newRequest(ctx, http.MethodGet, generatePrefix+"/stream/"+url.PathEscape(jobID), q, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient().Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Body: string(b)}
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		readStream(ctx, resp.Body, out)
	}()
	return out, nil
}

// streamClient — тот же транспорт, но без общего таймаута: поток живёт сколько нужно.
func (c *Client) streamClient() *http.Client {
	hc := *c.http
	hc.Timeout = 0
	return &hc
}

func readStream(ctx context.Context, body io.Reader, out chan<- Event) {
	send := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var name string
	var data []string

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if len(data) == 0 && name == "" {
				continue
			}
			ev, final := toEvent(name, strings.Join(data, "\n"))
			name, data = "", nil
			if ev == nil {
				continue
			}
			if !send(*ev) || final {
				return
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue // комментарий / keep-alive
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}
	if ctx.Err() != nil {
		return
	}
	// поток закончился без zipReady: обрыв или ошибка чтения
	send(Event{Type: EventError, Message: ConnectionLost})
}

// toEvent: final=true — после этого события поток закрывается.
func toEvent(name, data string) (*Event, bool) {
	switch name {
	case EventZipReady:
		return &Event{Type: EventZipReady}, true
	case EventError:
		return &Event{Type: EventError, Message: ConnectionLost, Detail: strings.TrimSpace(data)}, true
	case EventLog, "":
		var payload struct {
			Level   string `json:"level"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			// не JSON — отдаём как info, поток не рвём
			return &Event{Type: EventLog, Level: "info", Message: data}, false
		}
		if payload.Level == "" {
			payload.Level = "info"
		}
		return &Event{Type: EventLog, Level: payload.Level, Message: payload.Message}, false
	default:
		return nil, false
	}
}

// Download пишет zip-архив задания в w.
func (c *Client) Download(ctx context.Context, jobID string, w io.Writer) (int64, error) {
	n, err := c.download(ctx, generatePrefix+"/download/"+url.PathEscape(jobID), w)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", jobID, err)
	}
	return n, nil
}
