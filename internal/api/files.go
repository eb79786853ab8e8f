package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"jarch/internal/client"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GET /api/generate/:saveId/stream
// Запускает генерацию на платформе и ретранслирует её поток событий.
// На zipReady архив сначала скачивается в BlobStore, клиент получает его id.
func GenerateStreamHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		saveID, ok := paramInt64(c, "saveId")
		if !ok {
			return
		}
		if storage.Blob == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "blob store not configured"})
			return
		}

		ctx := c.Request.Context()
		corr := uuid.NewString()
		c.Header("X-Correlation-ID", corr)

		job, err := storage.Platform.GenerateFromSave(ctx, saveID)
		if err != nil {
			platformError(c, err)
			return
		}
		events, err := storage.Platform.Stream(ctx, job)
		if err != nil {
			platformError(c, err)
			return
		}
		log.Printf("[%s] generation job %s for save %d", corr, job, saveID)

		c.Header("Cache-Control", "no-cache")
		c.Stream(func(w io.Writer) bool {
			ev, ok := <-events
			if !ok {
				return false
			}
			switch ev.Type {
			case client.EventLog:
				c.SSEvent(client.EventLog, gin.H{"level": ev.Level, "message": ev.Message})
				return true
			case client.EventZipReady:
				a, err := storeArchive(ctx, storage, corr, saveID, job)
				if err != nil {
					log.Printf("[%s] archive: %v", corr, err)
					c.SSEvent(client.EventError, gin.H{"message": client.ConnectionLost, "detail": err.Error()})
					return false
				}
				c.SSEvent(client.EventZipReady, gin.H{
					"archiveId": a.ID,
					"url":       "/api/archives/" + a.ID,
					"size":      a.Size,
					"sha256":    a.SHA256,
				})
				return false
			default:
				log.Printf("[%s] generation failed: %s", corr, ev.Detail)
				c.SSEvent(client.EventError, gin.H{"message": ev.Message, "detail": ev.Detail})
				return false
			}
		})
	}
}

func storeArchive(ctx context.Context, storage *Storage, id string, saveID int64, job string) (*Archive, error) {
	pr, pw := io.Pipe()
	go func() {
		_, err := storage.Platform.Download(ctx, job, pw)
		pw.CloseWithError(err)
	}()

	key, size, sum, err := storage.Blob.Put(NewBlobKey(".zip"), pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	a := Archive{
		ID:        id,
		SaveID:    saveID,
		JobID:     job,
		BlobKey:   key,
		FileName:  fmt.Sprintf("project-%d.zip", saveID),
		Size:      size,
		SHA256:    sum,
		CreatedAt: time.Now().UTC(),
	}
	storage.AddArchive(a)
	return &a, nil
}

// GET /api/archives
func ListArchivesHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		storage.mu.RLock()
		out := make([]Archive, 0, len(storage.Archives))
		for _, a := range storage.Archives {
			out = append(out, *a)
		}
		storage.mu.RUnlock()
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/archives/:id
func DownloadArchiveHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := storage.GetArchive(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Archive not found"})
			return
		}
		if storage.Blob == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "blob store not configured"})
			return
		}
		p, err := storage.Blob.Path(a.BlobKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Type", "application/zip")
		c.FileAttachment(p, a.FileName)
	}
}

// DELETE /api/archives/:id
func DeleteArchiveHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := storage.RemoveArchive(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Archive not found"})
			return
		}
		if storage.Blob != nil {
			if err := storage.Blob.Delete(a.BlobKey); err != nil {
				log.Printf("archive %s: delete blob: %v", a.ID, err)
			}
		}
		c.Status(http.StatusNoContent)
	}
}
