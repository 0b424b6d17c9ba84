package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"peerreview-backend/database"
	"peerreview-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// IdempotencyStore persists first responses for replay.
type IdempotencyStore interface {
	// FindOrCreate returns the existing record for rec.Key, or stores rec
	// as pending and returns it. Must be race-safe under the unique key.
	FindOrCreate(rec *models.IdempotencyKey) (*models.IdempotencyKey, error)
	// SaveResponse records the completed response for the key.
	SaveResponse(key string, status int, body []byte) error
}

// Idempotency processes Idempotency-Key for mutating HTTP methods. A retried
// bulk submission with the same key replays the stored response instead of
// re-running the handler.
func Idempotency() fiber.Handler {
	return IdempotencyWithStore(gormIdempotencyStore{})
}

// IdempotencyWithStore is Idempotency with an injectable store.
func IdempotencyWithStore(store IdempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Idempotency-Key too long"})
		}

		companyID, _ := c.Locals("companyID").(string)
		employeeID, _ := c.Locals("employeeID").(string)
		if companyID == "" || employeeID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "auth context missing"})
		}

		path := c.OriginalURL() // includes query string
		body := c.Body()

		// Build deterministic request hash: method|path|body|company|employee
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(companyID))
		h.Write([]byte{'\n'})
		h.Write([]byte(employeeID))
		reqHash := hex.EncodeToString(h.Sum(nil))

		existing, err := store.FindOrCreate(&models.IdempotencyKey{
			Key:            key,
			RequestHash:    reqHash,
			Method:         method,
			Path:           path,
			CompanyId:      companyID,
			EmployeeId:     employeeID,
			ResponseStatus: 0,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
		}

		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			// Replay the stored first response; the handler must not run again.
			c.Status(existing.ResponseStatus)
			return c.Send(existing.ResponseBody)
		}

		// Pending/in-progress: run the handler once.
		if err := c.Next(); err != nil {
			return err
		}

		// Store the response (best-effort; never breaks the live response).
		status := c.Response().StatusCode()
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		if err := store.SaveResponse(key, status, blob); err != nil {
			log.Printf("idempotency response not stored for key %s: %v", key, err)
		}
		return nil
	}
}

// gormIdempotencyStore backs the middleware with the shared database.
type gormIdempotencyStore struct{}

func (gormIdempotencyStore) FindOrCreate(rec *models.IdempotencyKey) (*models.IdempotencyKey, error) {
	var existing models.IdempotencyKey
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", rec.Key).First(&existing).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			// Not found -> create "pending"; a unique race means someone
			// else just created it, so read theirs.
			if e2 := tx.Create(rec).Error; e2 != nil {
				return tx.Where("key = ?", rec.Key).First(&existing).Error
			}
			existing = *rec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (gormIdempotencyStore) SaveResponse(key string, status int, body []byte) error {
	now := time.Now().UTC()
	return database.DB.Model(&models.IdempotencyKey{}).
		Where("key = ?", key).
		Updates(map[string]any{
			"response_status": status,
			"response_body":   body,
			"completed_at":    &now,
		}).Error
}
