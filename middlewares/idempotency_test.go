package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"peerreview-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memIdempotencyStore struct {
	records map[string]*models.IdempotencyKey
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{records: make(map[string]*models.IdempotencyKey)}
}

func (s *memIdempotencyStore) FindOrCreate(rec *models.IdempotencyKey) (*models.IdempotencyKey, error) {
	if existing, ok := s.records[rec.Key]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *rec
	s.records[rec.Key] = &cp
	out := cp
	return &out, nil
}

func (s *memIdempotencyStore) SaveResponse(key string, status int, body []byte) error {
	if rec, ok := s.records[key]; ok {
		rec.ResponseStatus = status
		rec.ResponseBody = body
	}
	return nil
}

// newIdempotencyApp mounts the middleware in front of a handler that counts
// its invocations, behind a stub identity.
func newIdempotencyApp(store IdempotencyStore, calls *int) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("employeeID", "emp-1")
		c.Locals("companyID", "company-1")
		return c.Next()
	})
	app.Use(IdempotencyWithStore(store))
	app.Post("/submit", func(c *fiber.Ctx) error {
		*calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"attempt": *calls})
	})
	return app
}

func postWithKey(t *testing.T, app *fiber.App, key, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	calls := 0
	app := newIdempotencyApp(newMemIdempotencyStore(), &calls)

	status, first := postWithKey(t, app, "key-1", `{"users":["a"]}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1, calls)

	// The retry must replay the stored first response without re-running
	// the handler.
	status, second := postWithKey(t, app, "key-1", `{"users":["a"]}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyKeyReuseWithDifferentRequestConflicts(t *testing.T) {
	calls := 0
	app := newIdempotencyApp(newMemIdempotencyStore(), &calls)

	status, _ := postWithKey(t, app, "key-1", `{"users":["a"]}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = postWithKey(t, app, "key-1", `{"users":["b"]}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyWithoutKeyRunsEveryTime(t *testing.T) {
	calls := 0
	app := newIdempotencyApp(newMemIdempotencyStore(), &calls)

	postWithKey(t, app, "", `{"users":["a"]}`)
	postWithKey(t, app, "", `{"users":["a"]}`)
	assert.Equal(t, 2, calls)
}
