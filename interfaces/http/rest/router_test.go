package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"personawriter-backend/application/ports"
	"personawriter-backend/application/services"
	"personawriter-backend/domain/core/entities"
	"personawriter-backend/infrastructure/config"
	"personawriter-backend/infrastructure/di"
	"personawriter-backend/pkg/auth"
	"personawriter-backend/tests/fixtures"
)

const testSecret = "router-test-secret"

type testEnv struct {
	handler      http.Handler
	generator    *auth.JWTGenerator
	personaRepo  *fixtures.InMemoryPersonaRepository
	artifactRepo *fixtures.InMemoryArtifactRepository
	provider     *fixtures.StubProvider
	extractor    *fixtures.StubExtractor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Environment:    "test",
		DynamoDBTable:  "personawriter-test",
		IndexName:      "PersonaIndex",
		JWTSecret:      testSecret,
		JWTIssuer:      "personawriter-backend",
		JWTAudience:    "personawriter-api",
		MaxUploadBytes: 16 << 20,
	}

	jwtConfig := auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  []string{cfg.JWTAudience},
	}
	validator, err := auth.NewJWTValidator(jwtConfig)
	require.NoError(t, err)
	generator, err := auth.NewJWTGenerator(jwtConfig, time.Hour)
	require.NoError(t, err)

	logger := zap.NewNop()
	personaRepo := fixtures.NewInMemoryPersonaRepository()
	artifactRepo := fixtures.NewInMemoryArtifactRepository()
	provider := &fixtures.StubProvider{Response: "generated text"}
	extractor := &fixtures.StubExtractor{Text: "extracted text"}

	container := &di.Container{
		Config:       cfg,
		Logger:       logger,
		PersonaRepo:  personaRepo,
		ArtifactRepo: artifactRepo,
		Provider:     provider,
		Extractor:    extractor,
		Personas:     services.NewPersonaService(personaRepo, logger),
		Generation:   services.NewGenerationService(provider, artifactRepo, nil, logger),
		JWTValidator: validator,
	}

	return &testEnv{
		handler:      NewRouter(container).Setup(),
		generator:    generator,
		personaRepo:  personaRepo,
		artifactRepo: artifactRepo,
		provider:     provider,
		extractor:    extractor,
	}
}

func (env *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := env.generator.GenerateToken(userID, userID+"@example.com")
	require.NoError(t, err)
	return token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthEndpointsAreUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/health", "/ready"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestAPIRoutesRejectMissingToken(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/generate"},
		{http.MethodPost, "/saveGenerated"},
		{http.MethodGet, "/history"},
		{http.MethodDelete, "/history"},
		{http.MethodGet, "/personas"},
		{http.MethodPost, "/personas"},
		{http.MethodDelete, "/personas"},
		{http.MethodDelete, "/personas/some-id"},
		{http.MethodPost, "/uploadPdf"},
	}
	for _, route := range routes {
		rec := env.do(t, route.method, route.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)

		var resp map[string]string
		decodeJSON(t, rec, &resp)
		assert.Equal(t, "Unauthorized", resp["error"])
	}
}

func TestAPIRoutesRejectGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/history", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPersonaLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	rec := env.do(t, http.MethodPost, "/personas", token, map[string]string{
		"name":   "Ada",
		"tone":   "formal",
		"style":  "concise",
		"domain": "tech",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created entities.Persona
	decodeJSON(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, "Ada", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	rec = env.do(t, http.MethodGet, "/personas", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []entities.Persona
	decodeJSON(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "concise", listed[0].Style)

	rec = env.do(t, http.MethodDelete, "/personas/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Deleted", resp["message"])

	rec = env.do(t, http.MethodGet, "/personas", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var after []entities.Persona
	decodeJSON(t, rec, &after)
	assert.Empty(t, after)
}

func TestDeletePersonaByBody(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	rec := env.do(t, http.MethodPost, "/personas", token, map[string]string{"name": "Ada"})
	require.Equal(t, http.StatusOK, rec.Code)
	var created entities.Persona
	decodeJSON(t, rec, &created)

	rec = env.do(t, http.MethodDelete, "/personas", token, map[string]string{"id": created.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Deleted", resp["message"])
}

func TestDeletePersonaOwnedByAnotherUser(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.token(t, "owner")
	intruderToken := env.token(t, "intruder")

	rec := env.do(t, http.MethodPost, "/personas", ownerToken, map[string]string{"name": "Ada"})
	require.Equal(t, http.StatusOK, rec.Code)
	var created entities.Persona
	decodeJSON(t, rec, &created)

	rec = env.do(t, http.MethodDelete, "/personas/"+created.ID, intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Failed to delete", resp["error"])

	// Still visible to its owner.
	rec = env.do(t, http.MethodGet, "/personas", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []entities.Persona
	decodeJSON(t, rec, &listed)
	assert.Len(t, listed, 1)
}

func TestDeleteMissingPersona(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	rec := env.do(t, http.MethodDelete, "/personas/nope", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePersonaValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	rec := env.do(t, http.MethodPost, "/personas", token, map[string]string{"tone": "formal"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t)
	env.provider.Response = "three crisp tweets"
	token := env.token(t, "user-1")

	rec := env.do(t, http.MethodPost, "/generate", token, map[string]interface{}{
		"persona":  map[string]string{"name": "Ada", "tone": "formal", "style": "concise", "domain": "tech"},
		"template": "Tweet Thread",
		"topic":    "rust vs go",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "three crisp tweets", resp["result"])

	prompts := env.provider.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Tweet Thread")
	assert.Contains(t, prompts[0], "rust vs go")
	assert.Contains(t, prompts[0], "Ada")

	// Without the save flag nothing is persisted.
	assert.Equal(t, 0, env.artifactRepo.Count())
}

func TestGenerateWithSaveFlag(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	rec := env.do(t, http.MethodPost, "/generate", token, map[string]interface{}{
		"persona":  map[string]string{"name": "Ada"},
		"template": "Blog Post",
		"topic":    "observability",
		"save":     true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, env.artifactRepo.Count())

	rec = env.do(t, http.MethodGet, "/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []entities.Artifact
	decodeJSON(t, rec, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "observability", history[0].Topic)
	assert.Equal(t, "Blog Post", history[0].Template)
}

func TestGenerateValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	// Missing topic.
	rec := env.do(t, http.MethodPost, "/generate", token, map[string]interface{}{
		"persona":  map[string]string{"name": "Ada"},
		"template": "Blog Post",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.provider.Err = errors.New("upstream down")
	token := env.token(t, "user-1")

	rec := env.do(t, http.MethodPost, "/generate", token, map[string]interface{}{
		"persona":  map[string]string{"name": "Ada"},
		"template": "Blog Post",
		"topic":    "anything",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Failed to generate content", resp["error"])
	assert.Equal(t, 0, env.artifactRepo.Count())
}

func TestGenerateEmptyProviderAnswer(t *testing.T) {
	env := newTestEnv(t)
	env.provider.Err = ports.ErrNoContent
	token := env.token(t, "user-1")

	rec := env.do(t, http.MethodPost, "/generate", token, map[string]interface{}{
		"persona":  map[string]string{"name": "Ada"},
		"template": "Blog Post",
		"topic":    "anything",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, services.NoContentResult, resp["result"])
	assert.Equal(t, 0, env.artifactRepo.Count())
}

func TestSaveGeneratedAndHistory(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	rec := env.do(t, http.MethodPost, "/saveGenerated", token, map[string]interface{}{
		"persona":  map[string]string{"name": "Ada", "tone": "formal", "style": "concise", "domain": "tech"},
		"template": "Tweet Thread",
		"topic":    "rust vs go",
		"content":  "three crisp tweets",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var saved entities.Artifact
	decodeJSON(t, rec, &saved)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, "three crisp tweets", saved.Content)

	rec = env.do(t, http.MethodGet, "/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []entities.Artifact
	decodeJSON(t, rec, &history)
	require.Len(t, history, 1)
	assert.Equal(t, saved.ID, history[0].ID)
	assert.Equal(t, "rust vs go", history[0].Topic)
	assert.Equal(t, "Tweet Thread", history[0].Template)
	assert.Equal(t, "Ada", history[0].Persona.Name)
}

func TestHistoryIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	aliceToken := env.token(t, "alice")
	bobToken := env.token(t, "bob")

	save := func(token, topic string) {
		rec := env.do(t, http.MethodPost, "/saveGenerated", token, map[string]interface{}{
			"persona":  map[string]string{"name": "Ada"},
			"template": "Blog Post",
			"topic":    topic,
			"content":  "text",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	save(aliceToken, "alice topic")
	save(bobToken, "bob topic")

	rec := env.do(t, http.MethodGet, "/history", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []entities.Artifact
	decodeJSON(t, rec, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "alice topic", history[0].Topic)

	// Clearing alice's history leaves bob's intact.
	rec = env.do(t, http.MethodDelete, "/history", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Cleared", resp["message"])

	rec = env.do(t, http.MethodGet, "/history", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bobHistory []entities.Artifact
	decodeJSON(t, rec, &bobHistory)
	assert.Len(t, bobHistory, 1)
}

func TestUploadPDF(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.Text = "page one\n\n---\n\npage two"
	token := env.token(t, "user-1")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("pdf", "notes.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploadPdf", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, env.extractor.Text, resp["text"])
}

func TestUploadPDFWithoutFile(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("other", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploadPdf", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "No file uploaded", resp["error"])
}

func TestRejectsMalformedJSONBody(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
