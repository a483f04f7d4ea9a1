package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"

	"odontofast/internal/domain"
)

type mockImageRepo struct {
	images map[int64]domain.UserImage
}

func newMockImageRepo() *mockImageRepo {
	return &mockImageRepo{images: make(map[int64]domain.UserImage)}
}

func (m *mockImageRepo) GetByUserID(_ context.Context, userID int64) (domain.UserImage, error) {
	image, ok := m.images[userID]
	if !ok {
		return domain.UserImage{}, pgx.ErrNoRows
	}
	return image, nil
}

func (m *mockImageRepo) Create(_ context.Context, image domain.UserImage) error {
	m.images[image.UserID] = image
	return nil
}

func (m *mockImageRepo) Update(_ context.Context, image domain.UserImage) (bool, error) {
	if _, ok := m.images[image.UserID]; !ok {
		return false, nil
	}
	m.images[image.UserID] = image
	return true, nil
}

func (m *mockImageRepo) Delete(_ context.Context, userID int64) (bool, error) {
	if _, ok := m.images[userID]; !ok {
		return false, nil
	}
	delete(m.images, userID)
	return true, nil
}

func (m *mockImageRepo) Exists(_ context.Context, userID int64) (bool, error) {
	_, ok := m.images[userID]
	return ok, nil
}

func TestCreateUserEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/usuarios", map[string]any{
		"nome_usuario":  "Bruno",
		"email_usuario": "bruno@example.com",
		"senha_usuario": "segredo123",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			ID    int64  `json:"id_usuario"`
			Name  string `json:"nome_usuario"`
			Email string `json:"email_usuario"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.User.ID == 0 || resp.User.Email != "bruno@example.com" {
		t.Fatalf("user = %+v", resp.User)
	}
	// El hash de la password nunca viaja en la respuesta.
	if body := w.Body.String(); json.Valid([]byte(body)) && containsField(body, "senha_usuario") {
		t.Fatalf("response leaks password field: %s", body)
	}
}

func TestCreateUserBadRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/usuarios", map[string]any{
		"nome_usuario": "SinEmail",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
}

func TestGetUserEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/usuarios/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", w.Code, w.Body.String())
	}

	missing := httptest.NewRequest(http.MethodGet, "/api/usuarios/99", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, missing)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	created := postJSON(t, router, "/api/usuarios", map[string]any{
		"nome_usuario":  "Carla",
		"email_usuario": "carla@example.com",
		"senha_usuario": "segredo123",
	}, nil)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d", created.Code)
	}

	w := postJSON(t, router, "/api/auth/login", map[string]any{
		"email_usuario": "carla@example.com",
		"senha_usuario": "segredo123",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token struct {
			Token string `json:"access_token"`
		} `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Token.Token == "" {
		t.Fatal("login without access token")
	}

	bad := postJSON(t, router, "/api/auth/login", map[string]any{
		"email_usuario": "carla@example.com",
		"senha_usuario": "errada",
	}, nil)
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401", bad.Code)
	}
}

func TestImageEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	created := postJSON(t, router, "/api/imagens", map[string]any{
		"id_usuario":  1,
		"caminho_img": "/img/perfil.png",
	}, nil)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d; body = %s", created.Code, created.Body.String())
	}

	conflict := postJSON(t, router, "/api/imagens", map[string]any{
		"id_usuario":  1,
		"caminho_img": "/img/otra.png",
	}, nil)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("conflict status = %d; want 409", conflict.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/imagens/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/imagens/1/exists", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("exists status = %d", w.Code)
	}
	var exists struct {
		Has bool `json:"possui_imagem"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &exists); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !exists.Has {
		t.Fatal("possui_imagem = false after create")
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/imagens/1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/imagens/1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d; want 404", w.Code)
	}
}

func containsField(body, field string) bool {
	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return false
	}
	return fieldInValue(m, field)
}

func fieldInValue(v any, field string) bool {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			if k == field || fieldInValue(inner, field) {
				return true
			}
		}
	case []any:
		for _, inner := range val {
			if fieldInValue(inner, field) {
				return true
			}
		}
	}
	return false
}
