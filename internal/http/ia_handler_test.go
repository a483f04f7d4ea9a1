package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"odontofast/internal/domain"
	"odontofast/internal/ml"
	"odontofast/internal/service"
)

type mockUserRepo struct {
	users map[int64]domain.User
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[int64]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	user.ID = int64(len(m.users) + 1)
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

type emptySamples struct{}

func (emptySamples) Samples() []ml.Sample { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, *service.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	users := newMockUserRepo(domain.User{ID: 1, Name: "Ana", Email: "ana@example.com"})

	manager, err := ml.NewModelManager(logger, t.TempDir())
	if err != nil {
		t.Fatalf("NewModelManager: %v", err)
	}
	// Fuente vacía: las predicciones usan la tabla por defecto, suficiente
	// para probar el contrato HTTP sin entrenar.
	predictor := service.NewPredictorService(logger, users, manager, ml.NewTrainer(logger), emptySamples{}, nil)
	recommender := service.NewRecommenderService(logger, users)
	jwtServ := service.NewJWTService("secreto-de-prueba", time.Minute)
	limiter := service.NewMemoryTrainRateLimiter(time.Minute, 1)

	userH := NewUserHandler(logger, service.NewUserService(logger, users), jwtServ)
	imageH := NewUserImageHandler(logger, service.NewUserImageService(logger, newMockImageRepo(), users))
	iaH := NewIAHandler(logger, predictor, recommender, limiter)

	return NewRouter(logger, jwtServ, userH, imageH, iaH), jwtServ
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredictDurationEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/ia/prever-tratamento", gin.H{
		"id_usuario":      1,
		"tipo_tratamento": "Canal",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		EstimatedWeeks float64  `json:"duracao_estimada_semanas"`
		Message        string   `json:"mensagem_estimativa"`
		Recs           []string `json:"recomendacoes_iniciais"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.EstimatedWeeks != 3 {
		t.Fatalf("weeks = %v; want 3", resp.EstimatedWeeks)
	}
	if resp.Message == "" || len(resp.Recs) == 0 {
		t.Fatalf("incomplete response: %+v", resp)
	}
}

func TestPredictDurationUnknownUser(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/ia/prever-tratamento", gin.H{
		"id_usuario":      99,
		"tipo_tratamento": "Canal",
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
}

func TestPredictDurationBadRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/ia/prever-tratamento", gin.H{
		"id_usuario": 1,
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
}

func TestRecommendEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/ia/recomendar", gin.H{
		"id_usuario":      1,
		"tipo_tratamento": "Ortodontia",
		"progresso_atual": 0.5,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Care      []string `json:"recomendacoes_cuidados"`
		NextSteps []string `json:"recomendacoes_proximas_etapas"`
		Message   string   `json:"mensagem_personalizada"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Care) == 0 || len(resp.NextSteps) == 0 || resp.Message == "" {
		t.Fatalf("incomplete response: %+v", resp)
	}
}

func TestRecommendUnknownUser(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/ia/recomendar", gin.H{
		"id_usuario":      99,
		"tipo_tratamento": "Canal",
		"progresso_atual": 0.5,
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
}

func TestTrainModelRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/ia/treinar-modelo-duracao", gin.H{}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401", w.Code)
	}
}

func TestTrainModelRateLimited(t *testing.T) {
	router, jwtServ := newTestRouter(t)

	token, err := jwtServ.GenerateAccessToken(domain.User{ID: 1, Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	headers := map[string]string{"Authorization": "Bearer " + token.Token}

	// El entrenamiento falla (fuente vacía) pero consume cuota igual.
	first := postJSON(t, router, "/api/ia/treinar-modelo-duracao", gin.H{}, headers)
	if first.Code != http.StatusInternalServerError {
		t.Fatalf("first status = %d; want 500", first.Code)
	}
	second := postJSON(t, router, "/api/ia/treinar-modelo-duracao", gin.H{}, headers)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d; want 429", second.Code)
	}
}
