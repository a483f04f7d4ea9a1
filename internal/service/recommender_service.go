package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"odontofast/internal/domain"
	"odontofast/internal/repository"
)

// RecommendationInput son los atributos del pedido de recomendaciones.
// Progress es la fracción completada del tratamiento, en [0,1].
type RecommendationInput struct {
	UserID        int64
	TreatmentType string
	Progress      float64
}

// RecommendationBundle agrupa cuidados, próximas etapas y el mensaje
// personalizado.
type RecommendationBundle struct {
	Care      []string `json:"recomendacoes_cuidados"`
	NextSteps []string `json:"recomendacoes_proximas_etapas"`
	Message   string   `json:"mensagem_personalizada"`
}

// RecommenderService genera recomendaciones por tipo de tratamiento y
// estágio. Las reglas viven en las tablas de decisión de
// recommender_tables.go; el servicio solo resuelve el estágio, consulta las
// tablas y arma el mensaje.
type RecommenderService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewRecommenderService(logger *zap.Logger, users repository.UserRepository) *RecommenderService {
	return &RecommenderService{logger: logger, users: users}
}

// Recommend valida el usuario y arma el paquete de recomendaciones. Un
// usuario inexistente devuelve ErrUserNotFound; cualquier otra falla degrada
// al paquete genérico, nunca a un error.
func (s *RecommenderService) Recommend(ctx context.Context, input RecommendationInput) (RecommendationBundle, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RecommendationBundle{}, ErrUserNotFound
		}
		s.logger.Error("user lookup failed, serving generic recommendations",
			zap.Int64("user_id", input.UserID),
			zap.Error(err),
		)
		return genericBundle(), nil
	}

	stage := domain.StageFor(input.Progress)
	key := recKey{treatment: domain.NormalizeTreatment(input.TreatmentType), stage: stage}

	care := append(append([]string{}, careBase...), lookupRows(careTable, careDefault, key)...)
	next := append(append([]string{}, nextStepsBase...), lookupRows(nextStepsTable, nextStepsDefault, key)...)

	return RecommendationBundle{
		Care:      care,
		NextSteps: next,
		Message:   personalizedMessage(user.Name, input.TreatmentType, stage, input.Progress),
	}, nil
}

// lookupRows devuelve la fila de la tabla o la fila por defecto si el
// tratamiento no tiene reglas propias.
func lookupRows(table map[recKey][]string, fallback []string, key recKey) []string {
	if rows, ok := table[key]; ok {
		return rows
	}
	return fallback
}

// personalizedMessage compone saludo, cuerpo por estágio y cierre por tipo.
// Solo el estágio intermedio menciona el porcentaje de progreso.
func personalizedMessage(name, treatmentType string, stage domain.TreatmentStage, progress float64) string {
	greeting := fmt.Sprintf("Olá, %s! ", name)

	var body string
	switch stage {
	case domain.StageInitial:
		body = fmt.Sprintf(
			"Você está dando os primeiros passos no seu tratamento de %s. "+
				"É importante manter a disciplina desde o início para obter os melhores resultados.",
			treatmentType,
		)
	case domain.StageIntermediate:
		body = fmt.Sprintf(
			"Você já alcançou %.0f%% do seu tratamento de %s! "+
				"Continue com o bom trabalho e mantenha a constância nos cuidados recomendados.",
			progress*100,
			treatmentType,
		)
	default:
		body = fmt.Sprintf(
			"Você está muito próximo de concluir seu tratamento de %s! "+
				"Esta fase final é crucial para garantir resultados duradouros.",
			treatmentType,
		)
	}

	closing, ok := closingTable[domain.NormalizeTreatment(treatmentType)]
	if !ok {
		closing = closingDefault
	}
	return greeting + body + " " + closing
}

func genericBundle() RecommendationBundle {
	return RecommendationBundle{
		Care:      append([]string{}, genericCare...),
		NextSteps: append([]string{}, genericNextSteps...),
		Message:   genericMessage,
	}
}
