package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"odontofast/internal/domain"
	"odontofast/internal/ml"
	"odontofast/internal/repository"
)

// ModelName identifica el artefacto del modelo de duración de tratamiento.
const ModelName = "TratamentoDuracao"

const (
	// Edad estimada cuando no hay fecha de nacimiento disponible.
	defaultPatientAge = 35.0
	// Tasa de adhesión asumida hasta que exista histórico real.
	defaultAdherenceRate = 0.95
)

// PredictDurationInput son los atributos del pedido de predicción.
type PredictDurationInput struct {
	UserID           int64
	TreatmentType    string
	Complexity       float64
	HasComorbidities bool
	HealthIndex      float64
}

// DurationPrediction es la respuesta de predicción de duración. ModelVersion
// queda vacío cuando la estimación vino de la tabla de valores por defecto en
// lugar del modelo.
type DurationPrediction struct {
	EstimatedWeeks         float64  `json:"duracao_estimada_semanas"`
	Message                string   `json:"mensagem_estimativa"`
	InitialRecommendations []string `json:"recomendacoes_iniciais"`
	ModelVersion           string   `json:"model_version,omitempty"`
}

// PredictorService predice la duración de tratamientos. Nunca devuelve error
// por problemas del modelo: si no se puede entrenar, cargar o inferir, cae a
// una estimación por tipo de tratamiento. El único error que propaga es
// ErrUserNotFound.
type PredictorService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	models      *ml.ModelManager
	trainer     *ml.Trainer
	samples     ml.SampleSource
	predictions repository.PredictionLogRepository // opcional; nil desactiva el registro

	mu     sync.Mutex
	engine *ml.Engine
}

func NewPredictorService(
	logger *zap.Logger,
	users repository.UserRepository,
	models *ml.ModelManager,
	trainer *ml.Trainer,
	samples ml.SampleSource,
	predictions repository.PredictionLogRepository,
) *PredictorService {
	return &PredictorService{
		logger:      logger,
		users:       users,
		models:      models,
		trainer:     trainer,
		samples:     samples,
		predictions: predictions,
	}
}

// PredictDuration valida el usuario, asegura un motor de inferencia y predice
// la duración. Cualquier falla del camino de modelo degrada a la estimativa
// padrão del tipo de tratamiento, nunca a un error.
func (s *PredictorService) PredictDuration(ctx context.Context, input PredictDurationInput) (DurationPrediction, error) {
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DurationPrediction{}, ErrUserNotFound
		}
		return DurationPrediction{}, err
	}

	patient := ml.PatientInput{
		Age:              defaultPatientAge,
		TreatmentType:    input.TreatmentType,
		Complexity:       input.Complexity,
		HasComorbidities: input.HasComorbidities,
		HealthIndex:      input.HealthIndex,
		AdherenceRate:    defaultAdherenceRate,
	}

	engine, ok := s.ensureEngine(ctx)
	if !ok {
		result := s.fallbackPrediction(input.TreatmentType)
		s.logPrediction(ctx, input, patient, result.EstimatedWeeks, "")
		return result, nil
	}

	weeks, err := engine.Predict(patient)
	if err != nil {
		s.logger.Error("prediction failed, serving default estimate",
			zap.String("model", ModelName),
			zap.Error(err),
		)
		result := s.fallbackPrediction(input.TreatmentType)
		s.logPrediction(ctx, input, patient, result.EstimatedWeeks, "")
		return result, nil
	}

	s.logPrediction(ctx, input, patient, weeks, engine.ModelVersion())

	return DurationPrediction{
		EstimatedWeeks:         weeks,
		Message:                durationMessage(weeks),
		InitialRecommendations: initialRecommendations(input.TreatmentType, weeks),
		ModelVersion:           engine.ModelVersion(),
	}, nil
}

// TrainModel entrena un modelo nuevo desde la fuente de muestras, lo persiste
// y recién entonces lo publica como motor activo. Devuelve false ante
// cualquier falla; el motor anterior sigue sirviendo.
func (s *PredictorService) TrainModel(ctx context.Context) bool {
	jobID := uuid.NewString()
	s.logger.Info("training duration model",
		zap.String("model", ModelName),
		zap.String("job_id", jobID),
	)

	samples := s.samples.Samples()
	model, r2, err := s.trainer.Train(samples)
	if err != nil {
		s.logger.Error("model training failed",
			zap.String("model", ModelName),
			zap.String("job_id", jobID),
			zap.Error(err),
		)
		return false
	}
	s.logger.Info("model trained",
		zap.String("model", ModelName),
		zap.String("job_id", jobID),
		zap.String("version", model.Version),
		zap.Float64("r2", r2),
	)

	if !s.models.Save(ModelName, model) {
		s.logger.Warn("trained model could not be saved",
			zap.String("model", ModelName),
			zap.String("job_id", jobID),
		)
		return false
	}

	engine, ok := s.models.CreateEngine(ModelName)
	if !ok {
		s.logger.Warn("engine creation failed after training",
			zap.String("model", ModelName),
			zap.String("job_id", jobID),
		)
		return false
	}

	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()

	s.logger.Info("prediction engine updated",
		zap.String("model", ModelName),
		zap.String("version", model.Version),
	)
	return true
}

// ensureEngine inicializa el motor de forma perezosa: primero intenta cargar
// un artefacto existente, si no hay ninguno entrena uno nuevo.
func (s *PredictorService) ensureEngine(ctx context.Context) (*ml.Engine, bool) {
	s.mu.Lock()
	engine := s.engine
	s.mu.Unlock()
	if engine != nil {
		return engine, true
	}

	if s.models.Exists(ModelName) {
		if !s.models.Load(ModelName) {
			s.logger.Warn("stored model could not be loaded", zap.String("model", ModelName))
			return nil, false
		}
		engine, ok := s.models.CreateEngine(ModelName)
		if !ok {
			return nil, false
		}
		s.mu.Lock()
		s.engine = engine
		s.mu.Unlock()
		return engine, true
	}

	s.logger.Warn("model not found, training a new one", zap.String("model", ModelName))
	if !s.TrainModel(ctx) {
		return nil, false
	}

	s.mu.Lock()
	engine = s.engine
	s.mu.Unlock()
	return engine, engine != nil
}

// logPrediction registra la predicción servida. Es best-effort: una falla se
// loguea y no afecta la respuesta.
func (s *PredictorService) logPrediction(ctx context.Context, input PredictDurationInput, patient ml.PatientInput, weeks float64, version string) {
	if s.predictions == nil {
		return
	}

	var features []float32
	if model, ok := s.models.GetLoaded(ModelName); ok {
		vec := model.Schema.Encode(patient)
		features = make([]float32, len(vec))
		for i, v := range vec {
			features[i] = float32(v)
		}
	}

	record := domain.PredictionRecord{
		ID:             uuid.NewString(),
		UserID:         input.UserID,
		TreatmentType:  input.TreatmentType,
		Features:       features,
		EstimatedWeeks: weeks,
		ModelVersion:   version,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.predictions.Create(ctx, record); err != nil {
		s.logger.Warn("prediction log write failed",
			zap.Int64("user_id", input.UserID),
			zap.Error(err),
		)
	}
}

// fallbackPrediction arma la respuesta con la duración por defecto del tipo
// de tratamiento.
func (s *PredictorService) fallbackPrediction(treatmentType string) DurationPrediction {
	weeks := defaultDurationWeeks(treatmentType)
	return DurationPrediction{
		EstimatedWeeks:         weeks,
		Message:                durationMessage(weeks),
		InitialRecommendations: initialRecommendations(treatmentType, weeks),
	}
}

// defaultDurationWeeks es la tabla de duraciones por defecto, en semanas.
func defaultDurationWeeks(treatmentType string) float64 {
	switch domain.NormalizeTreatment(treatmentType) {
	case "ortodontia":
		return 104
	case "implante":
		return 16
	case "canal":
		return 3
	case "limpeza":
		return 1
	case "clareamento":
		return 4
	default:
		return 12
	}
}

// durationMessage clasifica la duración en meses truncados: corta (<3),
// media (<6) o larga.
func durationMessage(weeks float64) string {
	months := int(weeks / 4)
	switch {
	case months < 3:
		return fmt.Sprintf("Tratamento de curta duração (aproximadamente %d meses)", months)
	case months < 6:
		return fmt.Sprintf("Tratamento de média duração (aproximadamente %d meses)", months)
	default:
		return fmt.Sprintf("Tratamento de longa duração (aproximadamente %d meses)", months)
	}
}

// initialRecommendations combina consejos universales, por tipo de
// tratamiento y de largo plazo cuando la duración supera las 12 semanas.
func initialRecommendations(treatmentType string, weeks float64) []string {
	recommendations := []string{
		"Manter boa higiene bucal com escovação após as refeições",
		"Seguir rigorosamente as orientações do dentista",
	}

	switch domain.NormalizeTreatment(treatmentType) {
	case "ortodontia":
		recommendations = append(recommendations,
			"Evitar alimentos duros ou pegajosos que possam danificar o aparelho",
			"Utilizar escovas específicas para aparelhos ortodônticos",
		)
	case "implante":
		recommendations = append(recommendations,
			"Evitar fumar durante o processo de cicatrização",
			"Seguir rigorosamente as medicações prescritas",
		)
	case "canal":
		recommendations = append(recommendations,
			"Evitar mastigar com o dente tratado até a restauração definitiva",
			"Seguir as recomendações de medicação para controle da dor",
		)
	default:
		recommendations = append(recommendations,
			"Comparecer a todas as consultas agendadas",
		)
	}

	if weeks > 12 {
		recommendations = append(recommendations,
			"Prepare-se para um tratamento de longo prazo com múltiplas visitas",
			"Considere agendar consultas com antecedência para garantir disponibilidade",
		)
	}
	return recommendations
}
