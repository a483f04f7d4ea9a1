package domain

import (
	"strings"
	"time"
)

// Tipos de tratamiento conocidos. Los valores son los que viajan por la API
// y los que el modelo vio durante el entrenamiento; la comparación siempre
// es case-insensitive.
const (
	TreatmentOrtodontia  = "Ortodontia"
	TreatmentImplante    = "Implante"
	TreatmentCanal       = "Canal"
	TreatmentLimpeza     = "Limpeza"
	TreatmentClareamento = "Clareamento"
)

// NormalizeTreatment lleva un tipo de tratamiento a su forma canónica en
// minúsculas, usada como clave en las tablas de decisión.
func NormalizeTreatment(treatmentType string) string {
	return strings.ToLower(strings.TrimSpace(treatmentType))
}

// TreatmentStage discretiza el progreso de un tratamiento.
type TreatmentStage string

const (
	StageInitial      TreatmentStage = "inicial"
	StageIntermediate TreatmentStage = "intermediário"
	StageFinal        TreatmentStage = "final"
)

// StageFor clasifica un progreso en [0,1] según los umbrales fijos
// 0.25 y 0.75 (inclusivos hacia arriba).
func StageFor(progress float64) TreatmentStage {
	switch {
	case progress < 0.25:
		return StageInitial
	case progress < 0.75:
		return StageIntermediate
	default:
		return StageFinal
	}
}

// PredictionRecord es una predicción servida, registrada para análisis y
// como futura fuente de datos de entrenamiento reales.
type PredictionRecord struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"id_usuario"`
	TreatmentType  string    `json:"tipo_tratamento"`
	Features       []float32 `json:"features"`
	EstimatedWeeks float64   `json:"duracao_estimada_semanas"`
	ModelVersion   string    `json:"model_version"`
	CreatedAt      time.Time `json:"created_at"`
}
