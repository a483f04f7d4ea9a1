package ml

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Model es el artefacto entrenado: árbol + esquema de columnas usado al
// entrenar, más metadatos de versión.
type Model struct {
	Schema    FeatureSchema   `json:"schema"`
	Tree      *RegressionTree `json:"tree"`
	Version   string          `json:"version"`
	TrainedAt time.Time       `json:"trained_at"`
}

// Predict codifica la entrada con el esquema del modelo y ejecuta la
// inferencia. Falla si el vector no coincide con la disposición entrenada;
// nunca desalinea columnas en silencio.
func (m *Model) Predict(in PatientInput) (float64, error) {
	if m == nil || m.Tree == nil {
		return 0, ErrNotFitted
	}
	vec := m.Schema.Encode(in)
	if expected := m.Tree.FeatureCount(); expected > len(vec) {
		return 0, ErrFeatureMismatch
	}
	return m.Tree.Predict(vec)
}

// Trainer ajusta el modelo de duración de tratamiento.
type Trainer struct {
	logger   *zap.Logger
	maxDepth int
	minLeaf  int
}

func NewTrainer(logger *zap.Logger) *Trainer {
	return &Trainer{logger: logger, maxDepth: 6, minLeaf: 5}
}

// Train ejecuta el pipeline completo: columna de etiqueta, vocabulario
// one-hot, coerción de booleanos, concatenación de features, ajuste del
// árbol y R² sobre el set de entrenamiento (solo observabilidad, no
// aceptación). Cualquier falla aborta el intento; no queda modelo parcial.
func (t *Trainer) Train(samples []Sample) (*Model, float64, error) {
	if len(samples) == 0 {
		return nil, 0, errors.New("no training samples")
	}

	labels := make([]float64, len(samples))
	for i, sample := range samples {
		labels[i] = sample.DurationWeeks
	}

	schema := schemaFromSamples(samples)
	features := make([][]float64, len(samples))
	for i, sample := range samples {
		features[i] = schema.Encode(PatientInput{
			Age:              sample.Age,
			TreatmentType:    sample.TreatmentType,
			Complexity:       sample.Complexity,
			HasComorbidities: sample.HasComorbidities,
			HealthIndex:      sample.HealthIndex,
			AdherenceRate:    sample.AdherenceRate,
		})
	}

	tree := &RegressionTree{}
	if err := tree.Fit(features, labels, t.maxDepth, t.minLeaf); err != nil {
		return nil, 0, err
	}

	r2 := rSquared(tree, features, labels)
	if t.logger != nil {
		t.logger.Info("model trained",
			zap.Int("samples", len(samples)),
			zap.Int("features", schema.FeatureCount()),
			zap.Float64("r2", r2),
		)
	}

	return &Model{
		Schema:    schema,
		Tree:      tree,
		Version:   uuid.NewString(),
		TrainedAt: time.Now().UTC(),
	}, r2, nil
}

// rSquared calcula el coeficiente de determinación del modelo ajustado
// sobre su propio set de entrenamiento.
func rSquared(tree *RegressionTree, features [][]float64, labels []float64) float64 {
	m := mean(labels)
	var ssRes, ssTot float64
	for i, row := range features {
		pred, err := tree.Predict(row)
		if err != nil {
			continue
		}
		ssRes += (labels[i] - pred) * (labels[i] - pred)
		ssTot += (labels[i] - m) * (labels[i] - m)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
