package ml

import (
	"math/rand"

	"odontofast/internal/domain"
)

// Sample es una fila etiquetada de entrenamiento: atributos crudos más la
// duración observada en semanas.
type Sample struct {
	Age              float64
	TreatmentType    string
	Complexity       float64
	HasComorbidities bool
	HealthIndex      float64
	AdherenceRate    float64
	DurationWeeks    float64
}

// SampleSource provee el conjunto de entrenamiento. El generador sintético y
// un futuro adaptador sobre el histórico de predicciones implementan el
// mismo contrato, así el trainer no cambia cuando lleguen datos reales.
type SampleSource interface {
	Samples() []Sample
}

const rowsPerStratum = 50

// SyntheticSampleSource genera un conjunto sintético determinístico con
// cuatro estratos por tipo de tratamiento y rangos específicos por categoría.
type SyntheticSampleSource struct {
	seed int64
}

// NewSyntheticSampleSource usa la semilla fija 42 para reproducibilidad.
func NewSyntheticSampleSource() *SyntheticSampleSource {
	return &SyntheticSampleSource{seed: 42}
}

// Samples produce 50 filas por estrato. Los rangos codifican priores del
// dominio: ortodoncia sesga joven y larga, limpieza es corta y de baja
// complejidad.
func (s *SyntheticSampleSource) Samples() []Sample {
	rnd := rand.New(rand.NewSource(s.seed))
	samples := make([]Sample, 0, 4*rowsPerStratum)

	// Ortodontia: pacientes jóvenes, tratamientos de años.
	for i := 0; i < rowsPerStratum; i++ {
		age := float64(10 + rnd.Intn(50))
		complexity := float64(1 + rnd.Intn(5))
		comorbid := rnd.Intn(10) < 3
		health := rnd.Float64()*0.5 + 0.5
		adherence := rnd.Float64()*0.3 + 0.7
		samples = append(samples, Sample{
			Age:              age,
			TreatmentType:    domain.TreatmentOrtodontia,
			Complexity:       complexity,
			HasComorbidities: comorbid,
			HealthIndex:      health,
			AdherenceRate:    adherence,
			DurationWeeks:    orthoDuration(complexity, comorbid, health, rnd),
		})
	}

	// Implante: adultos, duración media.
	for i := 0; i < rowsPerStratum; i++ {
		age := float64(30 + rnd.Intn(50))
		complexity := float64(1 + rnd.Intn(5))
		comorbid := rnd.Intn(10) < 4
		health := rnd.Float64()*0.6 + 0.4
		adherence := rnd.Float64()*0.4 + 0.6
		samples = append(samples, Sample{
			Age:              age,
			TreatmentType:    domain.TreatmentImplante,
			Complexity:       complexity,
			HasComorbidities: comorbid,
			HealthIndex:      health,
			AdherenceRate:    adherence,
			DurationWeeks:    implantDuration(complexity, comorbid, health, rnd),
		})
	}

	// Canal: duración corta.
	for i := 0; i < rowsPerStratum; i++ {
		age := float64(20 + rnd.Intn(50))
		complexity := float64(1 + rnd.Intn(5))
		comorbid := rnd.Intn(10) < 2
		health := rnd.Float64()*0.7 + 0.3
		adherence := rnd.Float64()*0.5 + 0.5
		samples = append(samples, Sample{
			Age:              age,
			TreatmentType:    domain.TreatmentCanal,
			Complexity:       complexity,
			HasComorbidities: comorbid,
			HealthIndex:      health,
			AdherenceRate:    adherence,
			DurationWeeks:    canalDuration(complexity, rnd),
		})
	}

	// Limpeza: muy corta, complejidad acotada a 1-2.
	for i := 0; i < rowsPerStratum; i++ {
		age := float64(10 + rnd.Intn(70))
		complexity := float64(1 + rnd.Intn(2))
		comorbid := rnd.Intn(10) < 1
		health := rnd.Float64()*0.8 + 0.2
		adherence := rnd.Float64()*0.7 + 0.3
		samples = append(samples, Sample{
			Age:              age,
			TreatmentType:    domain.TreatmentLimpeza,
			Complexity:       complexity,
			HasComorbidities: comorbid,
			HealthIndex:      health,
			AdherenceRate:    adherence,
			DurationWeeks:    1 + (complexity-1)*0.5 + rnd.Float64(),
		})
	}

	return samples
}

func orthoDuration(complexity float64, comorbid bool, health float64, rnd *rand.Rand) float64 {
	weeks := 60 + complexity*12 + (1-health)*12 + rnd.Float64()*16
	if comorbid {
		weeks += 8
	}
	return weeks
}

func implantDuration(complexity float64, comorbid bool, health float64, rnd *rand.Rand) float64 {
	weeks := 10 + complexity*2 + (1-health)*4 + rnd.Float64()*4
	if comorbid {
		weeks += 3
	}
	return weeks
}

func canalDuration(complexity float64, rnd *rand.Rand) float64 {
	return 2 + complexity*0.4 + rnd.Float64()
}
