package ml

import "strings"

// PatientInput son los atributos crudos de paciente/tratamiento que alimentan
// una predicción.
type PatientInput struct {
	Age              float64
	TreatmentType    string
	Complexity       float64
	HasComorbidities bool
	HealthIndex      float64
	AdherenceRate    float64
}

// FeatureSchema fija la disposición exacta de columnas usada al entrenar.
// El vocabulario one-hot se captura en orden de primera aparición en los
// datos de entrenamiento y viaja dentro del artefacto persistido.
type FeatureSchema struct {
	TreatmentTypes []string `json:"treatment_types"`
}

// numericColumns: edad, complejidad, comorbilidades, índice de salud y tasa
// de adhesión.
const numericColumns = 5

// FeatureCount devuelve el largo del vector que produce Encode.
func (s FeatureSchema) FeatureCount() int {
	return numericColumns + len(s.TreatmentTypes)
}

// Encode produce el vector de características en el orden del esquema:
// [edad, one-hot(tipo), complejidad, comorbilidades, salud, adhesión].
// Un tipo de tratamiento fuera del vocabulario se codifica todo-ceros;
// la predicción sigue siendo válida para categorías nuevas.
func (s FeatureSchema) Encode(in PatientInput) []float64 {
	vec := make([]float64, 0, s.FeatureCount())
	vec = append(vec, in.Age)
	for _, known := range s.TreatmentTypes {
		if strings.EqualFold(known, strings.TrimSpace(in.TreatmentType)) {
			vec = append(vec, 1)
		} else {
			vec = append(vec, 0)
		}
	}
	vec = append(vec, in.Complexity)
	if in.HasComorbidities {
		vec = append(vec, 1)
	} else {
		vec = append(vec, 0)
	}
	vec = append(vec, in.HealthIndex, in.AdherenceRate)
	return vec
}

// schemaFromSamples arma el vocabulario en orden de primera aparición.
func schemaFromSamples(samples []Sample) FeatureSchema {
	seen := make(map[string]bool)
	var types []string
	for _, sample := range samples {
		key := strings.ToLower(strings.TrimSpace(sample.TreatmentType))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		types = append(types, strings.TrimSpace(sample.TreatmentType))
	}
	return FeatureSchema{TreatmentTypes: types}
}
