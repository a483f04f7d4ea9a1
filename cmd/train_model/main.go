package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"odontofast/internal/ml"
)

// Entrenador offline: ajusta el modelo de duración con la fuente sintética y
// deja el artefacto listo para que la API lo cargue al arrancar.
func main() {
	dir := flag.String("dir", "MLModels", "directorio de artefactos de modelos")
	name := flag.String("name", "TratamentoDuracao", "nombre del modelo a entrenar")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	manager, err := ml.NewModelManager(logger, *dir)
	if err != nil {
		logger.Error("model dir init", zap.Error(err))
		os.Exit(1)
	}

	samples := ml.NewSyntheticSampleSource().Samples()
	model, r2, err := ml.NewTrainer(logger).Train(samples)
	if err != nil {
		logger.Error("training failed", zap.Error(err))
		os.Exit(1)
	}

	if !manager.Save(*name, model) {
		logger.Error("model save failed", zap.String("model", *name))
		os.Exit(1)
	}

	fmt.Printf("modelo %s v%s entrenado (r2=%.3f, %d muestras)\n", *name, model.Version, r2, len(samples))
}
