package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const artifactExtension = ".json"

// Engine es un manejador de inferencia atado a un modelo cargado.
type Engine struct {
	model *Model
}

// Predict ejecuta una inferencia de registro único.
func (e *Engine) Predict(in PatientInput) (float64, error) {
	if e == nil || e.model == nil {
		return 0, ErrNotFitted
	}
	return e.model.Predict(in)
}

// ModelVersion identifica el artefacto que respalda este motor.
func (e *Engine) ModelVersion() string {
	if e == nil || e.model == nil {
		return ""
	}
	return e.model.Version
}

// ModelManager es el dueño del almacén de artefactos y de la caché en
// memoria. Las operaciones con nombres nunca entrenados reportan ausencia,
// no fallan.
//
// La caché es el único estado mutable compartido: lecturas bajo RLock,
// publicación bajo Lock. La E/S de archivos ocurre fuera del lock de caché;
// saveMu serializa escritura+publicación para que caché y disco queden
// consistentes con la última escritura completada.
type ModelManager struct {
	logger *zap.Logger
	dir    string

	saveMu sync.Mutex
	mu     sync.RWMutex
	loaded map[string]*Model
}

// NewModelManager crea el directorio de modelos si no existe.
func NewModelManager(logger *zap.Logger, dir string) (*ModelManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ModelManager{
		logger: logger,
		dir:    dir,
		loaded: make(map[string]*Model),
	}, nil
}

// Load trae un artefacto del disco a la caché. Devuelve true si el modelo ya
// estaba cargado o se cargó; false si no existe o está corrupto.
func (m *ModelManager) Load(name string) bool {
	m.mu.RLock()
	_, ok := m.loaded[name]
	m.mu.RUnlock()
	if ok {
		return true
	}

	payload, err := os.ReadFile(m.artifactPath(name))
	if err != nil {
		if !os.IsNotExist(err) && m.logger != nil {
			m.logger.Warn("model read failed", zap.String("model", name), zap.Error(err))
		}
		return false
	}

	var model Model
	if err := json.Unmarshal(payload, &model); err != nil {
		if m.logger != nil {
			m.logger.Warn("model artifact corrupt", zap.String("model", name), zap.Error(err))
		}
		return false
	}
	if model.Tree == nil {
		return false
	}

	m.mu.Lock()
	m.loaded[name] = &model
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("model loaded", zap.String("model", name), zap.String("version", model.Version))
	}
	return true
}

// Save persiste el artefacto y recién entonces publica en caché: la caché
// nunca refleja una escritura que no completó en disco.
func (m *ModelManager) Save(name string, model *Model) bool {
	if model == nil || model.Tree == nil {
		if m.logger != nil {
			m.logger.Error("attempt to save nil model", zap.String("model", name))
		}
		return false
	}

	payload, err := json.Marshal(model)
	if err != nil {
		if m.logger != nil {
			m.logger.Error("model marshal failed", zap.String("model", name), zap.Error(err))
		}
		return false
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if err := os.WriteFile(m.artifactPath(name), payload, 0o600); err != nil {
		if m.logger != nil {
			m.logger.Error("model write failed", zap.String("model", name), zap.Error(err))
		}
		return false
	}

	m.mu.Lock()
	m.loaded[name] = model
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("model saved", zap.String("model", name), zap.String("version", model.Version))
	}
	return true
}

// Exists consulta caché y luego disco, sin forzar una carga.
func (m *ModelManager) Exists(name string) bool {
	m.mu.RLock()
	_, ok := m.loaded[name]
	m.mu.RUnlock()
	if ok {
		return true
	}
	_, err := os.Stat(m.artifactPath(name))
	return err == nil
}

// GetLoaded devuelve el modelo en caché, si está.
func (m *ModelManager) GetLoaded(name string) (*Model, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	model, ok := m.loaded[name]
	return model, ok
}

// CreateEngine falla (ok=false) si el modelo no está en caché; el llamador
// debe hacer Load primero.
func (m *ModelManager) CreateEngine(name string) (*Engine, bool) {
	model, ok := m.GetLoaded(name)
	if !ok {
		if m.logger != nil {
			m.logger.Warn("engine requested for model not in cache", zap.String("model", name))
		}
		return nil, false
	}
	return &Engine{model: model}, true
}

// Unload saca el modelo de la caché; el artefacto durable queda intacto.
func (m *ModelManager) Unload(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loaded[name]; !ok {
		return false
	}
	delete(m.loaded, name)
	return true
}

// ListAvailable devuelve la unión de nombres en caché y en disco, ordenada.
func (m *ModelManager) ListAvailable() []string {
	names := make(map[string]bool)

	m.mu.RLock()
	for name := range m.loaded {
		names[name] = true
	}
	m.mu.RUnlock()

	entries, err := os.ReadDir(m.dir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), artifactExtension) {
				continue
			}
			names[strings.TrimSuffix(entry.Name(), artifactExtension)] = true
		}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (m *ModelManager) artifactPath(name string) string {
	return filepath.Join(m.dir, name+artifactExtension)
}
