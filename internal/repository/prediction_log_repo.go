package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"odontofast/internal/domain"
)

// PredictionLogRepository registra cada predicción servida junto con su
// vector de características. Cuando haya suficiente histórico real, este
// registro reemplaza al generador sintético como fuente de entrenamiento.
type PredictionLogRepository interface {
	Create(ctx context.Context, record domain.PredictionRecord) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.PredictionRecord, error)
}

// PgPredictionLogRepository implementa PredictionLogRepository con una
// columna pgvector para el vector de características.
type PgPredictionLogRepository struct {
	pool *pgxpool.Pool
}

func NewPgPredictionLogRepository(pool *pgxpool.Pool) *PgPredictionLogRepository {
	return &PgPredictionLogRepository{pool: pool}
}

func (r *PgPredictionLogRepository) Create(ctx context.Context, record domain.PredictionRecord) error {
	const query = `
		INSERT INTO prediction_log (id, id_usuario, tipo_tratamento, features, duracao_estimada_semanas, model_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.TreatmentType,
		pgvector.NewVector(record.Features),
		record.EstimatedWeeks,
		record.ModelVersion,
		record.CreatedAt,
	)
	return err
}

func (r *PgPredictionLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.PredictionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, id_usuario, tipo_tratamento, features, duracao_estimada_semanas, model_version, created_at
		FROM prediction_log
		WHERE id_usuario = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.PredictionRecord
	for rows.Next() {
		var rec domain.PredictionRecord
		var features pgvector.Vector
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.TreatmentType,
			&features,
			&rec.EstimatedWeeks,
			&rec.ModelVersion,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Features = features.Slice()
		records = append(records, rec)
	}
	return records, rows.Err()
}
