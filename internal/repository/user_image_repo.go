package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"odontofast/internal/domain"
)

// UserImageRepository define el contrato de persistencia para imágenes de
// perfil. Hay a lo sumo una imagen por usuario.
type UserImageRepository interface {
	GetByUserID(ctx context.Context, userID int64) (domain.UserImage, error)
	Create(ctx context.Context, image domain.UserImage) error
	Update(ctx context.Context, image domain.UserImage) (bool, error)
	Delete(ctx context.Context, userID int64) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

// PgUserImageRepository implementa UserImageRepository usando pgxpool.
type PgUserImageRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserImageRepository(pool *pgxpool.Pool) *PgUserImageRepository {
	return &PgUserImageRepository{pool: pool}
}

func (r *PgUserImageRepository) GetByUserID(ctx context.Context, userID int64) (domain.UserImage, error) {
	const query = `
		SELECT id_usuario, caminho_img
		FROM c_op_img_usuario
		WHERE id_usuario = $1
	`
	var img domain.UserImage
	err := r.pool.QueryRow(ctx, query, userID).Scan(&img.UserID, &img.ImagePath)
	return img, err
}

func (r *PgUserImageRepository) Create(ctx context.Context, image domain.UserImage) error {
	const query = `
		INSERT INTO c_op_img_usuario (id_usuario, caminho_img)
		VALUES ($1, $2)
	`
	_, err := r.pool.Exec(ctx, query, image.UserID, image.ImagePath)
	return err
}

func (r *PgUserImageRepository) Update(ctx context.Context, image domain.UserImage) (bool, error) {
	const query = `
		UPDATE c_op_img_usuario
		SET caminho_img = $2
		WHERE id_usuario = $1
	`
	tag, err := r.pool.Exec(ctx, query, image.UserID, image.ImagePath)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgUserImageRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	const query = `DELETE FROM c_op_img_usuario WHERE id_usuario = $1`
	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgUserImageRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT COUNT(1) FROM c_op_img_usuario WHERE id_usuario = $1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
