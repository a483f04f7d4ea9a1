package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"odontofast/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO c_op_usuario (nome_usuario, senha_usuario, email_usuario, nr_carteira, telefone_usuario, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_usuario
	`
	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.PasswordHash,
		user.Email,
		user.CardNumber,
		user.Phone,
		user.CreatedAt,
	).Scan(&user.ID)
	return user, err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const query = `
		SELECT id_usuario, nome_usuario, senha_usuario, email_usuario, nr_carteira, telefone_usuario, created_at
		FROM c_op_usuario
		WHERE id_usuario = $1
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.PasswordHash,
		&u.Email,
		&u.CardNumber,
		&u.Phone,
		&u.CreatedAt,
	)
	return u, err
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id_usuario, nome_usuario, senha_usuario, email_usuario, nr_carteira, telefone_usuario, created_at
		FROM c_op_usuario
		WHERE email_usuario = $1
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Name,
		&u.PasswordHash,
		&u.Email,
		&u.CardNumber,
		&u.Phone,
		&u.CreatedAt,
	)
	return u, err
}
