package domain

import "time"

// User representa un paciente del plan odontológico (tabla C_OP_USUARIO).
type User struct {
	ID           int64     `json:"id_usuario"`
	Name         string    `json:"nome_usuario"`
	Email        string    `json:"email_usuario"`
	PasswordHash string    `json:"-"`
	CardNumber   string    `json:"nr_carteira"`
	Phone        string    `json:"telefone_usuario,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserImage es la imagen de perfil asociada a un usuario (tabla C_OP_IMG_USUARIO).
type UserImage struct {
	UserID    int64  `json:"id_usuario"`
	ImagePath string `json:"caminho_img"`
}
