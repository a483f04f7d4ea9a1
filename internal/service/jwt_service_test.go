package service

import (
	"errors"
	"testing"
	"time"

	"odontofast/internal/domain"
)

func TestJWTGenerateAndParse(t *testing.T) {
	svc := NewJWTService("secreto-de-prueba", time.Minute)
	user := domain.User{ID: 7, Name: "Ana", Email: "ana@example.com"}

	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token.Token == "" || token.ExpiresIn != 60 {
		t.Fatalf("token = %+v", token)
	}

	claims, err := svc.ParseAccessToken(token.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "ana@example.com" || claims.Subject != "7" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestJWTParseRejectsGarbage(t *testing.T) {
	svc := NewJWTService("secreto-de-prueba", time.Minute)

	if _, err := svc.ParseAccessToken(""); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("err = %v; want ErrJWTInvalid", err)
	}
	if _, err := svc.ParseAccessToken("no.es.jwt"); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("err = %v; want ErrJWTInvalid", err)
	}
}

func TestJWTParseRejectsOtherSecret(t *testing.T) {
	issuer := NewJWTService("secreto-a", time.Minute)
	verifier := NewJWTService("secreto-b", time.Minute)

	token, err := issuer.GenerateAccessToken(domain.User{ID: 1, Email: "a@b.c"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := verifier.ParseAccessToken(token.Token); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("err = %v; want ErrJWTInvalid", err)
	}
}

func TestJWTExpired(t *testing.T) {
	svc := NewJWTService("secreto-de-prueba", time.Minute)
	svc.accessTTL = -time.Minute

	token, err := svc.GenerateAccessToken(domain.User{ID: 1, Email: "a@b.c"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := svc.ParseAccessToken(token.Token); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("err = %v; want ErrJWTExpired", err)
	}
}
