package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSessionID gera um identificador de sessão de progresso
func GenerateSessionID() string {
	id, err := gonanoid.Generate(characters, 16)
	if err != nil {
		return "sess_" + gonanoid.Must(16)
	}
	return "sess_" + id
}
