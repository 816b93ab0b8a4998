package services

import "time"

// Store contrato mínimo de persistencia que consumen los servicios.
// *redis.RedisClient lo implementa; los tests usan un doble en memoria.
//
// Las garantías de concurrencia del sistema viven aquí: SetNX materializa
// las restricciones de unicidad (código de sesión, nombre de equipo,
// respuesta por equipo/pregunta) y UpdateJSON hace compare-and-swap del
// registro de sesión para que dos advance concurrentes no incrementen
// desde el mismo índice.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string, ttl time.Duration) error
	SetNX(key, value string, ttl time.Duration) (bool, error)
	SAdd(key string, members ...string) error
	SMembers(key string) ([]string, error)
	SRem(key string, members ...string) error
	UpdateJSON(key string, fn func(current []byte) ([]byte, error)) error
}
