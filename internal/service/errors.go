// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrMissingParameter — не передан обязательный параметр запроса.
	ErrMissingParameter = errors.New("отсутствует обязательный параметр")
	// ErrInvalidParameter — параметр передан, но имеет недопустимое значение.
	ErrInvalidParameter = errors.New("недопустимое значение параметра")
)
