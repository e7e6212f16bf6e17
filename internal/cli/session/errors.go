package session

import "fmt"

// AuthError — отвергнутые учётные данные или невосстановимая сессия
// (refresh-токен просрочен/отозван, повторный 401 после обновления).
// Терминальна: к моменту возврата токены уже очищены.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication failed"
}

func (e *AuthError) Unwrap() error { return e.Err }

// HTTPError — любой прочий не-2xx ответ. Несёт статус и лучшее
// доступное сообщение бэкенда.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// NetworkError — транспортный сбой без ответа. Ничего не говорит о
// валидности токена, поэтому не запускает ни refresh, ни logout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }
