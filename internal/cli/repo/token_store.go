package repo

// TokenPair — пара access/refresh. Заменяется только целиком.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenStore описывает абстракцию хранилища сессии на клиенте.
// Реализация обязана соблюдать атомарность пары: SaveTokens сохраняет
// обе половины, Clear удаляет обе вместе с кэшем пользователя.
type TokenStore interface {
	// SaveTokens сохраняет пару токенов.
	SaveTokens(pair TokenPair) error

	// LoadTokens читает пару. Пара, у которой присутствует только одна
	// половина, считается невалидной и возвращается как пустая.
	LoadTokens() (TokenPair, error)

	// AccessToken — текущий access-токен или "" если его нет.
	AccessToken() string

	// SaveUser кэширует запись пользователя (уже нормализованную, JSON).
	SaveUser(raw []byte) error

	// LoadUser возвращает кэш пользователя или nil.
	LoadUser() ([]byte, error)

	// Clear удаляет оба токена и кэш пользователя.
	Clear() error
}
