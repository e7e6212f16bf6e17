package fs

import (
	"errors"
	"os"
	"path/filepath"

	clirepo "MedMonitor/internal/cli/repo"
)

// Имена файлов в каталоге конфигурации. Совпадают с ключами хранилища
// в веб-клиенте, чтобы смысл переносился один в один.
const (
	accessTokenFile  = "access_token"
	refreshTokenFile = "refresh_token"
	userCacheFile    = "user.json"
)

// AuthFSStore — файловое хранилище токенов и кэша пользователя для CLI.
// Dir задаёт каталог; пустой Dir означает <UserConfigDir>/MedMonitor.
type AuthFSStore struct {
	Dir string
}

func (s AuthFSStore) configDir() (string, error) {
	p := s.Dir
	if p == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, "MedMonitor")
	}
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s AuthFSStore) path(name string) (string, error) {
	dir, err := s.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func trimTrailing(b []byte) []byte {
	for len(b) > 0 {
		c := b[len(b)-1]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return b
}

func (s AuthFSStore) read(name string) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(trimTrailing(b)), nil
}

func (s AuthFSStore) remove(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SaveTokens сохраняет оба токена. Пара с пустой половиной отклоняется.
func (s AuthFSStore) SaveTokens(pair clirepo.TokenPair) error {
	if pair.Access == "" || pair.Refresh == "" {
		return errors.New("token pair must contain both tokens")
	}
	ap, err := s.path(accessTokenFile)
	if err != nil {
		return err
	}
	rp, err := s.path(refreshTokenFile)
	if err != nil {
		return err
	}
	if err := os.WriteFile(ap, []byte(pair.Access), 0o600); err != nil {
		return err
	}
	return os.WriteFile(rp, []byte(pair.Refresh), 0o600)
}

// LoadTokens читает пару. Частичная пара трактуется как отсутствие сессии.
func (s AuthFSStore) LoadTokens() (clirepo.TokenPair, error) {
	access, aerr := s.read(accessTokenFile)
	refresh, rerr := s.read(refreshTokenFile)
	if aerr != nil && !errors.Is(aerr, os.ErrNotExist) {
		return clirepo.TokenPair{}, aerr
	}
	if rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
		return clirepo.TokenPair{}, rerr
	}
	if access == "" || refresh == "" {
		return clirepo.TokenPair{}, nil
	}
	return clirepo.TokenPair{Access: access, Refresh: refresh}, nil
}

// AccessToken — access-токен без ошибок: "" если пары нет.
func (s AuthFSStore) AccessToken() string {
	pair, err := s.LoadTokens()
	if err != nil {
		return ""
	}
	return pair.Access
}

// SaveUser кэширует нормализованную запись пользователя.
func (s AuthFSStore) SaveUser(raw []byte) error {
	p, err := s.path(userCacheFile)
	if err != nil {
		return err
	}
	return os.WriteFile(p, raw, 0o600)
}

// LoadUser возвращает кэш пользователя, nil если кэша нет.
func (s AuthFSStore) LoadUser() ([]byte, error) {
	p, err := s.path(userCacheFile)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

// Clear удаляет оба токена и кэш пользователя. Отсутствующие файлы — не ошибка.
func (s AuthFSStore) Clear() error {
	var firstErr error
	for _, name := range []string{accessTokenFile, refreshTokenFile, userCacheFile} {
		if err := s.remove(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ clirepo.TokenStore = AuthFSStore{}
