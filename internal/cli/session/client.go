package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	clirepo "MedMonitor/internal/cli/repo"
)

// Options переопределяют метод/тело/заголовки запроса. Zero value — GET без тела.
type Options struct {
	Method string
	Body   any // сериализуется в JSON, если не nil
	Header http.Header
}

// refreshResult — исход одного refresh-цикла, доставляемый ожидающим запросам.
type refreshResult struct {
	token string
	err   error
}

// Client — единая точка входа для аутентифицированных вызовов API.
// Владеет токенами (через TokenStore) и гарантирует не более одного
// refresh-цикла одновременно: конкурирующие запросы, поймавшие 401,
// ждут исход чужого цикла на одноразовых каналах.
type Client struct {
	baseURL string
	http    *http.Client
	store   clirepo.TokenStore
	log     *zap.SugaredLogger

	// OnUnauthorized вызывается при невосстановимой потере сессии,
	// уже после очистки токенов. CLI печатает подсказку «залогиньтесь заново».
	OnUnauthorized func()

	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
}

// NewClient создаёт сессионный клиент поверх готового хранилища токенов.
func NewClient(baseURL string, store clirepo.TokenStore, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		store:   store,
		log:     log,
	}
}

// IsAuthenticated — есть ли access-токен в хранилище. Токен не валидируется.
func (c *Client) IsAuthenticated() bool {
	return c.store.AccessToken() != ""
}

// do выполняет одну попытку запроса с указанным токеном.
// Токен передаётся параметром: вызывающий обязан перечитать его из
// хранилища на каждую попытку, а не кэшировать через точки ожидания.
func (c *Client) do(ctx context.Context, endpoint string, opts Options, token string) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vv := range opts.Header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.http.Do(req)
}

// Request — универсальный аутентифицированный вызов.
// На 401/403 с приложенным токеном выполняется ровно один refresh-цикл
// и один повтор; повторный 401/403 терминален.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options) (map[string]any, error) {
	token := c.store.AccessToken()

	resp, err := c.do(ctx, endpoint, opts, token)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) && token != "" {
		// тело первого ответа больше не нужно
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		newToken, rerr := c.refreshOrWait(ctx)
		if rerr != nil {
			return nil, rerr
		}

		c.log.Debugw("retrying request with refreshed token", "endpoint", endpoint)
		resp, err = c.do(ctx, endpoint, opts, newToken)
		if err != nil {
			return nil, &NetworkError{Err: err}
		}
		return c.handleResponse(resp, true)
	}

	return c.handleResponse(resp, false)
}

// refreshOrWait возвращает свежий access-токен, либо встаёт в очередь
// за уже идущим refresh-циклом.
func (c *Client) refreshOrWait(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	token, err := c.refreshAccessToken(ctx)

	// очередь опустошается атомарно: после снятия флага ни один
	// ожидающий не остаётся неразбуженным
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: token, err: err}
	}
	return token, err
}

// refreshTokenResponse — ответ /api/auth/refresh.
type refreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// refreshAccessToken выполняет сам refresh-цикл: обменивает refresh-токен
// на новую пару. Любая неудача терминальна для сессии.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	pair, err := c.store.LoadTokens()
	if err != nil || pair.Refresh == "" {
		c.forceLogout()
		return "", &AuthError{Message: "no refresh token available", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/refresh", nil)
	if err != nil {
		c.forceLogout()
		return "", &AuthError{Message: "token refresh failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	// refresh аутентифицируется refresh-токеном, не access
	req.Header.Set("Authorization", "Bearer "+pair.Refresh)

	resp, err := c.http.Do(req)
	if err != nil {
		c.forceLogout()
		return "", &AuthError{Message: "token refresh failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.forceLogout()
		return "", &AuthError{Message: fmt.Sprintf("token refresh rejected: HTTP %d", resp.StatusCode)}
	}

	var tr refreshTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil || tr.AccessToken == "" || tr.RefreshToken == "" {
		c.forceLogout()
		return "", &AuthError{Message: "token refresh returned malformed pair", Err: err}
	}

	if err := c.store.SaveTokens(clirepo.TokenPair{Access: tr.AccessToken, Refresh: tr.RefreshToken}); err != nil {
		c.forceLogout()
		return "", &AuthError{Message: "failed to persist refreshed tokens", Err: err}
	}

	c.log.Debugw("token refresh successful")
	return tr.AccessToken, nil
}

// handleResponse разбирает ответ. retried=true означает, что запрос уже
// повторялся после refresh — второй 401/403 терминален.
func (c *Client) handleResponse(resp *http.Response, retried bool) (map[string]any, error) {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var data map[string]any
		if err := json.Unmarshal(body, &data); err != nil || data == nil {
			// пустые 204-подобные тела — валидный пустой результат
			return map[string]any{}, nil
		}
		return data, nil
	}

	message := extractErrorMessage(body, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if retried {
			// токен уже обновляли — сессия невосстановима
			c.forceLogout()
			return nil, &AuthError{Message: message}
		}
		// анонимный вызов или вызов без refresh-пути
		return nil, &AuthError{Message: message}
	}

	return nil, &HTTPError{Status: resp.StatusCode, Message: message}
}

// extractErrorMessage достаёт detail/message из тела ошибки,
// иначе сводится к "HTTP <status>".
func extractErrorMessage(body []byte, status int) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

// forceLogout очищает сессию и дёргает OnUnauthorized.
func (c *Client) forceLogout() {
	if err := c.store.Clear(); err != nil {
		c.log.Warnw("failed to clear session", "error", err)
	}
	if c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
}

// Login аутентифицируется по email/паролю. Вызов идёт без bearer-токена:
// он предшествует аутентификации. Успех сохраняет пару токенов и кэш
// нормализованного пользователя.
func (c *Client) Login(ctx context.Context, email, password string) (map[string]any, error) {
	resp, err := c.do(ctx, "/api/auth/login", Options{
		Method: http.MethodPost,
		Body:   map[string]string{"email": email, "password": password},
	}, "")
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthError{Message: extractErrorMessage(body, resp.StatusCode)}
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &AuthError{Message: "login response is not valid JSON", Err: err}
	}

	access, _ := data["access_token"].(string)
	refresh, _ := data["refresh_token"].(string)
	if access == "" || refresh == "" {
		return nil, &AuthError{Message: "login response missing token pair"}
	}
	if err := c.store.SaveTokens(clirepo.TokenPair{Access: access, Refresh: refresh}); err != nil {
		return nil, fmt.Errorf("persist tokens: %w", err)
	}

	if user := NormalizeUser(data); user != nil {
		if raw, err := json.Marshal(user); err == nil {
			_ = c.store.SaveUser(raw)
		}
	}

	c.log.Debugw("login successful", "email", email)
	return data, nil
}

// Logout — best effort: серверный вызов может провалиться как угодно,
// локальная сессия очищается всегда. Ошибок наружу не отдаёт.
func (c *Client) Logout(ctx context.Context) {
	if c.IsAuthenticated() {
		if _, err := c.Request(ctx, "/api/auth/logout", Options{Method: http.MethodPost}); err != nil {
			c.log.Debugw("server-side logout failed", "error", err)
		}
	}
	if err := c.store.Clear(); err != nil {
		c.log.Warnw("failed to clear session", "error", err)
	}
}

// CheckAuthStatus — лёгкая серверная проверка токена. Никогда не
// возвращает ошибку: любой сбой читается как «не подтверждён».
func (c *Client) CheckAuthStatus(ctx context.Context) bool {
	if !c.IsAuthenticated() {
		return false
	}
	if _, err := c.Request(ctx, "/api/auth/verify", Options{}); err != nil {
		c.log.Debugw("token verification failed", "error", err)
		return false
	}
	return true
}
