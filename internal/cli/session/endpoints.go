package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Типизированные обёртки над каталогом эндпоинтов бэкенда.
// Все ходят через Request и наследуют refresh-семантику.

// Me возвращает профиль текущего пользователя.
func (c *Client) Me(ctx context.Context) (map[string]any, error) {
	return c.Request(ctx, "/api/auth/me", Options{})
}

// Register создаёт учётную запись.
func (c *Client) Register(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.Request(ctx, "/api/auth/register", Options{Method: http.MethodPost, Body: payload})
}

// VitalsDashboard — данные дашборда: последнее измерение и свежие алерты.
func (c *Client) VitalsDashboard(ctx context.Context) (map[string]any, error) {
	return c.Request(ctx, "/api/vitals/dashboard", Options{})
}

// LatestVitals — последнее измерение.
func (c *Client) LatestVitals(ctx context.Context) (map[string]any, error) {
	return c.Request(ctx, "/api/vitals/latest", Options{})
}

// VitalsHistory — серия значений показателя за hours часов.
func (c *Client) VitalsHistory(ctx context.Context, vitalType string, hours int) (map[string]any, error) {
	if hours <= 0 {
		hours = 24
	}
	endpoint := fmt.Sprintf("/api/vitals/history/%s?hours=%d", url.PathEscape(vitalType), hours)
	return c.Request(ctx, endpoint, Options{})
}

// Alerts — последние limit алертов.
func (c *Client) Alerts(ctx context.Context, limit int) (map[string]any, error) {
	if limit <= 0 {
		limit = 20
	}
	return c.Request(ctx, fmt.Sprintf("/api/vitals/alerts?limit=%d", limit), Options{})
}

// AddVitals отправляет измерение вручную.
func (c *Client) AddVitals(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.Request(ctx, "/api/vitals/", Options{Method: http.MethodPost, Body: payload})
}

// Devices — список устройств пользователя.
func (c *Client) Devices(ctx context.Context) (map[string]any, error) {
	return c.Request(ctx, "/api/devices", Options{})
}

// RegisterDevice заводит устройство.
func (c *Client) RegisterDevice(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.Request(ctx, "/api/devices", Options{Method: http.MethodPost, Body: payload})
}

// DeleteDevice удаляет устройство.
func (c *Client) DeleteDevice(ctx context.Context, deviceID string) (map[string]any, error) {
	return c.Request(ctx, "/api/devices/"+url.PathEscape(deviceID), Options{Method: http.MethodDelete})
}

// UpdateDeviceStatus меняет статус устройства.
func (c *Client) UpdateDeviceStatus(ctx context.Context, deviceID, status string) (map[string]any, error) {
	endpoint := fmt.Sprintf("/api/devices/%s/status?status=%s", url.PathEscape(deviceID), url.QueryEscape(status))
	return c.Request(ctx, endpoint, Options{Method: http.MethodPatch})
}

// AnalyticsSummary — сводка за days дней.
func (c *Client) AnalyticsSummary(ctx context.Context, days int) (map[string]any, error) {
	if days <= 0 {
		days = 7
	}
	return c.Request(ctx, fmt.Sprintf("/api/analytics/summary?days=%d", days), Options{})
}

// AnalyticsTrends — тренд метрики за hours часов.
func (c *Client) AnalyticsTrends(ctx context.Context, metric string, hours int) (map[string]any, error) {
	if hours <= 0 {
		hours = 24
	}
	endpoint := fmt.Sprintf("/api/analytics/trends?metric=%s&hours=%d", url.QueryEscape(metric), hours)
	return c.Request(ctx, endpoint, Options{})
}

// DeviceStats — сводка по устройствам.
func (c *Client) DeviceStats(ctx context.Context) (map[string]any, error) {
	return c.Request(ctx, "/api/analytics/devices/stats", Options{})
}

// HourlyAggregates — почасовые агрегаты за сутки.
func (c *Client) HourlyAggregates(ctx context.Context) (map[string]any, error) {
	return c.Request(ctx, "/api/analytics/hourly", Options{})
}
