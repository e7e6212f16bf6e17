package service

import (
	"context"
	"math"
	"time"

	"MedMonitor/internal/model"
	"MedMonitor/internal/repo"
)

// MetricSummary — агрегаты по одной метрике.
type MetricSummary struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
}

// Summary — сводка за период для /api/analytics/summary.
type Summary struct {
	PeriodDays    int                      `json:"period_days"`
	TotalReadings int                      `json:"total_readings"`
	Anomalies     int                      `json:"anomalies_count"`
	Metrics       map[string]MetricSummary `json:"metrics"`
}

// TrendPoint — одна точка тренда.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Trend — ответ /api/analytics/trends.
type Trend struct {
	Metric        string       `json:"metric"`
	Hours         int          `json:"hours"`
	DataPoints    int          `json:"data_points"`
	Direction     string       `json:"trend"` // increasing | decreasing | stable
	ChangePercent float64      `json:"change_percent"`
	Data          []TrendPoint `json:"data"`
}

// HourlyBucket — почасовой агрегат для /api/analytics/hourly.
type HourlyBucket struct {
	Hour         time.Time `json:"hour"`
	AvgHeartRate float64   `json:"avg_heart_rate"`
	AvgSpO2      float64   `json:"avg_spo2"`
	Count        int       `json:"count"`
}

// DeviceStats — сводка по устройствам для /api/analytics/devices/stats.
type DeviceStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	LowBatt  int `json:"low_battery"`
}

// AnalyticsService считает агрегаты поверх сырых измерений.
type AnalyticsService struct {
	vitals  repo.VitalsRepository
	devices repo.DeviceRepository
}

func NewAnalyticsService(v repo.VitalsRepository, d repo.DeviceRepository) *AnalyticsService {
	return &AnalyticsService{vitals: v, devices: d}
}

// metricValue достаёт значение метрики из измерения, ok=false если датчик её не прислал.
func metricValue(v *model.VitalSign, metric string) (float64, bool) {
	var p *float64
	switch metric {
	case "heart_rate":
		p = v.HeartRate
	case "spo2":
		p = v.SpO2
	case "temperature":
		p = v.Temperature
	case "blood_pressure":
		p = v.BPSystolic
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// Summarize — сводка за days дней: средние/мин/макс по метрикам и число аномалий.
func (s *AnalyticsService) Summarize(ctx context.Context, userID int64, days int) (*Summary, error) {
	if days <= 0 || days > 90 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	history, err := s.vitals.History(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	out := &Summary{
		PeriodDays:    days,
		TotalReadings: len(history),
		Metrics:       map[string]MetricSummary{},
	}

	for _, metric := range []string{"heart_rate", "spo2", "temperature", "blood_pressure"} {
		var sum, min, max float64
		count := 0
		for i := range history {
			v, ok := metricValue(&history[i], metric)
			if !ok {
				continue
			}
			if count == 0 {
				min, max = v, v
			} else {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			sum += v
			count++
		}
		if count == 0 {
			continue
		}
		out.Metrics[metric] = MetricSummary{
			Average: round1(sum / float64(count)),
			Min:     min,
			Max:     max,
			Count:   count,
		}
	}

	for i := range history {
		v := &history[i]
		if (v.HeartRate != nil && (*v.HeartRate > 100 || *v.HeartRate < 60)) ||
			(v.SpO2 != nil && *v.SpO2 < 95) ||
			(v.BPSystolic != nil && *v.BPSystolic > 140) {
			out.Anomalies++
		}
	}
	return out, nil
}

// TrendFor — серия значений метрики за hours часов с направлением тренда.
// Направление определяется сравнением средних первой и второй половин серии.
func (s *AnalyticsService) TrendFor(ctx context.Context, userID int64, metric string, hours int) (*Trend, error) {
	if hours <= 0 || hours > 168 {
		hours = 24
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	history, err := s.vitals.History(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	var points []TrendPoint
	for i := range history {
		if v, ok := metricValue(&history[i], metric); ok {
			points = append(points, TrendPoint{Timestamp: history[i].RecordedAt, Value: v})
		}
	}

	out := &Trend{Metric: metric, Hours: hours, DataPoints: len(points), Direction: "stable"}
	if len(points) >= 2 {
		half := len(points) / 2
		var firstSum, secondSum float64
		for _, p := range points[:half] {
			firstSum += p.Value
		}
		for _, p := range points[half:] {
			secondSum += p.Value
		}
		firstAvg := firstSum / float64(half)
		secondAvg := secondSum / float64(len(points)-half)
		if secondAvg > firstAvg {
			out.Direction = "increasing"
		} else if secondAvg < firstAvg {
			out.Direction = "decreasing"
		}
		if firstAvg != 0 {
			out.ChangePercent = round1((secondAvg - firstAvg) / firstAvg * 100)
		}
	}

	// отдаём не больше последних 100 точек
	if len(points) > 100 {
		points = points[len(points)-100:]
	}
	out.Data = points
	return out, nil
}

// Hourly — почасовые агрегаты за последние сутки.
func (s *AnalyticsService) Hourly(ctx context.Context, userID int64) ([]HourlyBucket, error) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	history, err := s.vitals.History(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	type acc struct {
		hrSum, spSum     float64
		hrCount, spCount int
		total            int
	}
	buckets := map[time.Time]*acc{}
	var order []time.Time

	for i := range history {
		hour := history[i].RecordedAt.UTC().Truncate(time.Hour)
		a, ok := buckets[hour]
		if !ok {
			a = &acc{}
			buckets[hour] = a
			order = append(order, hour)
		}
		a.total++
		if hr := history[i].HeartRate; hr != nil {
			a.hrSum += *hr
			a.hrCount++
		}
		if sp := history[i].SpO2; sp != nil {
			a.spSum += *sp
			a.spCount++
		}
	}

	out := make([]HourlyBucket, 0, len(order))
	for _, hour := range order {
		a := buckets[hour]
		b := HourlyBucket{Hour: hour, Count: a.total}
		if a.hrCount > 0 {
			b.AvgHeartRate = round1(a.hrSum / float64(a.hrCount))
		}
		if a.spCount > 0 {
			b.AvgSpO2 = round1(a.spSum / float64(a.spCount))
		}
		out = append(out, b)
	}
	return out, nil
}

// DeviceStatsFor — количество устройств по статусам и с разряженной батареей.
func (s *AnalyticsService) DeviceStatsFor(ctx context.Context, userID int64) (*DeviceStats, error) {
	devices, err := s.devices.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &DeviceStats{Total: len(devices)}
	for i := range devices {
		switch devices[i].Status {
		case "active":
			out.Active++
		default:
			out.Inactive++
		}
		if devices[i].Battery < 20 {
			out.LowBatt++
		}
	}
	return out, nil
}
