package live

import (
	"sync"
	"time"
)

const (
	vitalsWindow = 20 // скользящее окно сэмплов
	alertsKept   = 5  // последних оповещений на экране
)

// Sample — один момент времени со всеми пришедшими в нём скалярами.
type Sample struct {
	At     time.Time
	Values map[string]float64
}

// Board агрегирует живой поток для отображения: актуальные значения
// метрик, скользящее окно сэмплов и хвост оповещений.
type Board struct {
	mu      sync.Mutex
	current map[string]float64
	samples []Sample
	alerts  []map[string]any
}

func NewBoard() *Board {
	return &Board{current: make(map[string]float64)}
}

// ApplyVitals вливает кадр показателей: скаляры перекрывают текущие
// значения по ключу, кадр целиком встаёт сэмплом в окно. Нечисловые
// поля (timestamp, device_id) в метрики не попадают.
func (b *Board) ApplyVitals(data map[string]any) {
	values := make(map[string]float64)
	for k, v := range data {
		if f, ok := v.(float64); ok {
			values[k] = f
		}
	}
	if len(values) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range values {
		b.current[k] = v
	}
	b.samples = append(b.samples, Sample{At: time.Now(), Values: values})
	if len(b.samples) > vitalsWindow {
		b.samples = b.samples[len(b.samples)-vitalsWindow:]
	}
}

// AddAlert ставит оповещение в голову списка, старые за пределами
// ёмкости отбрасываются.
func (b *Board) AddAlert(data map[string]any) {
	if data == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append([]map[string]any{data}, b.alerts...)
	if len(b.alerts) > alertsKept {
		b.alerts = b.alerts[:alertsKept]
	}
}

// Current — копия актуальных значений метрик.
func (b *Board) Current() map[string]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]float64, len(b.current))
	for k, v := range b.current {
		out[k] = v
	}
	return out
}

// Samples — копия окна сэмплов в порядке прихода, старые первыми.
func (b *Board) Samples() []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Sample, len(b.samples))
	copy(out, b.samples)
	return out
}

// Alerts — копия хвоста оповещений, новые первыми.
func (b *Board) Alerts() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, len(b.alerts))
	copy(out, b.alerts)
	return out
}
