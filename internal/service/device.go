package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"MedMonitor/internal/model"
	"MedMonitor/internal/repo"
)

// ErrDeviceNotFound возвращается, когда устройство не принадлежит пользователю или не существует.
var ErrDeviceNotFound = errors.New("device not found")

// DeviceService — управление IoT-устройствами пациента.
type DeviceService struct {
	repo repo.DeviceRepository
}

func NewDeviceService(r repo.DeviceRepository) *DeviceService {
	return &DeviceService{repo: r}
}

// Register заводит новое устройство. ID генерируется сервером.
func (s *DeviceService) Register(ctx context.Context, userID int64, name, deviceType string) (*model.Device, error) {
	d := &model.Device{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		DeviceType: deviceType,
		Status:     "active",
		Battery:    100,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeviceService) List(ctx context.Context, userID int64) ([]model.Device, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *DeviceService) Delete(ctx context.Context, userID int64, id string) error {
	n, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// UpdateStatus меняет статус устройства и отмечает его как «виденное сейчас».
func (s *DeviceService) UpdateStatus(ctx context.Context, userID int64, id, status string) (*model.Device, error) {
	if status != "active" && status != "inactive" {
		return nil, errors.New("status must be active or inactive")
	}
	n, err := s.repo.UpdateStatus(ctx, userID, id, status, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrDeviceNotFound
	}
	d, err := s.repo.GetByID(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeviceNotFound
	}
	return d, err
}
