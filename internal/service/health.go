package service

import (
	"sync/atomic"

	"vocalis/internal/inference"
)

// HealthService liveness 代表行程存活；readiness 額外要求
// 模型 bundle 可載入（artifact 缺漏時不要接流量）。
type HealthService struct {
	live   atomic.Bool
	ready  atomic.Bool
	models *inference.Registry
}

func NewHealthService(models *inference.Registry) *HealthService {
	s := &HealthService{models: models}
	s.live.Store(true)
	s.ready.Store(false) // 啟動完成後再打開
	return s
}

func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

// CheckModels 啟動前驗 artifact，缺漏直接回傳錯誤
func (s *HealthService) CheckModels() error {
	if s.models == nil {
		return nil
	}
	_, err := s.models.Bundle()
	return err
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

func (s *HealthService) IsReady() bool {
	if !s.ready.Load() {
		return false
	}
	if s.models == nil {
		return true
	}
	_, err := s.models.Bundle()
	return err == nil
}
