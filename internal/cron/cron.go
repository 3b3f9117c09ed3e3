package cron

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"vocalis/config"
	"vocalis/internal/core"
	"vocalis/internal/database/mongodb/repository"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

// 暫存音檔最長保留時間；正常流程請求結束即刪，
// 這裡只清 crash / kill 遺留的孤兒檔
const uploadMaxAge = time.Hour

type Cron struct {
	logger    *zap.Logger
	conf      *config.Configuration
	usageRepo *repository.UsageRepository
	server    *cron.Cron
}

// NewCron .
func NewCron(logger *zap.Logger, conf *config.Configuration, usageRepo *repository.UsageRepository) *Cron {
	server := cron.New(
		cron.WithSeconds(),
	)

	return &Cron{
		logger:    logger,
		conf:      conf,
		usageRepo: usageRepo,
		server:    server,
	}
}

func (c *Cron) Run() error {
	// 每小時清一次上傳暫存目錄
	if _, err := c.server.AddFunc("0 0 * * * *", c.purgeUploads); err != nil {
		return err
	}
	// 每日 00:05 UTC 記一筆前一日使用量快照
	if _, err := c.server.AddFunc("0 5 0 * * *", c.usageSnapshot); err != nil {
		return err
	}

	c.server.Start()
	return nil
}

func (c *Cron) Stop(ctx context.Context) error {
	c.server.Stop()
	return nil
}

// purgeUploads 清掉超過保留時間的暫存音檔
func (c *Cron) purgeUploads() {
	dir := c.conf.Models.UploadDir
	if dir == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("read upload dir failed", zap.String("dir", dir), zap.Error(err))
		}
		return
	}

	cutoff := time.Now().Add(-uploadMaxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if rmErr := os.Remove(filepath.Join(dir, entry.Name())); rmErr == nil {
				removed++
			}
		}
	}
	if removed > 0 {
		c.logger.Info("purged stale uploads", zap.String("dir", dir), zap.Int("removed", removed))
	}
}

// usageSnapshot 前一日總請求量，給營運報表撈 log 用
func (c *Cron) usageSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	yesterday := core.DayKey(time.Now().AddDate(0, 0, -1))
	total, err := c.usageRepo.TotalSince(ctx, yesterday)
	if err != nil {
		c.logger.Warn("usage snapshot failed", zap.String("day", yesterday), zap.Error(err))
		return
	}
	c.logger.Info("daily usage snapshot", zap.String("since", yesterday), zap.Int64("total", total))
}
