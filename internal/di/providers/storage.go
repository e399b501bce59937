package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/media/avatars"
	"github.com/shelfmark/shelfmark-server/internal/quota"
)

// AvatarStorage wraps the avatar file storage.
type AvatarStorage struct {
	*avatars.Storage
}

// ProvideAvatarStorage provides the on-disk avatar storage.
func ProvideAvatarStorage(i do.Injector) (*AvatarStorage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := avatars.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	log.Info("Avatar storage initialized", "path", cfg.Data.BasePath)

	return &AvatarStorage{Storage: storage}, nil
}

// QuotaGuard wraps the daily usage guard.
type QuotaGuard struct {
	quota.Guard
}

// ProvideQuotaGuard provides the daily quota guard from config limits.
func ProvideQuotaGuard(i do.Injector) (*QuotaGuard, error) {
	cfg := do.MustInvoke[*config.Config](i)

	guard := quota.New(quota.Limits{
		DailyReads:     cfg.Quota.DailyReads,
		DailyWrites:    cfg.Quota.DailyWrites,
		DailyStorage:   cfg.Quota.DailyStorage,
		DailyDocuments: cfg.Quota.DailyDocument,
	})

	return &QuotaGuard{Guard: guard}, nil
}
