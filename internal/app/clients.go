package app

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/workstation-backend/internal/platform/logger"
	"github.com/yungbote/workstation-backend/internal/realtime/bus"
)

type Clients struct {
	// Bus and Redis are nil when REDIS_ADDR is unset.
	Bus   bus.Bus
	Redis goredis.UniversalClient
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	if strings.TrimSpace(cfg.RedisAddr) == "" {
		log.Info("REDIS_ADDR not set; contract events stay in process")
		return Clients{}, nil
	}
	b, rdb, err := bus.NewRedisBus(log, bus.RedisConfig{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis bus: %w", err)
	}
	return Clients{Bus: b, Redis: rdb}, nil
}

func (c Clients) Close() {
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
