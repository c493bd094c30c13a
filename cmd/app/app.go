package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/lotto/internal/api"
	"github.com/yizeng/gab/gin/lotto/internal/config"
	"github.com/yizeng/gab/gin/lotto/internal/logger"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	s := api.NewServer(conf)

	config.Watch(configPath, func(c *config.AppConfig) {
		if err := s.PlayService.SetRules(c.Lotto.Rules()); err != nil {
			zap.L().Warn("lotto rules not reloaded", zap.Error(err))
			return
		}
		zap.L().Info("lotto rules reloaded", zap.Any("rules", c.Lotto.Rules()))
	}, func(err error) {
		zap.L().Warn("config watch", zap.Error(err))
	})

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
