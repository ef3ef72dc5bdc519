package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	gameactor "FourEmpires/internal/game/actor"
	"FourEmpires/internal/game/actors"
	"FourEmpires/internal/game/app/port"
	"FourEmpires/internal/game/infra/persistence/memory"
	gamemongo "FourEmpires/internal/game/infra/persistence/mongodb"
	gamemysql "FourEmpires/internal/game/infra/persistence/mysql"
	"FourEmpires/internal/game/service"
	"FourEmpires/internal/shared/infrastructure/db"
	sharedmongo "FourEmpires/internal/shared/infrastructure/mongo"
	"FourEmpires/internal/shared/logs"
	"FourEmpires/internal/shared/serverconfig"
	"FourEmpires/internal/shared/transport/ws"
	"FourEmpires/modules/kit/logx"
)

func main() {
	serverconfig.Load()
	if err := logs.Init("game", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	repo, cleanup, err := openRepository()
	if err != nil {
		logs.Fatal("open game storage failed", zap.Error(err))
	}
	defer cleanup()

	hub := ws.NewHub(logx.NewZapLogger(logs.Logger()))

	defaults := service.Config{
		MapWidth:      serverconfig.Conf.Game.MapWidth,
		MapHeight:     serverconfig.Conf.Game.MapHeight,
		MaxTurns:      serverconfig.Conf.Game.MaxTurns,
		SnapshotEvery: serverconfig.Conf.Game.SnapshotEvery,
	}.WithDefaults()

	askTimeout := time.Duration(serverconfig.Conf.GameServer.AskTimeoutS) * time.Second
	runtime := gameactor.NewRuntime(actors.Deps{
		Repo:     repo,
		Sink:     hub,
		Logger:   logx.NewZapLogger(logs.Logger()),
		Defaults: defaults,
	}, askTimeout)
	defer runtime.Shutdown()

	gameHost := serverconfig.Conf.GameServer.Host
	if gameHost == "" {
		gameHost = "0.0.0.0"
	}
	gameAddr := fmt.Sprintf("%s:%d", gameHost, serverconfig.Conf.GameServer.Port)
	server := ws.NewServer(gameAddr, hub, logx.NewZapLogger(logs.Logger()))

	errCh := make(chan error, 1)
	go func() {
		logs.Info("game observer server started", zap.String("addr", gameAddr))
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("game observer serve failed: %w", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Error("observer server shutdown failed", zap.Error(err))
	}
}

// openRepository 按配置选择持久化后端。
func openRepository() (port.GameRepository, func(), error) {
	switch serverconfig.Conf.Storage.Backend {
	case "mysql":
		gormDB, err := db.Open(serverconfig.Conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		repo := gamemysql.NewGameRepository(gormDB)
		if err := repo.AutoMigrate(); err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	case "memory":
		return memory.NewGameRepository(), func() {}, nil

	default: // mongodb
		client, err := sharedmongo.Open(serverconfig.Conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			_ = client.Disconnect(context.Background())
		}
		database := client.Database(serverconfig.Conf.MongoDB.Database)
		return gamemongo.NewGameRepository(database), cleanup, nil
	}
}
