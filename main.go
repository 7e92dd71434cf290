package main

import (
	"time"

	"github.com/facteam/blog-api/config"
	"github.com/facteam/blog-api/mailer"
	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/routes"
	"github.com/facteam/blog-api/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{}, &models.Post{}, &models.Category{},
		&models.Comment{}, &models.Subscriber{},
	)

	queue := mailer.NewRedisQueue(cfg)
	dispatcher := mailer.NewDispatcher(db, queue, mailer.NewCourier(cfg), cfg)
	dispatcher.Start(cfg.NotifyWorkers)

	r := routes.SetupRouter(db, dispatcher)

	stopPing := func() {}
	if cfg.HealthPingURL != "" {
		stopPing = utils.StartHealthPing(cfg.HealthPingURL,
			time.Duration(cfg.HealthPingIntervalMin)*time.Minute)
	}

	onShutdown := func() {
		stopPing()
		dispatcher.Stop()
		if err := queue.Close(); err != nil {
			utils.Sugar.Warnf("closing notify queue: %v", err)
		}
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, onShutdown); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
