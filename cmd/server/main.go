package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"debatehub/internal/broadcast"
	"debatehub/internal/config"
	"debatehub/internal/db"
	"debatehub/internal/handlers"
	"debatehub/internal/models"
	"debatehub/internal/repository"
	"debatehub/internal/repository/memory"
	"debatehub/internal/router"
	"debatehub/internal/scheduler"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.Logger.WithError(err).Fatal("invalid configuration")
	}
	if err := utils.ConfigureLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		utils.Logger.WithError(err).Fatal("failed to configure logger")
	}
	gin.DefaultWriter = utils.LogWriter()
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, pinger, closeStore := openStore(cfg.Database)
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := utils.NewCache(1000)
	if err != nil {
		utils.Logger.WithError(err).Fatal("failed to create cache")
	}
	hub := broadcast.NewHub(0)
	dispatcher := services.NewDispatcher(store, cfg.Notification.QueueSize)
	sched := scheduler.New(store, scheduler.Options{Interval: cfg.Scheduler.Interval})

	// The dispatcher outlives the signal so requests drained by Shutdown can
	// still queue notifications.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		dispatcher.Start(dispatchCtx)
	}()
	if cfg.Scheduler.Enabled {
		workers.Add(1)
		go func() {
			defer workers.Done()
			sched.Start(ctx)
		}()
	}

	engine := router.New(cfg.Server, router.Deps{
		Users:         services.NewUserService(store),
		Debates:       services.NewDebateService(store, dispatcher, cache),
		Comments:      services.NewCommentService(store, dispatcher),
		Opinions:      services.NewOpinionService(store, dispatcher),
		Ranking:       services.NewRankingService(store, services.RankingOptions{Location: cfg.Location(), DefaultLimit: cfg.Ranking.DefaultLimit, MaxLimit: cfg.Ranking.MaxLimit}),
		Notifications: services.NewNotificationService(store),
		Messages:      services.NewMessageService(store, dispatcher),
		Chat:          services.NewChatService(store, hub),
		Admin:         services.NewAdminService(store),
		Lookup:        store,
		Ticker:        sched,
		DB:            pinger,
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: engine}
	go func() {
		utils.Logger.WithFields(logrus.Fields{
			"addr":   cfg.Server.Addr,
			"driver": cfg.Database.Driver,
		}).Info("debatehub server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	utils.LogInfo("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "server shutdown")
	}
	stopDispatch()
	workers.Wait()
	utils.LogSuccess("server stopped")
}

type appStore interface {
	services.Store
	scheduler.Store
}

// openStore returns the configured store, a health pinger (nil for memory)
// and a close func.
func openStore(cfg config.DatabaseConfig) (appStore, handlers.Pinger, func()) {
	if cfg.Driver == config.DriverMemory {
		utils.LogInfo("using in-memory store; data is lost on exit")
		return seedMemory(memory.NewStore(), cfg.SeedCategories), nil, func() {}
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("failed to open database")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		utils.Logger.WithError(err).Fatal("failed to get database handle")
	}
	return repository.New(gdb), sqlDB, func() {
		if err := sqlDB.Close(); err != nil {
			utils.LogError(err, "closing database")
		}
	}
}

// seedMemory gives a database-less run something to work with: the default
// categories plus an admin and a regular user, reachable through the trusted
// identity header.
func seedMemory(store *memory.Store, categories bool) *memory.Store {
	if categories {
		for _, c := range db.DefaultCategories {
			store.AddCategory(c)
		}
	}
	store.AddUser(models.User{Nickname: "admin", Email: "admin@debatehub.local", Role: models.RoleAdmin})
	store.AddUser(models.User{Nickname: "guest", Email: "guest@debatehub.local", Role: models.RoleUser})
	return store
}
