package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonix/salon-scheduler/internal/config"
	dbpkg "github.com/salonix/salon-scheduler/internal/db"
	"github.com/salonix/salon-scheduler/internal/middleware"
	"github.com/salonix/salon-scheduler/internal/notify"
	"github.com/salonix/salon-scheduler/internal/reminder"
	"github.com/salonix/salon-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	drivers := []notify.Driver{notify.NewLogDriver(db)}
	if cfg.TwilioAccountSID != "" && cfg.TwilioFrom != "" {
		drivers = append(drivers, notify.NewSMSDriver(
			db,
			cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioFrom,
		))
	}
	dispatcher := notify.NewDispatcher(drivers...)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, dispatcher)

	if cfg.RemindersEnabled {
		sched := reminder.New(db, dispatcher)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start reminder scheduler: %v", err)
		}
		defer sched.Stop()
	}

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
