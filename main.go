package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"appointment-booking/internal/config"
	"appointment-booking/internal/database"
	"appointment-booking/internal/router"
	"appointment-booking/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Stores.UsersPath)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(filepath.Dir(cfg.Stores.AppointmentsPath)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	// open the spreadsheet stores; a store that cannot be validated or
	// recreated is fatal, no partial startup
	users, err := store.NewUserStore(cfg.Stores.UsersPath)
	if err != nil {
		log.Fatalf("init user store: %v", err)
	}
	appointments, err := store.NewAppointmentStore(cfg.Stores.AppointmentsPath)
	if err != nil {
		log.Fatalf("init appointment store: %v", err)
	}

	// init session/audit database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// setup router
	r := router.Setup(cfg, db, users, appointments)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
