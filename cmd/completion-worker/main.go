package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/safadental/clinic-booking/internal/booking"
	"github.com/safadental/clinic-booking/internal/config"
	"github.com/safadental/clinic-booking/internal/db"
	"github.com/safadental/clinic-booking/internal/notify"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("completion-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running completion worker in env=%s interval=%s", cfg.Env, cfg.WorkerInterval)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	grid, err := booking.NewSlotGrid(cfg.Clinic.OpenTime, cfg.Clinic.CloseTime, cfg.Clinic.SlotInterval)
	if err != nil {
		log.Fatalf("slot grid error: %v", err)
	}

	// The sweep only flips statuses; no lock and no notifications needed.
	repo := booking.NewPgRepository(pgPool)
	svc := booking.NewService(repo, nil, booking.ServiceConfig{
		Grid:   grid,
		Clinic: notify.ClinicInfo{Name: cfg.Clinic.Name, Address: cfg.Clinic.Address},
		Region: notify.Region{
			CountryCode:  cfg.Phone.CountryCode,
			MobilePrefix: cfg.Phone.MobilePrefix,
			LocalDigits:  cfg.Phone.LocalDigits,
		},
	}, nil, nil)

	// Run once at startup
	runOnce(rootCtx, svc)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping completion worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc)
		}
	}
}

func runOnce(ctx context.Context, svc *booking.Service) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	if err := svc.CompletePastAppointments(runCtx); err != nil {
		log.Printf("completion run error: %v", err)
		return
	}
	log.Printf("completion run complete in %s", time.Since(start))
}
