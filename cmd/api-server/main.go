package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/safadental/clinic-booking/internal/api"
	"github.com/safadental/clinic-booking/internal/booking"
	"github.com/safadental/clinic-booking/internal/config"
	"github.com/safadental/clinic-booking/internal/db"
	"github.com/safadental/clinic-booking/internal/notify"
	redisclient "github.com/safadental/clinic-booking/internal/redis"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

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

	// Connect Redis; the booking path works without it, so a failure only
	// disables the advisory slot lock.
	var locker redisclient.Locker
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Printf("redis unavailable, advisory slot lock disabled: %v", err)
		rdb = nil
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Printf("error closing redis: %v", err)
			}
		}()
		locker = redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
		log.Println("connected to Redis")
	}

	grid, err := booking.NewSlotGrid(cfg.Clinic.OpenTime, cfg.Clinic.CloseTime, cfg.Clinic.SlotInterval)
	if err != nil {
		log.Fatalf("slot grid error: %v", err)
	}

	var email notify.EmailSender = notify.StubEmailSender{}
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.Email.SendGridAPIKey,
		FromEmail: cfg.Email.FromAddress,
		FromName:  cfg.Email.FromName,
	}); sg != nil {
		email = sg
	} else {
		log.Println("SENDGRID_API_KEY not set, using stub email sender")
	}

	var sms notify.SMSSender = notify.StubSMSSender{}
	if tw := notify.NewTwilioSender(notify.TwilioConfig{
		AccountSID: cfg.SMS.TwilioAccountSID,
		AuthToken:  cfg.SMS.TwilioAuthToken,
		FromNumber: cfg.SMS.FromNumber,
		BaseURL:    cfg.SMS.BaseURL,
	}); tw != nil {
		sms = tw
	} else {
		log.Println("Twilio credentials not set, using stub sms sender")
	}

	repo := booking.NewPgRepository(pgPool)
	svc := booking.NewService(repo, locker, booking.ServiceConfig{
		Grid: grid,
		Clinic: notify.ClinicInfo{
			Name:    cfg.Clinic.Name,
			Address: cfg.Clinic.Address,
		},
		Region: notify.Region{
			CountryCode:  cfg.Phone.CountryCode,
			MobilePrefix: cfg.Phone.MobilePrefix,
			LocalDigits:  cfg.Phone.LocalDigits,
		},
	}, email, sms)

	router := api.NewRouter(api.RouterConfig{
		Service: svc,
		PgPool:  pgPool,
		Redis:   rdb,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		log.Println("shutting down api-server")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
