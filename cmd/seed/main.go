package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/safadental/clinic-booking/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAppointments(context.Background(), pool, 14, 6); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

// seedAppointments books a handful of random slots per day over the next
// `days` days, so the dashboard and slot listing have data to show.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, days, perDay int) error {
	log.Printf("seeding up to %d appointments per day for %d days", perDay, days)

	slots := []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
		"15:00", "15:30", "16:00", "16:30",
	}
	statuses := []string{"pending", "pending", "pending", "confirmed", "cancelled"}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for d := 0; d < days; d++ {
		date := today.AddDate(0, 0, d)
		used := make(map[string]bool)

		for i := 0; i < perDay; i++ {
			slot := slots[gofakeit.Number(0, len(slots)-1)]
			if used[slot] {
				continue
			}
			used[slot] = true

			status := statuses[gofakeit.Number(0, len(statuses)-1)]
			var confirmedAt *time.Time
			if status == "confirmed" {
				t := time.Now().Add(-time.Duration(gofakeit.Number(1, 48)) * time.Hour)
				confirmedAt = &t
			}

			phone := fmt.Sprintf("01%09d", gofakeit.Number(0, 999999999))

			_, err := tx.Exec(ctx, `
				INSERT INTO appointments (
					id, patient_name, patient_email, patient_phone,
					appointment_date, appointment_time, message, status,
					email_sent, sms_sent, confirmed_at, created_at, updated_at
				)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, $10, now(), now())
			`, uuid.New(), gofakeit.Name(), gofakeit.Email(), phone,
				date, slot, nullableSentence(), status,
				status == "confirmed", confirmedAt)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func nullableSentence() *string {
	if gofakeit.Bool() {
		return nil
	}
	s := gofakeit.Sentence(8)
	return &s
}
