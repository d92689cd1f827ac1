package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// simulate fires concurrent booking requests at a single slot and reports
// the outcome split. With the unique slot index in place exactly one
// request should win; everything else should come back 409.
func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "API base URL")
	date := flag.String("date", time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02"), "target date")
	slot := flag.String("time", "14:00", "target slot")
	workers := flag.Int("workers", 20, "concurrent booking attempts")
	flag.Parse()

	log.SetFlags(log.LstdFlags)
	log.Printf("firing %d concurrent bookings at %s %s", *workers, *date, *slot)

	client := &http.Client{Timeout: 10 * time.Second}

	var created, conflicted, failed atomic.Int64
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			body, _ := json.Marshal(map[string]string{
				"name":  fmt.Sprintf("Load Tester %d", n),
				"email": fmt.Sprintf("load.tester%d@example.com", n),
				"phone": fmt.Sprintf("01%09d", n),
				"date":  *date,
				"time":  *slot,
			})

			resp, err := client.Post(*baseURL+"/appointments", "application/json", bytes.NewReader(body))
			if err != nil {
				failed.Add(1)
				log.Printf("worker %d: request error: %v", n, err)
				return
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)

			switch resp.StatusCode {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicted.Add(1)
			default:
				failed.Add(1)
				log.Printf("worker %d: unexpected status %d", n, resp.StatusCode)
			}
		}(i)
	}
	wg.Wait()

	log.Printf("done in %s: created=%d conflicted=%d failed=%d",
		time.Since(start), created.Load(), conflicted.Load(), failed.Load())

	if created.Load() != 1 {
		log.Printf("WARNING: expected exactly one successful booking, got %d", created.Load())
	}
}
