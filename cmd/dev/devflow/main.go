package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"vendordesk/pkg/config"
	"vendordesk/pkg/db"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func main() {
	var (
		consoleURL = flag.String("console-url", "", "console base url (defaults to http://localhost<HTTP_ADDR>)")
		bookingID  = flag.String("booking", "42", "booking id to reject")
		reason     = flag.String("reason", "not available", "rejection reason")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *consoleURL == "" {
		*consoleURL = defaultConsoleURL(cfg.HTTPAddr)
	}
	c := &http.Client{Timeout: 30 * time.Second}
	base := strings.TrimSuffix(*consoleURL, "/") + "/v1"

	// The console keeps one modal; clear whatever a previous run left open.
	mustCall(c, http.MethodPost, base+"/modal/close", nil)
	mustCall(c, http.MethodPost, base+"/bookings/reload", nil)

	steps := []struct {
		name string
		path string
		body any
	}{
		{"open", "/bookings/" + *bookingID + "/reject/open", nil},
		{"input", "/modal/reject/input", map[string]string{"reason": *reason}},
		{"submit", "/modal/reject/submit", nil},
		{"confirm", "/modal/reject/confirm", nil},
	}
	for _, s := range steps {
		env := mustCall(c, http.MethodPost, base+s.path, s.body)
		fmt.Printf("%-8s %s\n", s.name, string(env.Data))
	}

	// Reload runs in the background after the confirm; give it a moment.
	time.Sleep(500 * time.Millisecond)
	env := mustCall(c, http.MethodGet, base+"/bookings", nil)
	var list struct {
		Bookings []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"bookings"`
	}
	_ = json.Unmarshal(env.Data, &list)
	for _, b := range list.Bookings {
		if b.ID == *bookingID {
			fmt.Printf("booking #%s status=%s\n", b.ID, b.Status)
		}
	}

	if cfg.DatabaseEnabled() {
		printAudit(cfg, *bookingID)
	}
}

func printAudit(cfg config.Config, bookingID string) {
	ctx := context.Background()
	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		return
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, `
SELECT flow, outcome, COALESCE(message, ''), created_at
FROM vendor_flow_actions
WHERE booking_id=$1
ORDER BY created_at DESC
LIMIT 5
`, bookingID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list audit: %v\n", err)
		return
	}
	defer rows.Close()

	fmt.Printf("audit:\n")
	for rows.Next() {
		var flow, outcome, message string
		var at time.Time
		if err := rows.Scan(&flow, &outcome, &message, &at); err != nil {
			fmt.Fprintf(os.Stderr, "scan audit: %v\n", err)
			return
		}
		fmt.Printf("  - %s flow=%s outcome=%s %s\n", at.Format(time.RFC3339), flow, outcome, message)
	}
}

func mustCall(c *http.Client, method, url string, body any) envelope {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", method, url, err)
		fmt.Fprintf(os.Stderr, "tip: is the console running, and is HTTP_ADDR set correctly?\n")
		os.Exit(1)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	var env envelope
	_ = json.Unmarshal(b, &env)
	if resp.StatusCode >= 300 {
		fmt.Fprintf(os.Stderr, "%s %s status=%d body=%s\n", method, url, resp.StatusCode, string(b))
		os.Exit(1)
	}
	return env
}

func defaultConsoleURL(httpAddr string) string {
	// httpAddr is typically ":8081" or "0.0.0.0:8081".
	addr := strings.TrimSpace(httpAddr)
	if addr == "" {
		addr = ":8081"
	}
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	if strings.HasPrefix(addr, "0.0.0.0:") {
		return "http://localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return "http://" + addr
}
