package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"vendordesk/internal/vendortest"
	"vendordesk/pkg/config"
	"vendordesk/pkg/vendorapi"
)

func main() {
	var (
		addr      = flag.String("addr", ":9090", "listen address")
		failOp    = flag.String("fail", "", "operation to fail (list, get, status, note, reject, calendar, payment_status, payment_cancel)")
		failMsg   = flag.String("fail-message", "Simulated backend failure", "message returned by the failing operation")
		failOn200 = flag.Bool("fail-200", false, "answer failures with HTTP 200 and success=false")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	s := vendortest.NewServer()
	s.Secret = cfg.VendorAPI.SigningSecret
	s.Audience = cfg.VendorAPI.Audience
	seed(s, time.Now())

	if *failOp != "" {
		s.Fail(*failOp, vendortest.Failure{Status: http.StatusInternalServerError, Message: *failMsg, Success200: *failOn200})
	}

	log.Printf("fake vendor api listening on %s%s", *addr, cfg.VendorAPI.Prefix)
	srv := &http.Server{Addr: *addr, Handler: s.Handler(cfg.VendorAPI.Prefix), ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("http serve: %v", err)
	}
}

func seed(s *vendortest.Server, now time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	day := func(n int) vendorapi.Date { return vendorapi.Date{Time: first.AddDate(0, 0, n)} }

	s.Put(vendorapi.Booking{ID: "42", Title: "Harbour kayak tour", CustomerName: "R. Osei", Status: "pending", PaymentStatus: "pending",
		Amount: decimal.RequireFromString("80.00"), Currency: "USD", StartDate: day(9), EndDate: day(9), BookingType: "activity"})
	s.Put(vendorapi.Booking{ID: "43", Title: "Airport pickup", CustomerName: "M. Lindqvist", Status: "confirmed", PaymentStatus: "paid",
		Amount: decimal.RequireFromString("45.00"), Currency: "EUR", StartDate: day(3), EndDate: day(3), BookingType: "transportation"})
	s.Put(vendorapi.Booking{ID: "44", Title: "Lakeside cabin", CustomerName: "A. Haddad", Status: "in_progress", PaymentStatus: "partially_paid",
		Amount: decimal.RequireFromString("1234.50"), Currency: "USD", StartDate: day(5), EndDate: day(8), BookingType: "accommodation"})
	s.Put(vendorapi.Booking{ID: "45", Title: "Gift voucher", Status: "completed", PaymentStatus: "paid",
		Amount: decimal.RequireFromString("25"), Currency: "GBP", StartDate: day(1), EndDate: day(1), BookingType: "voucher"})

	s.PutPayment("43", vendorapi.PaymentDetail{Reference: "PAY-43", Amount: decimal.RequireFromString("45.00"), Currency: "EUR", Status: "paid"})
	s.PutPayment("44", vendorapi.PaymentDetail{Reference: "PAY-44", Amount: decimal.RequireFromString("600.00"), Currency: "USD", Status: "partially_paid"})
}
