package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"vendordesk/internal/booking"
	"vendordesk/pkg/vendorapi"
)

type Summary struct {
	TotalDays              int     `json:"total_days"`
	BookedDays             int     `json:"booked_days"`
	AvailableDays          int     `json:"available_days"`
	AvailabilityPercentage float64 `json:"availability_percentage"`
	PercentageText         string  `json:"percentage_text"`
}

type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

// Event is one rendered CalendarEvent.
type Event struct {
	BookingID         booking.ID      `json:"booking_id"`
	Title             string          `json:"title"`
	Start             string          `json:"start"`
	End               string          `json:"end"`
	Type              booking.Type    `json:"booking_type"`
	Icon              string          `json:"icon"`
	Status            booking.Status  `json:"status"`
	Badge             Badge           `json:"badge"`
	DateRange         string          `json:"date_range"`
	Amount            decimal.Decimal `json:"amount"`
	AmountText        string          `json:"amount_text"`
	PaymentStatus     string          `json:"payment_status"`
	PaymentStatusText string          `json:"payment_status_text"`
}

var icons = map[booking.Type]string{
	booking.TypeTransportation: "fa-car",
	booking.TypeAccommodation:  "fa-bed",
	booking.TypeActivity:       "fa-hiking",
	booking.TypeOther:          "fa-calendar",
}

func Icon(t booking.Type) string {
	if icon, ok := icons[t]; ok {
		return icon
	}
	return icons[booking.TypeOther]
}

func StatusBadge(s booking.Status) Badge {
	tone := "secondary"
	switch s {
	case booking.StatusPending:
		tone = "warning"
	case booking.StatusConfirmed:
		tone = "info"
	case booking.StatusInProgress:
		tone = "primary"
	case booking.StatusCompleted:
		tone = "success"
	case booking.StatusCancelled, booking.StatusRejected:
		tone = "danger"
	}
	label := s.Label()
	if label == "" {
		label = "Unknown"
	}
	return Badge{Label: label, Tone: tone}
}

const displayLayout = "Jan 2, 2006"

func DateRange(start, end time.Time) string {
	switch {
	case start.IsZero() && end.IsZero():
		return ""
	case end.IsZero() || sameDay(start, end):
		return start.Format(displayLayout)
	case start.IsZero():
		return end.Format(displayLayout)
	default:
		return start.Format(displayLayout) + " - " + end.Format(displayLayout)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders "USD 1,234.50", using the currency's standard scale.
// Unknown codes fall back to two decimals.
func FormatAmount(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		s := amount.StringFixed(2)
		if code == "" {
			return s
		}
		return code + " " + s
	}
	scale, _ := currency.Standard.Rounding(unit)
	f, _ := amount.Round(int32(scale)).Float64()
	return fmt.Sprintf("%s %s", unit, printer.Sprint(number.Decimal(f, number.Scale(scale))))
}

func percentText(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

func fromAPI(e vendorapi.CalendarEvent, fallbackCurrency string) Event {
	t := booking.ParseType(e.BookingType)
	st := booking.Status(strings.TrimSpace(e.Status))
	cur := e.Currency
	if cur == "" {
		cur = fallbackCurrency
	}
	pay := booking.PaymentStatus(strings.TrimSpace(e.PaymentStatus))
	return Event{
		BookingID:         booking.ID(e.ID),
		Title:             e.Title,
		Start:             dateString(e.Start.Time),
		End:               dateString(e.End.Time),
		Type:              t,
		Icon:              Icon(t),
		Status:            st,
		Badge:             StatusBadge(st),
		DateRange:         DateRange(e.Start.Time, e.End.Time),
		Amount:            e.Amount,
		AmountText:        FormatAmount(e.Amount, cur),
		PaymentStatus:     string(pay),
		PaymentStatusText: pay.Label(),
	}
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(vendorapi.DateLayout)
}
