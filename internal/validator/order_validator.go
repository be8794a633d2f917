package validator

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"invitation/internal/usecase"
)

const dateLayout = "2006-01-02"

type orderValidator struct {
	clock usecase.Clock
}

// DI
func NewOrderValidator(clock usecase.Clock) usecase.OrderValidator {
	return &orderValidator{clock: clock}
}

// 注文作成の入力を検証
func (v *orderValidator) ValidateCreateOrder(ctx context.Context, in usecase.CreateOrderInput) error {
	ve := usecase.NewValidationError()
	d := in.WeddingDetails

	if in.TemplateID <= 0 {
		ve.Add("template_id", "Please select a wedding invitation template.")
	}

	requiredMax(ve, "wedding_details.bride_name", d.BrideName, 255, "Bride name is required.", "Bride name cannot exceed 255 characters.")
	requiredMax(ve, "wedding_details.groom_name", d.GroomName, 255, "Groom name is required.", "Groom name cannot exceed 255 characters.")

	// 式の日付は「今日より後」。今日はNG
	if strings.TrimSpace(d.WeddingDate) == "" {
		ve.Add("wedding_details.wedding_date", "Wedding date is required.")
	} else if !isFutureDate(d.WeddingDate, v.clock.Now()) {
		ve.Add("wedding_details.wedding_date", "Wedding date must be in the future.")
	}

	requiredMax(ve, "wedding_details.venue", d.Venue, 500, "Wedding venue is required.", "Wedding venue cannot exceed 500 characters.")

	if strings.TrimSpace(d.CeremonyTime) == "" {
		ve.Add("wedding_details.ceremony_time", "Ceremony time is required.")
	}
	if d.GuestCount != nil && *d.GuestCount < 1 {
		ve.Add("wedding_details.guest_count", "Guest count must be at least 1.")
	}
	if utf8.RuneCountInString(d.AdditionalInfo) > 1000 {
		ve.Add("wedding_details.additional_info", "Additional information cannot exceed 1000 characters.")
	}
	if utf8.RuneCountInString(in.Notes) > 1000 {
		ve.Add("notes", "Notes cannot exceed 1000 characters.")
	}

	return ve.OrNil()
}

// YYYY-MM-DD を now と同じlocationで読み、今日の0時より後ならtrue
func isFutureDate(s string, now time.Time) bool {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), now.Location())
	if err != nil {
		return false
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	return d.After(today)
}

func requiredMax(ve *usecase.ValidationError, field, value string, limit int, requiredMsg, maxMsg string) {
	if strings.TrimSpace(value) == "" {
		ve.Add(field, requiredMsg)
		return
	}
	if utf8.RuneCountInString(value) > limit {
		ve.Add(field, maxMsg)
	}
}
