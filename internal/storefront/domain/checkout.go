package domain

import (
	"fmt"
	"strings"
)

// ValidationError lists the checkout fields that are required but empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// CheckoutDetails is the buyer, business, address and schedule form.
type CheckoutDetails struct {
	FullName             string `json:"full_name"`
	Mobile               string `json:"mobile"`
	Email                string `json:"email"`
	WhatsAppSameAsMobile bool   `json:"whatsapp_same_as_mobile"`
	WhatsApp             string `json:"whatsapp"`
	BusinessName         string `json:"business_name"`
	BusinessType         string `json:"business_type"`
	BusinessLink         string `json:"business_link"`
	District             string `json:"district"`
	Upazila              string `json:"upazila"`
	Address              string `json:"address"`
	StartDate            string `json:"start_date"`
	Instructions         string `json:"instructions"`
	Source               string `json:"source"`
}

// NewCheckoutDetails returns an empty form with its defaults applied.
func NewCheckoutDetails() CheckoutDetails {
	return CheckoutDetails{WhatsAppSameAsMobile: true}
}

// Validate reports every empty required field.
func (d CheckoutDetails) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"full_name", d.FullName},
		{"mobile", d.Mobile},
		{"business_name", d.BusinessName},
		{"district", d.District},
		{"start_date", d.StartDate},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// WhatsAppNumber is the effective secondary contact.
func (d CheckoutDetails) WhatsAppNumber() string {
	if d.WhatsAppSameAsMobile {
		return d.Mobile
	}
	return d.WhatsApp
}
