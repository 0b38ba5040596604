package service

import (
	"fmt"
	"regexp"
	"strings"

	"foodgiver/internal/domain"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	// spaces and hyphens are allowed as separators
	phoneSeparators = strings.NewReplacer(" ", "", "-", "")
)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phoneSeparators.Replace(phone))
}

func validateShipping(s domain.ShippingInfo) (domain.ShippingInfo, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Address = strings.TrimSpace(s.Address)
	s.Notes = strings.TrimSpace(s.Notes)
	if s.Name == "" || s.Phone == "" || s.Address == "" {
		return s, fmt.Errorf("%w: name, phone and address are required", ErrInvalidInput)
	}
	if !IsValidPhone(s.Phone) {
		return s, fmt.Errorf("%w: malformed phone", ErrInvalidInput)
	}
	return s, nil
}
