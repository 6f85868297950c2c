// Package qrcode encodes and parses the daily attendance check-in codes.
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	qr "github.com/skip2/go-qrcode"
)

const (
	dateLayout = "2006-01-02"
	separator  = "|"
	imageSize  = 256
)

var ErrMalformedPayload = errors.New("malformed check-in payload")

// Payload formats the check-in code for an employee on date.
func Payload(employeeID string, date time.Time) string {
	return employeeID + separator + date.Format(dateLayout)
}

// ParsePayload splits a check-in code into its employee ID and date.
func ParsePayload(payload string) (employeeID string, date time.Time, err error) {
	parts := strings.Split(strings.TrimSpace(payload), separator)
	if len(parts) != 2 || parts[0] == "" {
		return "", time.Time{}, ErrMalformedPayload
	}
	date, err = time.Parse(dateLayout, parts[1])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return parts[0], date, nil
}

// EncodeBase64PNG renders payload as a PNG QR code and returns it base64 encoded.
func EncodeBase64PNG(payload string) (string, error) {
	png, err := qr.Encode(payload, qr.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
