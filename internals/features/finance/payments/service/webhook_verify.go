// file: internals/features/finance/payments/service/webhook_verify.go
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// VerifyWebhookSignature: HMAC-SHA256 atas raw body, signature di key `s`
// dari header comma-separated k=v (format PayMongo: `t=...,te=...,li=...`
// kita ambil `s`). Secret kosong = verifikasi dilewati (dev mode).
func VerifyWebhookSignature(rawBody []byte, signatureHeader, secret string) error {
	if secret == "" {
		return nil
	}
	if strings.TrimSpace(signatureHeader) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing webhook signature header")
	}

	var delivered string
	for _, part := range strings.Split(signatureHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) == 2 && kv[0] == "s" {
			delivered = kv[1]
			break
		}
	}
	if delivered == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "signature not found in header")
	}

	deliveredMAC, err := hex.DecodeString(delivered)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "malformed webhook signature")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	if !hmac.Equal(deliveredMAC, mac.Sum(nil)) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid webhook signature")
	}
	return nil
}

// ComputeWebhookSignature: helper untuk test & tooling lokal.
func ComputeWebhookSignature(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
