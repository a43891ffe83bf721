package security

import "testing"

func TestWebhookSignature(t *testing.T) {
	secret := []byte("webhook-secret")
	body := []byte(`{"transaction_id":"TXN123","status":"success"}`)

	sig := WebhookSignature(secret, body)
	if !VerifyWebhookSignature(secret, body, sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifyWebhookSignature(secret, []byte(`{"status":"failed"}`), sig) {
		t.Fatal("signature accepted for a different body")
	}
	if VerifyWebhookSignature([]byte("other-secret"), body, sig) {
		t.Fatal("signature accepted under a different secret")
	}
	if VerifyWebhookSignature(secret, body, "") {
		t.Fatal("empty signature accepted")
	}
}
