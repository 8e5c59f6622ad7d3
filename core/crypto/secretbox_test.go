package crypto

import "testing"

func TestNewBoxRejectsWrongKeyLength(t *testing.T) {
	if _, err := NewBox("too-short"); err == nil {
		t.Fatal("expected error for a key shorter than 32 bytes")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	box, err := NewBox("01234567890123456789012345678901")
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}

	plaintext := "smtp-password-123"
	encrypted, err := box.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == plaintext {
		t.Fatal("encrypted value must not equal plaintext")
	}

	decrypted, err := box.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != plaintext {
		t.Fatalf("got %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptIsNotDeterministic(t *testing.T) {
	box, err := NewBox("01234567890123456789012345678901")
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	a, _ := box.Encrypt("same-input")
	b, _ := box.Encrypt("same-input")
	if a == b {
		t.Fatal("two encryptions of the same plaintext must differ (random nonce)")
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	box, err := NewBox("01234567890123456789012345678901")
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	encrypted, _ := box.Encrypt("secret")
	tampered := encrypted[:len(encrypted)-2] + "ZZ"
	if _, err := box.Decrypt(tampered); err == nil {
		t.Fatal("expected tampered ciphertext to fail authentication")
	}
}

func TestEncryptMapDecryptMapRoundTrip(t *testing.T) {
	box, err := NewBox("01234567890123456789012345678901")
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	in := map[string]string{"smtp_host": "smtp.example.com", "smtp_pass": "hunter2"}
	enc, err := box.EncryptMap(in)
	if err != nil {
		t.Fatalf("EncryptMap: %v", err)
	}
	for k, v := range enc {
		if v == in[k] {
			t.Fatalf("field %q was not encrypted", k)
		}
	}
	dec, err := box.DecryptMap(enc)
	if err != nil {
		t.Fatalf("DecryptMap: %v", err)
	}
	for k, v := range in {
		if dec[k] != v {
			t.Fatalf("field %q: got %q, want %q", k, dec[k], v)
		}
	}
}
