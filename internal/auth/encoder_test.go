package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBase64EncoderMatchesSourceFormat(t *testing.T) {
	var e Base64Encoder
	digest, err := e.Encode("secret1")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if digest != "c2VjcmV0MQ==" {
		t.Errorf("digest = %q, want %q", digest, "c2VjcmV0MQ==")
	}
	if !e.Matches(digest, "secret1") {
		t.Error("expected digest to match original password")
	}
	if e.Matches(digest, "wrong") {
		t.Error("expected digest not to match a different password")
	}
}

func TestBcryptEncoder(t *testing.T) {
	e := BcryptEncoder{Cost: bcrypt.MinCost}
	digest, err := e.Encode("secret1")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(digest, "$2a$") {
		t.Errorf("digest = %q, want bcrypt hash", digest)
	}
	if !e.Matches(digest, "secret1") {
		t.Error("expected digest to match original password")
	}
	if e.Matches(digest, "secret2") {
		t.Error("expected digest not to match a different password")
	}
	if e.Matches("", "secret1") {
		t.Error("expected empty digest never to match")
	}
}

func TestBcryptEncoderRejectsEmpty(t *testing.T) {
	if _, err := (BcryptEncoder{}).Encode(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestEncoderByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "auth.Base64Encoder", false},
		{"base64", "auth.Base64Encoder", false},
		{"bcrypt", "auth.BcryptEncoder", false},
		{"md5", "", true},
	}
	for _, tt := range tests {
		enc, err := EncoderByName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("EncoderByName(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("EncoderByName(%q): %v", tt.name, err)
			continue
		}
		switch enc.(type) {
		case Base64Encoder:
			if tt.want != "auth.Base64Encoder" {
				t.Errorf("EncoderByName(%q) = Base64Encoder, want %s", tt.name, tt.want)
			}
		case BcryptEncoder:
			if tt.want != "auth.BcryptEncoder" {
				t.Errorf("EncoderByName(%q) = BcryptEncoder, want %s", tt.name, tt.want)
			}
		}
	}
}
