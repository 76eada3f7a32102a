package aromai

import (
	"encoding/base64"
	"testing"
	"time"
)

func makeToken(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecodeClaims_NameEmailExpiry(t *testing.T) {
	token := makeToken(`{"name":"Ada","email":"ada@x.com","exp":4102444800}`)
	claims, err := DecodeClaims(token)
	if err != nil {
		t.Fatalf("DecodeClaims returned error: %v", err)
	}
	if claims.Name != "Ada" || claims.Email != "ada@x.com" {
		t.Fatalf("claims = %#v", claims)
	}
	if claims.Expired(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("token reported expired before exp")
	}
	if !claims.Expired(time.Date(2101, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("token not reported expired after exp")
	}
}

func TestParseClaims_MalformedYieldsEmpty(t *testing.T) {
	cases := []string{"", "abc", "a.!!!.c", makeToken(`not json`)}
	for _, token := range cases {
		claims := ParseClaims(token)
		if claims.Name != "" || claims.Email != "" {
			t.Fatalf("ParseClaims(%q) = %#v, want empty", token, claims)
		}
		if claims.Expired(time.Now()) {
			t.Fatalf("ParseClaims(%q) reported expired", token)
		}
	}
}

func TestParseClaims_BadClaimKeepsOthers(t *testing.T) {
	cases := []struct {
		name      string
		payload   string
		wantName  string
		wantEmail string
	}{
		{"string exp", `{"name":"Ada","email":"ada@x.com","exp":"soon"}`, "Ada", "ada@x.com"},
		{"numeric name", `{"name":123,"email":"ada@x.com"}`, "", "ada@x.com"},
		{"object aud", `{"name":"Ada","email":"ada@x.com","aud":{"x":1}}`, "Ada", "ada@x.com"},
		{"null email", `{"name":"Ada","email":null}`, "Ada", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims := ParseClaims(makeToken(tc.payload))
			if claims.Name != tc.wantName || claims.Email != tc.wantEmail {
				t.Fatalf("claims = %#v, want name %q email %q", claims, tc.wantName, tc.wantEmail)
			}
			if claims.Expired(time.Now()) {
				t.Fatalf("unreadable exp must not expire the token")
			}
		})
	}
}
