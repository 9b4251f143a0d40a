package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUser_ToResponse(t *testing.T) {
	birthday := time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC)
	u := &User{
		ID:           "u1",
		Username:     "abcde",
		PasswordHash: "$2a$10$secrethash",
		Email:        "a@b.com",
		Birthday:     &birthday,
	}

	resp := u.ToResponse()

	if resp.Birthday == nil || *resp.Birthday != "1990-05-20" {
		t.Errorf("expected birthday 1990-05-20, got %v", resp.Birthday)
	}
	if resp.FavoriteMovies == nil {
		t.Error("expected empty favorites slice, got nil")
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "secrethash") || strings.Contains(string(data), "Password") {
		t.Errorf("response leaks the password hash: %s", data)
	}
}

func TestUser_ToResponse_NoBirthday(t *testing.T) {
	resp := (&User{Username: "abcde"}).ToResponse()

	data, _ := json.Marshal(resp)
	if strings.Contains(string(data), "Birthday") {
		t.Errorf("expected Birthday to be omitted, got %s", data)
	}
}

func TestParseBirthday(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "empty", in: "", wantNil: true},
		{name: "calendar date", in: "1985-02-03", want: "1985-02-03"},
		{name: "rfc3339", in: "1985-02-03T10:30:00Z", want: "1985-02-03"},
		{name: "garbage", in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBirthday(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBirthday(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got.Format(BirthdayLayout) != tt.want {
				t.Errorf("got %s, want %s", got.Format(BirthdayLayout), tt.want)
			}
		})
	}
}
