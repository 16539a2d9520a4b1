package auth

import (
	"testing"
	"time"
)

func TestGenerateStaffCode(t *testing.T) {
	sept19 := time.Date(2025, time.September, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		firstName string
		lastName  string
		want      string
	}{
		{name: "normalİsim", firstName: "John", lastName: "Doe", want: "1909JD"},
		{name: "küçükHarf", firstName: "ada", lastName: "obi", want: "1909AO"},
		{name: "boşlukluİsim", firstName: "  Mary ", lastName: " Jane ", want: "1909MJ"},
		{name: "boşSoyisim", firstName: "Cher", lastName: "", want: "1909CX"},
		// Çok baytlı baş harf: bayt dilimlemesi burada geçersiz UTF-8 üretirdi
		{name: "türkçeBaşHarf", firstName: "Özgür", lastName: "Demir", want: "1909ÖD"},
		{name: "küçükTürkçeBaşHarf", firstName: "şebnem", lastName: "çelik", want: "1909ŞÇ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateStaffCode(tt.firstName, tt.lastName, sept19)
			if got != tt.want {
				t.Errorf("GenerateStaffCode = %q, beklenen %q", got, tt.want)
			}
			// Üretilen her kod girişte tanınmalı, yoksa personel kodu ile
			// login sessizce imkansızlaşır
			if !IsValidStaffCode(got) {
				t.Errorf("üretilen kod formatı geçmiyor: %q", got)
			}
		})
	}
}

func TestIsValidStaffCode(t *testing.T) {
	valid := []string{"1909JD", "0101AB", "1909JD2", "1909ÖD"}
	invalid := []string{"", "19JD", "1909jd", "ABCDEF", "190-JD", "user@bar.com"}

	for _, code := range valid {
		if !IsValidStaffCode(code) {
			t.Errorf("IsValidStaffCode(%q) = false, beklenen true", code)
		}
	}
	for _, code := range invalid {
		if IsValidStaffCode(code) {
			t.Errorf("IsValidStaffCode(%q) = true, beklenen false", code)
		}
	}
}
