package auth

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// \p{Lu}: baş harfler ASCII olmak zorunda değil ("Özgür" -> Ö)
var staffCodePattern = regexp.MustCompile(`^\d{4}\p{Lu}{2}\d*$`)

// GenerateStaffCode: Personel giriş kodu üretir.
// Format: GGAA + isim ve soyisim baş harfleri. Ör: 19 Eylül'de oluşturulan
// "John Doe" hesabı -> 1909JD
func GenerateStaffCode(firstName, lastName string, now time.Time) string {
	day := fmt.Sprintf("%02d", now.Day())
	month := fmt.Sprintf("%02d", int(now.Month()))

	return day + month + initial(firstName) + initial(lastName)
}

// initial: İsmin ilk harfini büyük harf olarak döndürür. Rune olarak çözülür;
// bayt dilimlemesi çok baytlı harflerde ("Özgür") geçersiz UTF-8 üretir.
func initial(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return "X"
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "X"
	}
	return string(unicode.ToUpper(r))
}

// IsValidStaffCode: Girilen string personel kodu formatına uyuyor mu?
// (GGAA + 2 harf + opsiyonel çakışma son eki)
func IsValidStaffCode(code string) bool {
	return staffCodePattern.MatchString(code)
}
