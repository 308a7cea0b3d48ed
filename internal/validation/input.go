package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var phoneRegex = regexp.MustCompile(`^(\+62|62|0)8[0-9]{7,12}$`)

// ValidatePhone проверяет индонезийский номер телефона (08xx, 62xx, +62xx).
func ValidatePhone(phone string) error {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	if !phoneRegex.MatchString(cleaned) {
		return fmt.Errorf("некорректный номер телефона")
	}
	return nil
}

// RuneLen длина строки в символах, пробелы учитываются.
func RuneLen(value string) int {
	return utf8.RuneCountInString(value)
}
