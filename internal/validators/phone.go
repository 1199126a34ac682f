package validators

import (
	"regexp"
	"strings"
)

// Telefones portugueses: fixo (2...) ou móvel (9...), 9 dígitos,
// com prefixo +351 opcional.
var phonePattern = regexp.MustCompile(`^(\+351)?[29][0-9]{8}$`)

func IsPhoneValid(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phonePattern.MatchString(cleaned)
}

// SanitizePhone normaliza para o formato +351XXXXXXXXX.
func SanitizePhone(phone string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if len(cleaned) == 9 {
		return "+351" + cleaned
	}
	return cleaned
}
