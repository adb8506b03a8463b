package prospect

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Role addresses and throwaway domains never belong to a person worth
// contacting, so they fail validation outright.
var (
	roleAddressPrefixes = []string{"info@", "contact@", "hello@", "support@", "admin@"}

	disposableDomains = map[string]struct{}{
		"mailinator.com":    {},
		"guerrillamail.com": {},
		"temp-mail.org":     {},
	}
)

// Sanitize validates and normalizes a raw lead's contact data. It returns
// the cleaned email and the list of validation problems; an empty list means
// the lead may enter the funnel.
func Sanitize(raw RawLead) (string, []string) {
	if raw.Email == "" && raw.Phone == "" {
		return "", []string{"missing_contact"}
	}

	if raw.Email == "" {
		return "", nil
	}

	email := strings.ToLower(strings.TrimSpace(raw.Email))

	if !emailRegex.MatchString(email) {
		return "", []string{fmt.Sprintf("invalid_email: %s", email)}
	}

	var problems []string
	domain := email[strings.LastIndex(email, "@")+1:]
	if _, ok := disposableDomains[domain]; ok {
		problems = append(problems, fmt.Sprintf("disposable_domain: %s", domain))
	}
	for _, prefix := range roleAddressPrefixes {
		if strings.HasPrefix(email, prefix) {
			problems = append(problems, fmt.Sprintf("role_email: %s", email))
			break
		}
	}

	if len(problems) > 0 {
		return "", problems
	}
	return email, nil
}
