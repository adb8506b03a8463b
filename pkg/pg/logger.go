package pg

import (
	"fmt"
	"strings"
)

func sprintf(format string, v ...any) string {
	return strings.TrimSpace(fmt.Sprintf(format, v...))
}
