package utils

import (
	"log"
	"strings"
)

// LogEvent writes one structured line for engine-level events (dropped
// filters, scope decisions). Messages must stay summarized; never log filter
// values or other request payload.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
