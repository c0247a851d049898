// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by the outbound lookups (geocoding, translation-style
// side services) that don't need their own timeout policy.
var HTTPClient = &http.Client{
	Timeout: 15 * time.Second,
}
