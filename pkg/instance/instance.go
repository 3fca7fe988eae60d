// Package instance names the running process for logs and lock ownership.
package instance

import (
	"os"
	"strings"
)

// lookup order matters: an explicit id wins over platform-provided ones.
var idVars = []string{"PROYEC_INSTANCE_ID", "DYNO", "HOSTNAME"}

// GetID returns the instance identifier or "local".
func GetID() string {
	for _, key := range idVars {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	return "local"
}
