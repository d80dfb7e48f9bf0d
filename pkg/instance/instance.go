package instance

import (
	"os"
	"strings"
)

const defaultID = "local"

var idEnvVars = []string{"COFFEESHOP_INSTANCE_ID", "DYNO", "HOSTNAME"}

// GetID returns the identifier of the running process, taken from the first
// populated variable in idEnvVars.
func GetID() string {
	for _, key := range idEnvVars {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	return defaultID
}
