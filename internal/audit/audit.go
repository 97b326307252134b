package audit

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sealer-cli/sealer/internal/configs"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`      // RFC3339 with microseconds.
	Install   string `json:"install"` // Install UUID.
	Operation string `json:"op"`      // generate, encrypt, decrypt, edit.

	// Optional fields depending on operation.
	KeySource  string `json:"key_source,omitempty"` // Where the key came from.
	InputPath  string `json:"input,omitempty"`      // For file payloads.
	OutputPath string `json:"output,omitempty"`     // For file sinks.
	Keychain   string `json:"keychain,omitempty"`   // Keychain entry name.
	Backup     bool   `json:"backup,omitempty"`     // For edit with --backup.
}

// Log appends an entry to the audit log.
// If logging fails, the operation proceeds regardless; an operation should
// never fail just because its audit line could not be written. Key
// material never appears in an entry.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	if configs.UserSealerSettings == nil {
		return
	}
	logPath := configs.AuditLogPath()

	// #nosec G306 -- the audit log holds no secrets.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}
