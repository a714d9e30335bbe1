package conversation

import (
	"log/slog"

	"github.com/PabloGalante/syntax-chat/internal/domain"
)

// LogDisplay writes turn notifications to a structured logger. It is the
// display collaborator of sessions that are rendered elsewhere (HTTP clients).
type LogDisplay struct {
	log *slog.Logger
}

func NewLogDisplay(log *slog.Logger) *LogDisplay {
	return &LogDisplay{log: log}
}

func (d *LogDisplay) OnMessageAppended(role domain.Role, content string) {
	d.log.Info("message appended", "role", role, "chars", len(content))
}

func (d *LogDisplay) OnError(n domain.Notice) {
	d.log.Warn("turn failed", "kind", n.Kind, "description", n.Description)
}
