package cli

import (
	"github.com/valter-silva-au/planboard/internal/core"
	"github.com/valter-silva-au/planboard/internal/observability"
)

// Package-level service variables wired by internal.NewApp before Execute
// runs. Commands must tolerate nil observability services.
var (
	BasePath string

	Engine    *core.Engine
	Directory *core.Directory

	Notices     *observability.NotificationCenter
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
