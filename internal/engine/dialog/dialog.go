// Package dialog shows native message boxes.
package dialog

import (
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/kag-mapper/internal/logger"
)

// Notifier reports through native dialogs. Every message is logged as
// well, since dialogs are easy to dismiss without reading.
type Notifier struct{}

// Info shows an information box.
func (Notifier) Info(title, msg string) {
	logger.Info(msg, zap.String("dialog", title))
	dialog.Message("%s", msg).Title(title).Info()
}

// Error shows an error box.
func (Notifier) Error(title, msg string) {
	logger.Warn(msg, zap.String("dialog", title))
	dialog.Message("%s", msg).Title(title).Error()
}

// Confirm asks a yes/no question.
func (Notifier) Confirm(title, msg string) bool {
	yes := dialog.Message("%s", msg).Title(title).YesNo()
	logger.Debug("dialog answered", zap.String("dialog", title), zap.Bool("yes", yes))
	return yes
}
