package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/kag-mapper/internal/logger"
)

// Notifier shows messages the user has to see, such as a failed save.
type Notifier interface {
	Info(title, msg string)
	Error(title, msg string)
	// Confirm asks a yes/no question.
	Confirm(title, msg string) bool
}

// LogNotifier writes notifications to the log and answers every
// confirmation with Answer. Used when no native dialogs are available.
type LogNotifier struct {
	Answer bool
}

// Info logs msg at info level.
func (n LogNotifier) Info(title, msg string) {
	logger.Info(msg, zap.String("title", title))
}

// Error logs msg at error level.
func (n LogNotifier) Error(title, msg string) {
	logger.Error(msg, zap.String("title", title))
}

// Confirm logs the question and returns n.Answer.
func (n LogNotifier) Confirm(title, msg string) bool {
	logger.Info(msg, zap.String("title", title), zap.Bool("answer", n.Answer))
	return n.Answer
}
