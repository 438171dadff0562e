package closenicely

import (
	"io"

	"go.uber.org/zap"
)

// OrDebug closes closer, logging (at debug) instead of returning any error. Use it for deferred closes of response
// bodies and files where the close error carries no useful information.
func OrDebug(closer io.Closer) {
	FuncOrDebug(closer.Close)
}

func FuncOrDebug(closer func() error) {
	if err := closer(); err != nil {
		zap.L().Debug("Failed to close resource", zap.Error(err))
	}
}
