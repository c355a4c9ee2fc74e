package logger

import (
	"go.uber.org/zap"
)

// New construye el logger estructurado del proceso. No hay logger global:
// cada componente recibe el suyo por inyección desde main.
func New() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"            // Logs estructurados en JSON
	cfg.EncoderConfig.TimeKey = "ts" // timestamp
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.CallerKey = "caller"

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
