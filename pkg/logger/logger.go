// Package logger provides a zap-based application logger.
package logger

import "go.uber.org/zap"

// New configures a production-mode logger tagged with the service name.
func New(service string) (*zap.Logger, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", service)), nil
}
