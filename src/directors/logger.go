package directors

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"docmapper/src/settings"
)

// NewLogger builds the process logger from the settings: a development logger when Debug is
// set, a production one otherwise. LogFile, when set, receives output next to stdout, or
// instead of it when PrintToScreen is off.
func NewLogger(args *settings.Arguments) (*zap.SugaredLogger, error) {
	var z zap.Config
	if args.Debug {
		z = zap.NewDevelopmentConfig()
	} else {
		z = zap.NewProductionConfig()
	}
	if !args.Verbose && !args.Debug {
		z.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	z.OutputPaths = nil
	if args.PrintToScreen || args.LogFile == "" {
		z.OutputPaths = append(z.OutputPaths, "stdout")
	}
	if args.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(args.LogFile), 0755); err != nil {
			return nil, err
		}
		z.OutputPaths = append(z.OutputPaths, args.LogFile)
	}

	logger, err := z.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
