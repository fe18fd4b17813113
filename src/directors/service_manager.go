package directors

import (
	"sync"

	"go.uber.org/zap"

	"docmapper/src/settings"
)

// Private instance and mutex for thread safety
var (
	instance *MapperService
	once     sync.Once
	mu       sync.RWMutex
)

// GetMapperService returns the process wide MapperService, or nil before InitMapperService.
func GetMapperService() *MapperService {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// InitMapperService creates the process wide MapperService. Later calls return the first
// instance and ignore their arguments.
func InitMapperService(args *settings.Arguments, logger *zap.SugaredLogger) *MapperService {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()

		instance = NewMapperService(args, logger)
		instance.logger.Infow("MapperService singleton initialized", "instance", instance.InstanceID())
	})

	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// ResetMapperService is useful for testing - it resets the singleton
func ResetMapperService() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}
