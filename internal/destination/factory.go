package destination

import (
	"fmt"

	"tsr-go/internal/config"
	"tsr-go/internal/tsr"
)

// NewDestinationFromConfig creates a Destination of the configured type for
// the output directory dir.
func NewDestinationFromConfig(cfg config.DestinationConfig, dir string) (tsr.Destination, error) {
	switch cfg.Type {
	case "", "filesystem":
		if dir == "" {
			return nil, fmt.Errorf("filesystem destination requires an output directory")
		}
		return NewFileSystemDestination(dir), nil
	case "memory":
		return NewMemoryDestination(dir), nil
	default:
		return nil, fmt.Errorf("unknown destination type: %s", cfg.Type)
	}
}
