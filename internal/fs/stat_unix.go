//go:build linux

package fs

import (
	"fmt"
	"io/fs"
	"syscall"
	"time"

	"tsr-go/internal/tsr"
)

// ExtractStatData extracts Linux-specific stat data from a FileInfo.
func (m *OSFilesystemManager) ExtractStatData(info fs.FileInfo) (*tsr.StatData, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("cannot extract stat data: expected *syscall.Stat_t, got %T", info.Sys())
	}

	return &tsr.StatData{
		Atime: time.Unix(stat.Atim.Sec, stat.Atim.Nsec),
	}, nil
}
