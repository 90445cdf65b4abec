package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// MinFreeBytes is the free space floor for the output directory. Engine
// downloads and intermediate WAVs are the main consumers.
const MinFreeBytes = 512 << 20

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least
// minBytes available.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/(1<<30))
	if free < minBytes {
		return Result{Name: name, Detail: detail + " below minimum"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckHFToken reports whether acoustic diarization has credentials. A
// missing token is not fatal for transcription-only use, so the detail
// says what stays disabled.
func CheckHFToken(token string) Result {
	const name = "Hugging Face token"
	if strings.TrimSpace(token) == "" {
		return Result{Name: name, Passed: true, Detail: "missing (voice diarization disabled)"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}
