package batch

import (
	"os"
	"time"
)

// Sleeper pauses between repositories; stubbed in tests.
type Sleeper interface {
	Sleep(duration time.Duration)
}

// SystemSleeper delegates to time.Sleep.
type SystemSleeper struct{}

// Sleep pauses the calling goroutine.
func (SystemSleeper) Sleep(duration time.Duration) {
	time.Sleep(duration)
}

// DirectoryController abstracts the process working directory and temporary
// directory creation so orchestration can be tested without touching the
// real filesystem state.
type DirectoryController interface {
	CurrentDirectory() (string, error)
	ChangeDirectory(path string) error
	CreateTemporaryDirectory(pattern string) (string, error)
}

// OSDirectoryController implements DirectoryController with the os package.
type OSDirectoryController struct{}

// CurrentDirectory returns the process working directory.
func (OSDirectoryController) CurrentDirectory() (string, error) {
	return os.Getwd()
}

// ChangeDirectory switches the process working directory.
func (OSDirectoryController) ChangeDirectory(path string) error {
	return os.Chdir(path)
}

// CreateTemporaryDirectory creates a fresh directory under the system
// temporary root.
func (OSDirectoryController) CreateTemporaryDirectory(pattern string) (string, error) {
	return os.MkdirTemp("", pattern)
}
