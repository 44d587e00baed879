package onnxrt

import (
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// SharedLibraryEnv names the environment variable consulted when no explicit
// shared library path is configured.
const SharedLibraryEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

// ResolveSharedLibraryPath picks the onnxruntime shared library to load:
// the explicit path if set, then $ONNXRUNTIME_SHARED_LIBRARY_PATH, then the
// platform's conventional library name, left for the dynamic loader to find.
func ResolveSharedLibraryPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := strings.TrimSpace(os.Getenv(SharedLibraryEnv)); env != "" {
		return env, nil
	}
	return defaultSharedLibraryName(runtime.GOOS, runtime.GOARCH)
}

func defaultSharedLibraryName(goos, goarch string) (string, error) {
	switch goos {
	case "windows":
		if goarch == "amd64" || goarch == "arm64" {
			return "onnxruntime.dll", nil
		}
	case "darwin":
		return "libonnxruntime.dylib", nil
	case "linux", "freebsd":
		return "libonnxruntime.so", nil
	}
	return "", errors.Errorf("unable to find a version of the onnxruntime library supporting %s %s; set %s", goos, goarch, SharedLibraryEnv)
}
