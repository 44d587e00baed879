package onnxrt

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSharedLibraryPath_ExplicitWins(t *testing.T) {
	t.Setenv(SharedLibraryEnv, "/from/env/libonnxruntime.so")

	got, err := ResolveSharedLibraryPath("/explicit/libonnxruntime.so")

	require.NoError(t, err)
	assert.Equal(t, "/explicit/libonnxruntime.so", got)
}

func TestResolveSharedLibraryPath_EnvFallback(t *testing.T) {
	t.Setenv(SharedLibraryEnv, "  /from/env/libonnxruntime.so ")

	got, err := ResolveSharedLibraryPath("")

	require.NoError(t, err)
	assert.Equal(t, "/from/env/libonnxruntime.so", got)
}

func TestResolveSharedLibraryPath_PlatformDefault(t *testing.T) {
	t.Setenv(SharedLibraryEnv, "")

	got, err := ResolveSharedLibraryPath("")
	want, wantErr := defaultSharedLibraryName(runtime.GOOS, runtime.GOARCH)

	assert.Equal(t, want, got)
	assert.Equal(t, wantErr, err)
}

func TestDefaultSharedLibraryName(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"linux", "amd64", "libonnxruntime.so"},
		{"linux", "arm64", "libonnxruntime.so"},
		{"darwin", "arm64", "libonnxruntime.dylib"},
		{"windows", "amd64", "onnxruntime.dll"},
	}
	for _, tt := range tests {
		got, err := defaultSharedLibraryName(tt.goos, tt.goarch)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s/%s", tt.goos, tt.goarch)
	}
}

func TestDefaultSharedLibraryName_Unsupported(t *testing.T) {
	_, err := defaultSharedLibraryName("plan9", "386")

	assert.ErrorContains(t, err, "plan9 386")
}
