// Package hostinfo identifies the machine the service runs on.
//
// The identity decides whether a target variant gets a local device and
// which device name is never written to the config store.
package hostinfo

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Info is the running host's identity.
type Info struct {
	// Hostname is the computer name.
	Hostname string `json:"hostname"`

	// OS is the operating system, in runtime.GOOS spelling.
	OS string `json:"os"`

	// Arch is the CPU architecture, in runtime.GOARCH spelling.
	Arch string `json:"arch"`
}

// infoFunc matches host.InfoWithContext.
type infoFunc func(context.Context) (*host.InfoStat, error)

// Detect queries the host.
func Detect(ctx context.Context) (Info, error) {
	return detect(ctx, host.InfoWithContext)
}

// Fallback builds an Info from the Go runtime and os.Hostname, for when
// Detect fails.
func Fallback() Info {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "localhost"
	}
	return Info{Hostname: name, OS: runtime.GOOS, Arch: runtime.GOARCH}
}

func detect(ctx context.Context, fn infoFunc) (Info, error) {
	stat, err := fn(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("reading host info: %w", err)
	}

	info := Info{
		Hostname: stat.Hostname,
		OS:       strings.ToLower(stat.OS),
		Arch:     NormalizeArch(stat.KernelArch),
	}
	if info.OS == "" {
		info.OS = runtime.GOOS
	}
	if info.Arch == "" {
		info.Arch = runtime.GOARCH
	}
	if info.Hostname == "" {
		info.Hostname = Fallback().Hostname
	}
	return info, nil
}

// NormalizeArch maps kernel architecture names to runtime.GOARCH names.
func NormalizeArch(kernelArch string) string {
	switch strings.ToLower(kernelArch) {
	case "x86_64", "amd64", "x64":
		return "amd64"
	case "aarch64", "arm64", "armv8", "armv8l":
		return "arm64"
	case "i386", "i686", "x86":
		return "386"
	default:
		return strings.ToLower(kernelArch)
	}
}

// CanRun reports whether this host can run binaries for a target OS and
// architecture.
func (i Info) CanRun(targetOS, targetArch string) bool {
	return i.OS == targetOS && i.Arch == targetArch
}
