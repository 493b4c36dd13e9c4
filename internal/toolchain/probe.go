// Package toolchain checks whether the cross-compilation toolchain for a
// target is available on the running host.
package toolchain

import (
	"os"
	"runtime"

	"github.com/nerrad567/targetplatform/internal/platform"
)

// Environment variables naming the toolchain location on a non-Linux host.
const (
	EnvMultiarchRoot = "LINUX_MULTIARCH_ROOT"
	EnvLegacyRoot    = "LINUX_ROOT"
)

// DocumentationPath points at the setup guide shown when the SDK is missing.
const DocumentationPath = "Platforms/Linux/GettingStarted"

// Probe inspects the host. The function fields exist so tests can fake
// the environment and the filesystem.
type Probe struct {
	HostOS string
	Getenv func(string) string
	Stat   func(string) (os.FileInfo, error)
}

// NewProbe returns a probe for the running process.
func NewProbe() Probe {
	return Probe{
		HostOS: runtime.GOOS,
		Getenv: os.Getenv,
		Stat:   os.Stat,
	}
}

// Requirements describes the project being built.
type Requirements struct {
	ProjectHasCode bool

	// RequiresTempTarget is set when enabled plugins force a project-specific build target.
	RequiresTempTarget bool

	// BundledLibraries is set when the installed engine ships the target's
	// prebuilt libraries, which code projects need when cross-compiling.
	BundledLibraries bool
}

// IsSdkInstalled reports whether a toolchain for targetOS is usable from
// this host, and the documentation path to show if it is not.
//
// Building on the target OS needs nothing extra. Otherwise a directory
// named by LINUX_MULTIARCH_ROOT is accepted, then a clang++ under
// LINUX_ROOT. It panics if the host OS has no known toolchain layout.
func (p Probe) IsSdkInstalled(targetOS string) (bool, string) {
	if p.HostOS == targetOS {
		return true, ""
	}

	if root := p.Getenv(EnvMultiarchRoot); root != "" && p.isDir(root) {
		return true, ""
	}

	compiler := p.Getenv(EnvLegacyRoot)
	switch p.HostOS {
	case platform.OSWindows:
		compiler += "/bin/clang++.exe"
	case platform.OSDarwin:
		compiler += "/bin/clang++"
	default:
		panic("toolchain: unable to target " + targetOS + " from unknown host " + p.HostOS)
	}

	if p.isFile(compiler) {
		return true, ""
	}
	return false, DocumentationPath
}

// CheckRequirements aggregates the readiness flags for building the
// project for targetOS on this host.
func (p Probe) CheckRequirements(targetOS string, req Requirements) (platform.ReadyStatus, string) {
	status := platform.Ready

	installed, docPath := p.IsSdkInstalled(targetOS)
	if !installed {
		status |= platform.SDKNotFound
	}

	if p.HostOS != targetOS && !req.BundledLibraries {
		if req.ProjectHasCode {
			status |= platform.CodeUnsupported
		}
		if req.RequiresTempTarget {
			status |= platform.PluginsUnsupported
		}
	}

	return status, docPath
}

func (p Probe) isDir(path string) bool {
	fi, err := p.Stat(path)
	return err == nil && fi.IsDir()
}

func (p Probe) isFile(path string) bool {
	fi, err := p.Stat(path)
	return err == nil && !fi.IsDir()
}
