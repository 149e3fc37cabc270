package rules

import (
	"runtime"
)

// Operating system identifiers.
const (
	OSLinux   = "linux"
	OSMacOS   = "macos"
	OSWindows = "windows"
)

// Architecture identifiers.
const (
	ArchX86_64  = "x86_64"
	ArchX86     = "x86"
	ArchAarch64 = "aarch64"
	ArchArm     = "arm"
)

// Platform is the host a rule list is evaluated against. Tests construct it
// directly to simulate other hosts.
type Platform struct {
	OS      string
	Arch    string
	Version string
}

var goosNames = map[string]string{
	"linux":   OSLinux,
	"darwin":  OSMacOS,
	"windows": OSWindows,
}

var goarchNames = map[string]string{
	"amd64": ArchX86_64,
	"386":   ArchX86,
	"arm64": ArchAarch64,
	"arm":   ArchArm,
}

// Current describes the running process.
func Current() Platform {
	p := Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
	if n, ok := goosNames[p.OS]; ok {
		p.OS = n
	}
	if n, ok := goarchNames[p.Arch]; ok {
		p.Arch = n
	}
	return p
}

// ManifestOSName is the name used for this OS by library "natives" maps.
func (p Platform) ManifestOSName() string {
	if p.OS == OSMacOS {
		return "osx"
	}
	return p.OS
}

// PointerWidth replaces ${arch} in classifier keys.
func (p Platform) PointerWidth() string {
	switch p.Arch {
	case ArchX86, ArchArm:
		return "32"
	}
	return "64"
}

// PathListSeparator joins classpath entries.
func (p Platform) PathListSeparator() string {
	if p.OS == OSWindows {
		return ";"
	}
	return ":"
}

func (p Platform) matchName(name string) bool {
	if name == "osx" {
		name = OSMacOS
	}
	return name == p.OS
}

func (p Platform) matchArch(arch string) bool {
	return arch == p.Arch || (arch == ArchX86 && p.Arch == ArchX86_64)
}
