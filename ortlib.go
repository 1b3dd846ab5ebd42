package streamvad

import (
	"os"
	"path/filepath"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"
)

// InitRuntime locates a bundled ONNX Runtime shared library and initializes
// the runtime environment. It is optional: when the runtime is already on the
// system's default library path, NewSileroModel initializes the environment
// itself. Safe to call more than once.
func InitRuntime() error {
	if ort.IsInitialized() {
		return nil
	}
	if p := resolveBundledLib(candidateBaseDirs()); p != "" {
		ort.SetSharedLibraryPath(p)
	}
	return ort.InitializeEnvironment()
}

// bundledLibNames returns candidate filenames for the ONNX Runtime shared
// library on the current OS. Official Linux releases ship a versioned .so;
// the first existing file wins.
func bundledLibNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libonnxruntime.dylib"}
	case "windows":
		return []string{"onnxruntime.dll"}
	default:
		return []string{"libonnxruntime.so.1.23.2", "libonnxruntime.so"}
	}
}

// dataDirLibName is the runtime filename when stored next to the model files
// (e.g. data/onnxruntime_arm64.dylib).
func dataDirLibName() string {
	switch runtime.GOOS {
	case "darwin":
		return "onnxruntime_" + runtime.GOARCH + ".dylib"
	case "windows":
		return "onnxruntime.dll"
	default:
		return "onnxruntime_" + runtime.GOARCH + ".so"
	}
}

// candidateBaseDirs returns directories searched for a bundled runtime: the
// working directory first, then the running executable's directory.
func candidateBaseDirs() []string {
	cwd, _ := os.Getwd()
	exe, err := os.Executable()
	if err != nil {
		return []string{cwd}
	}
	exeDir := filepath.Dir(exe)
	if exeDir == cwd {
		return []string{cwd}
	}
	return []string{cwd, exeDir}
}

// resolveBundledLib returns the first existing path among data/<name> and
// lib/<GOOS_GOARCH>/<name> under the candidate base directories.
func resolveBundledLib(baseDirs []string) string {
	platform := runtime.GOOS + "_" + runtime.GOARCH
	dataName := dataDirLibName()
	for _, base := range baseDirs {
		if base == "" {
			continue
		}
		p := filepath.Join(base, "data", dataName)
		if pathExists(p) {
			return p
		}
	}
	for _, base := range baseDirs {
		if base == "" {
			continue
		}
		for _, name := range bundledLibNames() {
			p := filepath.Join(base, "lib", platform, name)
			if pathExists(p) {
				return p
			}
		}
	}
	return ""
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
