package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// WorkerEnv builds the worker environment from the supervisor section.
type WorkerEnv struct {
	// Path is the dotenv file; empty means no file.
	Path string
	// Inherit starts from the supervisor's own environment.
	Inherit bool

	FileSystem FileSystem
	Environ    func() []string
}

// WorkerEnv returns the worker environment builder for this config.
func (c *SupervisorConfig) WorkerEnv(fs FileSystem) *WorkerEnv {
	if fs == nil {
		fs = &RealFileSystem{}
	}
	return &WorkerEnv{
		Path:       c.EnvFile,
		Inherit:    c.InheritEnv,
		FileSystem: fs,
		Environ:    os.Environ,
	}
}

// Load assembles the environment. A nil map with a nil error means the
// worker inherits the supervisor environment unchanged.
func (e *WorkerEnv) Load() (map[string]string, error) {
	if e.Path == "" {
		if e.Inherit {
			return nil, nil
		}
		return map[string]string{}, nil
	}

	fromFile, err := e.FileSystem.ReadEnv(e.Path)
	if err != nil {
		return nil, err
	}
	if !e.Inherit {
		return fromFile, nil
	}

	env := environToMap(e.Environ())
	for k, v := range fromFile {
		env[k] = v
	}
	return env, nil
}

func environToMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// readEnvFile parses a dotenv file without exporting it.
func readEnvFile(path string) (map[string]string, error) {
	return godotenv.Read(path)
}
