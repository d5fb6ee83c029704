package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Viewer is the on-disk viewer configuration. Every field can be
// overridden by a command line flag.
type Viewer struct {
	ListenAddr string     `yaml:"listen_addr"`
	Model      string     `yaml:"model"`
	WebDir     string     `yaml:"web_dir"`
	Target     [3]float32 `yaml:"target"`
}

// Default returns the configuration used when no config file is given.
// The default target sits two meters in front of a typical model's face.
func Default() Viewer {
	return Viewer{
		ListenAddr: ":8000",
		WebDir:     "web",
		Target:     [3]float32{0, 1.4, 2},
	}
}

// Load reads a yaml config file over the defaults.
func Load(path string) (Viewer, error) {
	v := Default()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return v, errors.Wrapf(err, "Cannot read config %q", path)
	}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return v, errors.Wrapf(err, "Cannot parse config %q", path)
	}
	return v, nil
}
