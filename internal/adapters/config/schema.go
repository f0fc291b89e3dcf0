package config

// File represents the structure of the pathwatch.yaml configuration file.
// Pointer fields distinguish "absent" from an explicit zero.
type File struct {
	Exclude        []string `yaml:"exclude"`
	Debounce       string   `yaml:"debounce"`
	MaxPaths       *int     `yaml:"maxPaths"`
	FloodThreshold *int     `yaml:"floodThreshold"`
	Listen         string   `yaml:"listen"`
}
