package models

// PathParts is the decomposition of a path string
type PathParts struct {
	Drive      string   `json:"drive" yaml:"drive"`
	Root       string   `json:"root" yaml:"root"`
	Anchor     string   `json:"anchor" yaml:"anchor"` // Drive + Root
	Parent     string   `json:"parent" yaml:"parent"`
	Name       string   `json:"name" yaml:"name"`
	Stem       string   `json:"stem" yaml:"stem"`
	Suffix     string   `json:"suffix" yaml:"suffix"`
	Suffixes   []string `json:"suffixes" yaml:"suffixes"`
	Parts      []string `json:"parts" yaml:"parts"`
	IsAbsolute bool     `json:"is_absolute" yaml:"is_absolute"`
}

// KeyPair is an age X25519 key pair in its textual encoding
type KeyPair struct {
	PublicKey  string `json:"public_key" yaml:"public_key"`
	PrivateKey string `json:"private_key" yaml:"private_key"`
}
