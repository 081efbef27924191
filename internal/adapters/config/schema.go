package config

// Workfile represents the structure of the folio.yaml workspace file.
// Directories are relative to the file's directory unless absolute.
type Workfile struct {
	Version string `yaml:"version"`
	Source  string `yaml:"source"`
	Config  string `yaml:"config"`
	Cache   string `yaml:"cache"`
	Output  string `yaml:"output"`
	Ext     string `yaml:"ext"`
}

// optionsFile mirrors options.toml.
type optionsFile struct {
	Title   string         `mapstructure:"title"`
	Library librarySection `mapstructure:"library"`
	Assets  assetsSection  `mapstructure:"assets"`
}

type librarySection struct {
	Paths []string `mapstructure:"paths"`
}

type assetsSection struct {
	Root string `mapstructure:"root"`
}

const defaultWorkfile = `version: "1"
source: docs
config: config
cache: .folio
output: public
ext: .md
`

const defaultOptions = `title = "folio"

[library]
# Source files, relative to the source directory, that are shared by other
# documents instead of being built on their own.
paths = []

[assets]
# Static files copied as-is, relative to the config directory.
root = "assets"
`

const defaultIndex = `# Welcome

This page was created by folio init. Link other pages with [[about.md]].
`
