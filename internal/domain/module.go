package domain

// ModuleInfo describes one handler's manifest, loaded once per handler
// directory at startup. Immutable after load.
type ModuleInfo struct {
	// Name is the handler's human-readable name.
	Name string `yaml:"name" json:"name"`

	// PackageID is the Android package identifier the handler automates
	// (e.g. "com.tencent.mm"). Used by the package-score routing signal.
	PackageID string `yaml:"packageId" json:"packageId"`

	// Keywords contribute to the keyword routing score.
	Keywords []string `yaml:"keywords" json:"keywords"`

	// Description is shown by the "modules" shell subcommand.
	Description string `yaml:"description" json:"description"`
}
