package release

import "fmt"

// Gate decides whether built artifacts may be published.
// Publication requires both a version tag matching the configured library
// version and the active environment matching the designated deploy
// environment; everything else is a normal, non-publishing build.
type Gate struct {
	// Tag is the pushed version tag, for example "v24.01" (empty for
	// untagged builds)
	Tag string

	// Version is the configured bundled library version
	Version string

	// Environment is the active environment name
	Environment string

	// DeployEnvironment is the environment designated for publishing
	DeployEnvironment string
}

// ExpectedTag returns the tag that would allow publication
func (g Gate) ExpectedTag() string {
	return "v" + g.Version
}

// Allowed returns true when artifacts may be published
func (g Gate) Allowed() bool {
	return g.Tag != "" && g.Tag == g.ExpectedTag() && g.Environment == g.DeployEnvironment
}

// Reason explains why publication is blocked; empty when allowed
func (g Gate) Reason() string {
	switch {
	case g.Allowed():
		return ""
	case g.Tag == "":
		return "no version tag"
	case g.Tag != g.ExpectedTag():
		return fmt.Sprintf("tag %q does not match expected %q", g.Tag, g.ExpectedTag())
	default:
		return fmt.Sprintf("environment %q is not the deploy environment %q", g.Environment, g.DeployEnvironment)
	}
}
