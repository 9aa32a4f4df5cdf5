package registry

import "fmt"

// Engine semantic version reported across the boundary.
const (
	VersionMajor uint32 = 0
	VersionMinor uint32 = 1
	VersionPatch uint32 = 0
)

// Version returns the engine version as "major.minor.patch".
func Version() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
