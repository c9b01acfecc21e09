// Package version carries the build stamp reported to replicas and upstream APIs
package version

// stamped with -ldflags "-X weeklypedia/internal/core/version.tag=v0.3.1"
var tag = "dev"

// Tag returns the build tag, "dev" for unstamped builds
func Tag() string { return tag }

// Product returns the "name/tag" token used in outbound User-Agent headers
func Product() string { return "weeklypedia/" + tag }
