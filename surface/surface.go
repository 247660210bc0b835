// Package surface owns the isolated rendering surface of a reader: the
// browser page that shows generated article content or a live webpage.
//
// A surface is never navigated to new content. When the entry or the mode
// changes, the old surface is closed and a new one is opened; Controller
// enforces this and applies the security policy to every surface.
package surface

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSurface is returned by operations that need a live surface.
var ErrNoSurface = errors.New("surface: no surface")

// ErrInsecurePolicy is returned when a Spec weakens the mandatory policy.
var ErrInsecurePolicy = errors.New("surface: policy must isolate, disable dialogs and gate autoplay")

// Partition is the network and storage scope of a surface.
type Partition int

const (
	// PartitionDefault is shared by generated-content surfaces.
	PartitionDefault Partition = iota
	// PartitionSandbox is a throwaway scope for arbitrary webpages: no
	// cookies or cache shared with anything else.
	PartitionSandbox
)

func (p Partition) String() string {
	if p == PartitionSandbox {
		return "sandbox"
	}
	return "default"
}

// AutoplayUserActivation only lets media play after a user gesture.
const AutoplayUserActivation = "document-user-activation-required"

// Policy is the security configuration of a surface.
type Policy struct {
	ContextIsolation bool
	DisableDialogs   bool
	Autoplay         string
}

// DefaultPolicy is the policy every surface gets.
func DefaultPolicy() Policy {
	return Policy{
		ContextIsolation: true,
		DisableDialogs:   true,
		Autoplay:         AutoplayUserActivation,
	}
}

// PartitionFor returns the partition for a surface: webpages go to the
// sandbox.
func PartitionFor(webpage bool) Partition {
	if webpage {
		return PartitionSandbox
	}
	return PartitionDefault
}

// Spec describes a surface to open.
type Spec struct {
	Key       string // identity; a new key always means a new surface
	EntryID   string
	URL       string
	Partition Partition
	Policy    Policy
	Instance  string // bridge instance tag of the owning reader
}

// Validate checks that the spec is complete and keeps the mandatory policy.
func (s Spec) Validate() error {
	if s.Key == "" || s.URL == "" {
		return fmt.Errorf("surface: spec needs a key and a URL")
	}
	if s.Policy != DefaultPolicy() {
		return ErrInsecurePolicy
	}
	return nil
}

// Listener receives lifecycle signals for the surface with a given key.
type Listener interface {
	// Mounted: the surface started loading; clear loaded and error flags.
	Mounted(key string)
	// Loaded: the surface finished loading.
	Loaded(key string)
}

// Surface is a live rendering surface.
type Surface interface {
	Focus() error
	Reload() error
	Close() error
}

// Factory opens surfaces. Load errors are reported through the bridge
// under spec.Instance and spec.Key; load completion through l. Input
// signals from inside the surface are always attributed to spec.Instance.
type Factory interface {
	Open(ctx context.Context, spec Spec, l Listener) (Surface, error)
}

// List is the entry list next to the reader.
type List interface {
	ScrollIntoView(entryID string)
	Refocus(entryID string)
}
