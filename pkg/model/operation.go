package model

// OpKind is the direction of a transaction operation.
type OpKind string

const (
	// OpInstall installs the named packages.
	OpInstall OpKind = "install"
	// OpRemove removes the named packages.
	OpRemove OpKind = "remove"
	// OpUpgrade marks history entries written by upgrade runs. It is a
	// recording-only kind: upgrades cannot be undone or redone.
	OpUpgrade OpKind = "upgrade"
)

// Operation is a pure data description of an install or remove request.
// The history store returns these for undo/redo and the engine interprets
// them; the store never calls back into the engine.
type Operation struct {
	Kind     OpKind
	Packages []string
	Purge    bool
}

// Inverse returns the operation that reverses this one.
func (o Operation) Inverse() Operation {
	kind := OpInstall
	if o.Kind == OpInstall {
		kind = OpRemove
	}
	return Operation{Kind: kind, Packages: o.Packages, Purge: o.Purge}
}
