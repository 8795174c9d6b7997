package toplevel

// CapabilitySet lists which optional toplevel fields carry meaning in a
// session. Title and app id are always supported.
type CapabilitySet struct {
	Identifier bool
	Fullscreen bool
	Activated  bool
	Minimized  bool
	Maximized  bool
}

// Resolve derives the capabilities of the bound dialect.
func Resolve(d Dialect) CapabilitySet {
	switch d {
	case DialectWlr:
		return CapabilitySet{
			Fullscreen: true,
			Activated:  true,
			Minimized:  true,
			Maximized:  true,
		}
	case DialectExt:
		return CapabilitySet{Identifier: true}
	default:
		return CapabilitySet{}
	}
}
