package hidden

// Hidden lives in an internal package and is not part of the surface.
func Hidden() {}
