package rlimit

// RLimit is empty on Windows, there is no runtime limit to inherit
type RLimit struct{}

// PrepareRLimit returns nothing, the stack of a Windows executable is
// reserved at link time
func (r *RLimits) PrepareRLimit() []RLimit {
	return nil
}

// Apply is a no-op
func Apply(rls []RLimit) (func(), error) {
	return func() {}, nil
}

func (r RLimit) String() string {
	return "None"
}
