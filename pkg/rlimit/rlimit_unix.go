//go:build linux || darwin

package rlimit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// RLimit is the resource limit defined by setrlimit
type RLimit struct {
	// Res is the resource type (e.g. unix.RLIMIT_STACK)
	Res int
	// Rlim is the limit applied to that resource
	Rlim unix.Rlimit
}

// PrepareRLimit creates rlimit structures for the child
func (r *RLimits) PrepareRLimit() []RLimit {
	var ret []RLimit
	if r.UnlimitedStack {
		ret = append(ret, RLimit{
			Res:  unix.RLIMIT_STACK,
			Rlim: unix.Rlimit{Cur: Infinity, Max: Infinity},
		})
	}
	return ret
}

// Apply sets rls on the current process so that children forked afterwards
// inherit them. A limit above the hard limit the process may set is lowered
// to that hard limit. The returned function restores the previous limits.
func Apply(rls []RLimit) (func(), error) {
	var prev []RLimit
	restore := func() {
		for i := len(prev) - 1; i >= 0; i-- {
			unix.Setrlimit(prev[i].Res, &prev[i].Rlim)
		}
	}
	for _, rl := range rls {
		var old unix.Rlimit
		if err := unix.Getrlimit(rl.Res, &old); err != nil {
			restore()
			return nil, err
		}
		lim := rl.Rlim
		if err := unix.Setrlimit(rl.Res, &lim); err != nil {
			if err != unix.EPERM && err != unix.EINVAL {
				restore()
				return nil, err
			}
			lim = capRlimit(rl.Rlim, old.Max)
			if err := unix.Setrlimit(rl.Res, &lim); err != nil {
				restore()
				return nil, err
			}
		}
		prev = append(prev, RLimit{Res: rl.Res, Rlim: old})
	}
	return restore, nil
}

func capRlimit(r unix.Rlimit, hard uint64) unix.Rlimit {
	if r.Max > hard {
		r.Max = hard
	}
	if r.Cur > r.Max {
		r.Cur = r.Max
	}
	return r
}

func limitString(v uint64) string {
	if v == Infinity {
		return "unlimited"
	}
	return fmt.Sprintf("%d", v)
}

func (r RLimit) String() string {
	t := fmt.Sprintf("Res(%d)", r.Res)
	if r.Res == unix.RLIMIT_STACK {
		t = "Stack"
	}
	return fmt.Sprintf("%s[%s:%s]", t, limitString(r.Rlim.Cur), limitString(r.Rlim.Max))
}
