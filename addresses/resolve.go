// This file is part of cdsplit.
//
// cdsplit is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// cdsplit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with cdsplit.  If not, see <https://www.gnu.org/licenses/>.

package addresses

import (
	"github.com/cdsplit/cdsplit/curated"
	"github.com/cdsplit/cdsplit/process"
	"github.com/cdsplit/cdsplit/signature"
)

// Patterns for curated errors returned by this package.
const (
	UnknownBuild = "addresses: unrecognised build of the game"
	Unresolved   = "addresses: cannot resolve %s: %v"
	NoModule     = "addresses: %v"
)

type resolver struct {
	mem     process.Module
	base    process.Address
	size    uint64
	version GameVersion

	// the pointer table
	ptr process.Address

	// the LEA anchor. 64 bit builds only
	lea process.Address
}

func (r *resolver) scan(sig signature.Signature) (process.Address, bool) {
	return sig.ScanRange(r.mem, r.base, r.size)
}

// relative decodes a 32 bit RIP-relative operand at addr.
func (r *resolver) relative(addr process.Address) (process.Address, error) {
	v, err := process.ReadU32(r.mem, addr)
	if err != nil {
		return 0, err
	}
	return addr + 4 + process.Address(v), nil
}

// follow a pointer path. read failures along the path result in a zero value
// being used for that step, the same as a null pointer in the game. this is
// not an error because some pointers are only valid once the game has finished
// initialising. the address is used as it is and will produce failed (zero)
// reads until the game sets it up.
func (r *resolver) follow(p pointerPath) process.Address {
	if !r.version.Is64Bit() {
		a := process.Address(process.ReadU32OrZero(r.mem, r.ptr+process.Address(p.offset1)))
		v := process.Address(process.ReadU32OrZero(r.mem, a+process.Address(p.offset2)))
		return v + process.Address(p.offset3)
	}

	if p.offset1 == 0 {
		return r.lea + process.Address(p.offset3)
	}

	t := process.ReadU32OrZero(r.mem, r.ptr+process.Address(p.offset1))
	t2 := r.base + process.Address(t) + process.Address(p.offset2)
	v := process.Address(process.ReadU32OrZero(r.mem, t2))
	if p.absolute {
		return r.base + v + process.Address(p.offset3)
	}
	return t2 + 4 + v + process.Address(p.offset3)
}

// identify the build and find the pointer table.
func (r *resolver) identify() (bool, error) {
	type candidate struct {
		sig     signature.Signature
		version GameVersion
	}

	for _, c := range []candidate{
		{sig32Retail, Retail},
		{sig32Decomp100, Decomp32v100},
		{sig32Decomp131, Decomp32v131},
		{sig64Decomp100, Decomp64v100},
		{sig64Decomp131, Decomp64v131},
	} {
		addr, ok := r.scan(c.sig)
		if !ok {
			continue
		}
		r.version = c.version

		var bug bool
		switch c.version {
		case Retail:
			bug = true
		case Decomp32v100:
			_, fixed := r.scan(sig32DecompTimerFix)
			bug = !fixed
		case Decomp64v100:
			_, fixed := r.scan(sig64DecompTimerFix)
			bug = !fixed
		}

		if !c.version.Is64Bit() {
			ptr, err := process.ReadAddress32(r.mem, addr+3)
			if err != nil {
				return false, curated.Errorf(Unresolved, "pointer table", err)
			}
			r.ptr = ptr
			return bug, nil
		}

		t, err := process.ReadU32(r.mem, addr+4)
		if err != nil {
			return false, curated.Errorf(Unresolved, "pointer table", err)
		}
		r.ptr = r.base + process.Address(t)

		lea, ok := r.scan(sig64DecompLEA)
		if !ok {
			return false, curated.Errorf(Unresolved, "entity list", "signature not found")
		}
		r.lea, err = r.relative(lea + 3)
		if err != nil {
			return false, curated.Errorf(Unresolved, "entity list", err)
		}

		return bug, nil
	}

	return false, curated.Errorf(UnknownBuild)
}

// timer finds the addresses of the centiseconds, seconds and minutes
// counters.
func (r *resolver) timer(a *Addresses) error {
	if !r.version.Is64Bit() {
		sig := sig32DecompCentisecs
		ops := timerDecomp32
		if r.version == Retail {
			sig = sig32RetailCentisecs
			ops = timerRetail
		}

		p, ok := r.scan(sig)
		if !ok {
			return curated.Errorf(Unresolved, "timer", "signature not found")
		}

		var err error
		if a.Centisecs, err = process.ReadAddress32(r.mem, p+process.Address(ops.centisecs)); err != nil {
			return curated.Errorf(Unresolved, "centiseconds", err)
		}
		if a.Seconds, err = process.ReadAddress32(r.mem, p+process.Address(ops.seconds)); err != nil {
			return curated.Errorf(Unresolved, "seconds", err)
		}
		if a.Minutes, err = process.ReadAddress32(r.mem, p+process.Address(ops.minutes)); err != nil {
			return curated.Errorf(Unresolved, "minutes", err)
		}
		return nil
	}

	ops := timerDecomp64
	p, ok := r.scan(sig64DecompCentisecs)
	if !ok {
		ops = timerDecomp64V2
		p, ok = r.scan(sig64DecompCentisecsV2)
		if !ok {
			return curated.Errorf(Unresolved, "timer", "signature not found")
		}
	}

	var err error
	if a.Centisecs, err = r.relative(p + process.Address(ops.centisecs)); err != nil {
		return curated.Errorf(Unresolved, "centiseconds", err)
	}
	if a.Seconds, err = r.relative(p + process.Address(ops.seconds)); err != nil {
		return curated.Errorf(Unresolved, "seconds", err)
	}
	if a.Minutes, err = r.relative(p + process.Address(ops.minutes)); err != nil {
		return curated.Errorf(Unresolved, "minutes", err)
	}
	return nil
}

// Resolve identifies the build of the game and the addresses of the
// variables. An error is returned if the build cannot be identified or if the
// game has not loaded far enough for the addresses to be found. In both cases
// the caller should try again later.
func Resolve(mem process.Module) (*Addresses, error) {
	base, size, err := mem.MainModule()
	if err != nil {
		return nil, curated.Errorf(NoModule, err)
	}

	r := &resolver{
		mem:  mem,
		base: base,
		size: size,
	}

	bug, err := r.identify()
	if err != nil {
		return nil, err
	}

	l := layouts[r.version]

	a := &Addresses{
		Version:         r.version,
		HasCentisecsBug: bug,
		DemoMode:        r.follow(l.demoMode),
		State:           r.follow(l.state),
		ScoreTallyState: r.follow(l.scoreTallyState),
		TimeBonus:       r.follow(l.timeBonus),
		BossHealthGood:  r.follow(l.bossHealthGood),
		BossHealthBad:   r.follow(l.bossHealthBad),
		LevelID:         r.follow(l.levelID),
		LevelIDType:     r.follow(l.levelIDType),
		TimerIsRunning:  r.follow(l.timerIsRunning),
	}

	if err := r.timer(a); err != nil {
		return nil, err
	}

	return a, nil
}
