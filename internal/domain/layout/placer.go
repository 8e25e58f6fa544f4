package layout

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
	"github.com/turtacn/KeyIP-Layout/internal/domain/ringsystem"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
)

// placer assigns initial coordinates unit by unit in tree order.  Every unit
// is built in its own frame around the origin and then moved rigidly onto
// its parent connection.
type placer struct {
	g      *molecule.Graph
	rs     *ringsystem.Result
	ug     *UnitGraph
	c      *geometry.Coords
	opts   Options
	logger logging.Logger
	stats  *Stats
}

func (p *placer) place() {
	for _, ui := range p.ug.Order {
		u := p.ug.Units[ui]
		switch u.Kind {
		case UnitRingSystem:
			p.placeRingUnit(u)
		case UnitChain:
			p.placeChain(u)
		default:
			p.placeSingle(u)
		}
	}
}

func (p *placer) inUnit(u *Unit) func(int) bool {
	return func(id int) bool { return p.ug.AtomUnit[id] == u.Index }
}

// freeDirection returns the direction of the widest gap around atom among
// its placed neighbours, ignoring those for which skip returns true.
func (p *placer) freeDirection(atom int, skip func(int) bool) float64 {
	var nbrs []r2.Vec
	for _, nb := range p.g.Neighbors(atom) {
		if p.c.Has(nb) && !skip(nb) {
			nbrs = append(nbrs, p.c.At(nb))
		}
	}
	return geometry.LargestGap(p.c.At(atom), nbrs, 0)
}

// detach moves a fragment root that has no bond to the rest of the drawing
// to the right of everything placed so far.
func (p *placer) detach(u *Unit) {
	own := p.inUnit(u)
	var others []int
	for _, id := range p.c.Placed() {
		if !own(id) {
			others = append(others, id)
		}
	}
	ob, ok := p.c.Bounds(others)
	if !ok {
		return
	}
	ub, ok := p.c.Bounds(u.Atoms)
	if !ok {
		return
	}
	shift := r2.Vec{
		X: ob.Max.X + 2*p.opts.BondLength - ub.Min.X,
		Y: ob.Center().Y - ub.Center().Y,
	}
	p.c.Translate(u.Atoms, shift)
	p.logger.Debug("placed detached fragment", logging.Int("unit", int(u.Index)), logging.Int("atoms", len(u.Atoms)))
}

// ─────────────────────────────────────────────────────────────────────────────
// Ring systems
// ─────────────────────────────────────────────────────────────────────────────

func (p *placer) placeRingUnit(u *Unit) {
	if u.Index == p.ug.Root && u.Bridged() && p.opts.UseTemplates && p.applyTemplate(u) {
		return
	}
	p.placeRings(u)
	switch {
	case u.Attachment != nil:
		p.attachRigid(u)
	case u.Parent != NoUnit:
		p.detach(u)
	}
}

func (p *placer) applyTemplate(u *Unit) bool {
	for i := range catalogue {
		t := &catalogue[i]
		mapping, ok := matchTemplate(p.g, u.Atoms, t)
		if !ok {
			continue
		}
		scale := p.opts.BondLength / t.MeanBondLength()
		for ti, id := range mapping {
			p.c.Set(id, r2.Scale(scale, t.Coords[ti]))
		}
		p.stats.TemplateUsed = t.Name
		p.logger.Debug("applied cage template", logging.String("template", t.Name), logging.Int("unit", int(u.Index)))
		return true
	}
	return false
}

// placeRings lays out every ring of the unit's system, seed first, then
// breadth first over ring adjacency.
func (p *placer) placeRings(u *Unit) {
	sys := u.System
	l := p.opts.BondLength
	done := make(map[int]bool, len(u.Atoms))

	seed := p.rs.Rings[sys.Seed]
	var pts []r2.Vec
	if seed.Size() > 6 {
		pts = relaxMacrocycle(seed.Size(), l, p.opts.MacrocycleIterations)
	} else {
		pts = geometry.RegularPolygon(seed.Size(), l)
	}
	for i, id := range seed.Atoms {
		p.c.Set(id, pts[i])
		done[id] = true
	}

	placed := map[int]bool{sys.Seed: true}
	queue := []int{sys.Seed}
	for len(queue) > 0 {
		ri := queue[0]
		queue = queue[1:]
		for _, nb := range sys.Adjacency[ri] {
			if placed[nb] {
				continue
			}
			p.placeRing(p.rs.Rings[nb], done)
			placed[nb] = true
			queue = append(queue, nb)
		}
	}
	for _, ri := range sys.Rings {
		if !placed[ri] {
			p.placeRing(p.rs.Rings[ri], done)
		}
	}
}

func (p *placer) placeRing(r ringsystem.Ring, done map[int]bool) {
	n := r.Size()
	have := make([]bool, n)
	count := 0
	for i, id := range r.Atoms {
		if done[id] {
			have[i] = true
			count++
		}
	}
	switch count {
	case n:
		return
	case 0:
		p.placeDisjointRing(r, done)
		return
	case 1:
		for i := range have {
			if have[i] {
				p.placeSpiroRing(r, i, done)
				return
			}
		}
	case 2:
		for i := range have {
			j := (i + 1) % n
			if !have[i] || !have[j] {
				continue
			}
			if p.g.HasBond(r.Atoms[i], r.Atoms[j]) {
				p.placeFusedRing(r, i, done)
			} else {
				p.placeByTranslation(r, i, done)
			}
			return
		}
	}
	p.placeBridgeRuns(r, have, done)
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for id, ok := range m {
		if ok {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func side(a, b, q r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(q, a))
}

// placeFusedRing aligns a regular polygon onto the shared edge at ring
// positions i and i+1, on the side away from the placed rings.  If the
// result crowds the placed atoms the mirror image is tried once.
func (p *placer) placeFusedRing(r ringsystem.Ring, i int, done map[int]bool) {
	n := r.Size()
	l := p.opts.BondLength
	a, b := r.Atoms[i], r.Atoms[(i+1)%n]
	pa, pb := p.c.At(a), p.c.At(b)
	tpl := geometry.RegularPolygon(n, l)
	t := geometry.AlignSegment(tpl[i], tpl[(i+1)%n], pa, pb)

	var others []int
	for _, id := range sortedKeys(done) {
		if id != a && id != b {
			others = append(others, id)
		}
	}
	if c, ok := p.c.Centroid(others); ok {
		if side(pa, pb, t.Apply(r2.Vec{}))*side(pa, pb, c) > 0 {
			t = geometry.Compose(geometry.Reflection(pa, pb), t)
		}
	}

	project := func(t geometry.Transform) []r2.Vec {
		out := make([]r2.Vec, n)
		for j := range tpl {
			out[j] = t.Apply(tpl[j])
		}
		return out
	}
	pts := project(t)
	if clear := p.clearance(r, pts, others, done); clear < 0.65*l {
		alt := project(geometry.Compose(geometry.Reflection(pa, pb), t))
		if p.clearance(r, alt, others, done) > clear {
			pts = alt
		}
	}
	for j, id := range r.Atoms {
		if !done[id] {
			p.c.Set(id, pts[j])
			done[id] = true
		}
	}
}

// clearance is the smallest distance between a new ring atom and the
// already placed atoms of the unit.
func (p *placer) clearance(r ringsystem.Ring, pts []r2.Vec, others []int, done map[int]bool) float64 {
	best := math.Inf(1)
	for j, id := range r.Atoms {
		if done[id] {
			continue
		}
		for _, o := range others {
			if d := r2.Norm(r2.Sub(pts[j], p.c.At(o))); d < best {
				best = d
			}
		}
	}
	return best
}

// placeSpiroRing orients the new ring so it opens away from the bisector of
// the spiro atom's placed neighbours.
func (p *placer) placeSpiroRing(r ringsystem.Ring, i int, done map[int]bool) {
	s := r.Atoms[i]
	ps := p.c.At(s)
	var sum r2.Vec
	var nbrs []r2.Vec
	for _, nb := range p.g.Neighbors(s) {
		if !done[nb] {
			continue
		}
		d := r2.Sub(p.c.At(nb), ps)
		if r2.Norm2(d) > 0 {
			sum = r2.Add(sum, r2.Unit(d))
		}
		nbrs = append(nbrs, p.c.At(nb))
	}
	var away r2.Vec
	if r2.Norm(sum) > 1e-9 {
		away = r2.Scale(-1, r2.Unit(sum))
	} else {
		away = geometry.FromAngle(geometry.LargestGap(ps, nbrs, 0), 1)
	}
	tpl := geometry.RegularPolygon(r.Size(), p.opts.BondLength)
	t := geometry.AlignSegment(tpl[i], r2.Vec{}, ps, r2.Add(ps, away))
	p.setFromTemplate(r, tpl, t, done)
}

// placeByTranslation handles two adjacent ring positions that are not
// bonded: the polygon is only translated onto the atom at position i.
func (p *placer) placeByTranslation(r ringsystem.Ring, i int, done map[int]bool) {
	tpl := geometry.RegularPolygon(r.Size(), p.opts.BondLength)
	t := geometry.Translation(r2.Sub(p.c.At(r.Atoms[i]), tpl[i]))
	p.setFromTemplate(r, tpl, t, done)
	p.logger.Warn("ring edge is not bonded, attached by translation", logging.Ints("ring", r.Atoms))
}

func (p *placer) placeDisjointRing(r ringsystem.Ring, done map[int]bool) {
	l := p.opts.BondLength
	tpl := geometry.RegularPolygon(r.Size(), l)
	var off r2.Vec
	if box, ok := p.c.Bounds(sortedKeys(done)); ok {
		off = r2.Vec{X: box.Max.X + l + geometry.CircumRadius(r.Size(), l), Y: box.Center().Y}
	}
	p.setFromTemplate(r, tpl, geometry.Translation(off), done)
}

func (p *placer) setFromTemplate(r ringsystem.Ring, tpl []r2.Vec, t geometry.Transform, done map[int]bool) {
	for j, id := range r.Atoms {
		if done[id] {
			continue
		}
		p.c.Set(id, t.Apply(tpl[j]))
		done[id] = true
	}
}

// placeBridgeRuns draws every unplaced run of ring atoms as an arc between
// its placed flanking atoms, bulging away from the placed atoms.
func (p *placer) placeBridgeRuns(r ringsystem.Ring, have []bool, done map[int]bool) {
	n := r.Size()
	l := p.opts.BondLength
	centre, _ := p.c.Centroid(sortedKeys(done))
	for i := 0; i < n; i++ {
		if have[i] || !have[(i+n-1)%n] {
			continue
		}
		var run []int
		j := i
		for !have[j] {
			run = append(run, r.Atoms[j])
			j = (j + 1) % n
		}
		pa, pb := p.c.At(r.Atoms[(i+n-1)%n]), p.c.At(r.Atoms[j])
		mid := r2.Scale(0.5, r2.Add(pa, pb))
		out := r2.Sub(mid, centre)
		if r2.Norm(out) < 1e-6*l {
			chord := r2.Sub(pb, pa)
			out = r2.Vec{X: -chord.Y, Y: chord.X}
		}
		pts := geometry.Arc(pa, pb, len(run), l, r2.Add(mid, out))
		for k, id := range run {
			p.c.Set(id, pts[k])
			done[id] = true
		}
	}
}

// attachRigid turns and moves a placed ring-system unit so its connection
// atom sits one bond from the parent atom with its exocyclic direction
// pointing back at the parent.
func (p *placer) attachRigid(u *Unit) {
	a := u.Attachment
	l := p.opts.BondLength
	pp := p.c.At(a.ParentAtom)
	dir := p.freeDirection(a.ParentAtom, p.inUnit(u))
	target := r2.Add(pp, geometry.FromAngle(dir, l))

	pc := p.c.At(a.ChildAtom)
	exo := p.exoVector(u, a.ChildAtom)
	turn := dir + math.Pi - geometry.Direction(exo)
	t := geometry.Compose(geometry.Translation(r2.Sub(target, pc)), geometry.Rotation(turn, pc))
	p.c.Apply(u.Atoms, t)
}

func (p *placer) exoVector(u *Unit, id int) r2.Vec {
	own := p.inUnit(u)
	var sum r2.Vec
	n := 0
	for _, nb := range p.g.Neighbors(id) {
		if own(nb) {
			sum = r2.Add(sum, p.c.At(nb))
			n++
		}
	}
	pos := p.c.At(id)
	if n > 0 {
		if v := r2.Sub(pos, r2.Scale(1/float64(n), sum)); r2.Norm(v) > 1e-6*p.opts.BondLength {
			return v
		}
	}
	if c, ok := p.c.Centroid(u.Atoms); ok {
		if v := r2.Sub(pos, c); r2.Norm(v) > 1e-6*p.opts.BondLength {
			return v
		}
	}
	return r2.Vec{X: 1}
}

// ─────────────────────────────────────────────────────────────────────────────
// Chains and single atoms
// ─────────────────────────────────────────────────────────────────────────────

type chainStep struct {
	atom, from int
	sign       float64
}

// placeChain grows a chain breadth first from its connection atom.  Each
// atom spreads its unplaced neighbours, including reserved slots for
// neighbours in other units, around the incoming bond.
func (p *placer) placeChain(u *Unit) {
	own := p.inUnit(u)
	l := p.opts.BondLength

	start, from := chainStart(p.g, u, own), -1
	var pos r2.Vec
	if a := u.Attachment; a != nil {
		start, from = a.ChildAtom, a.ParentAtom
		pos = r2.Add(p.c.At(from), geometry.FromAngle(p.freeDirection(from, own), l))
	}
	p.c.Set(start, pos)
	seen := map[int]bool{start: true}

	queue := []chainStep{{atom: start, from: from, sign: 1}}
	for len(queue) > 0 {
		st := queue[0]
		queue = queue[1:]
		var next []int
		reserved := 0
		for _, nb := range p.g.Neighbors(st.atom) {
			switch {
			case nb == st.from:
			case own(nb):
				if !seen[nb] {
					next = append(next, nb)
				}
			case !p.c.Has(nb):
				reserved++
			}
		}
		if len(next) == 0 {
			continue
		}
		here := p.c.At(st.atom)
		k := len(next) + reserved
		if st.atom == start && st.from >= 0 && k == 1 {
			st.sign = p.zigzagSign(st, here)
		}
		dirs := p.branchDirections(st, k)
		for i, nb := range next {
			p.c.Set(nb, r2.Add(here, geometry.FromAngle(dirs[i], l)))
			seen[nb] = true
			queue = append(queue, chainStep{atom: nb, from: st.atom, sign: -st.sign})
		}
	}
	if u.Attachment == nil && u.Parent != NoUnit {
		p.detach(u)
	}
}

// chainStart picks the lowest id atom with at most one neighbour inside the
// chain.
func chainStart(g *molecule.Graph, u *Unit, own func(int) bool) int {
	for _, id := range u.Atoms {
		inner := 0
		for _, nb := range g.Neighbors(id) {
			if own(nb) {
				inner++
			}
		}
		if inner <= 1 {
			return id
		}
	}
	return u.Atoms[0]
}

// branchDirections returns k bond directions leaving st.atom.
func (p *placer) branchDirections(st chainStep, k int) []float64 {
	out := make([]float64, k)
	if st.from < 0 {
		for i := range out {
			out[i] = 2 * math.Pi * float64(i) / float64(k)
		}
		return out
	}
	back := geometry.Direction(r2.Sub(p.c.At(st.from), p.c.At(st.atom)))
	switch k {
	case 1:
		out[0] = back + st.sign*2*math.Pi/3
	case 2:
		out[0], out[1] = back+2*math.Pi/3, back-2*math.Pi/3
	case 3:
		out[0], out[1], out[2] = back-math.Pi/2, back+math.Pi/2, back+math.Pi
	default:
		for i := range out {
			out[i] = back + 2*math.Pi*float64(i+1)/float64(k+1)
		}
	}
	return out
}

// zigzagSign picks the turn for the first chain bond that keeps the next
// atom furthest from what is already drawn.
func (p *placer) zigzagSign(st chainStep, here r2.Vec) float64 {
	back := geometry.Direction(r2.Sub(p.c.At(st.from), here))
	best, bestSign := -1.0, 1.0
	for _, s := range []float64{1, -1} {
		cand := r2.Add(here, geometry.FromAngle(back+s*2*math.Pi/3, p.opts.BondLength))
		clear := math.Inf(1)
		for _, id := range p.c.Placed() {
			if id == st.atom {
				continue
			}
			if d := r2.Norm(r2.Sub(cand, p.c.At(id))); d < clear {
				clear = d
			}
		}
		if clear > best+1e-9 {
			best, bestSign = clear, s
		}
	}
	return bestSign
}

func (p *placer) placeSingle(u *Unit) {
	id := u.Atoms[0]
	if a := u.Attachment; a != nil {
		dir := p.freeDirection(a.ParentAtom, p.inUnit(u))
		p.c.Set(id, r2.Add(p.c.At(a.ParentAtom), geometry.FromAngle(dir, p.opts.BondLength)))
		return
	}
	p.c.Set(id, r2.Vec{})
	if u.Parent != NoUnit {
		p.detach(u)
	}
}
