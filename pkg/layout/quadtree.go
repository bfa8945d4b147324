package layout

import "math"

// maxQuadDepth stops subdivision for coincident or nearly coincident bodies;
// deeper leaves hold several members and repel them exactly.
const maxQuadDepth = 24

// quadNode is a Barnes-Hut cell covering the square [x0, x0+size) x [y0, y0+size).
type quadNode struct {
	x0, y0, size float64
	mass         float64
	sx, sy       float64 // mass-weighted coordinate sums
	members      []int   // leaf bodies
	kids         []*quadNode
}

func buildQuadTree(b []body) *quadNode {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range b {
		minX, maxX = math.Min(minX, b[i].x), math.Max(maxX, b[i].x)
		minY, maxY = math.Min(minY, b[i].y), math.Max(maxY, b[i].y)
	}
	size := math.Max(math.Max(maxX-minX, maxY-minY), 1e-6)
	root := &quadNode{x0: minX, y0: minY, size: size}
	for i := range b {
		root.insert(b, i, 0)
	}
	return root
}

func (q *quadNode) insert(b []body, i, depth int) {
	q.mass += b[i].mass
	q.sx += b[i].x * b[i].mass
	q.sy += b[i].y * b[i].mass

	if q.kids == nil {
		if len(q.members) == 0 || depth >= maxQuadDepth {
			q.members = append(q.members, i)
			return
		}
		existing := q.members
		q.members = nil
		q.split()
		for _, j := range existing {
			q.child(b[j]).insert(b, j, depth+1)
		}
	}
	q.child(b[i]).insert(b, i, depth+1)
}

func (q *quadNode) split() {
	half := q.size / 2
	q.kids = []*quadNode{
		{x0: q.x0, y0: q.y0, size: half},
		{x0: q.x0 + half, y0: q.y0, size: half},
		{x0: q.x0, y0: q.y0 + half, size: half},
		{x0: q.x0 + half, y0: q.y0 + half, size: half},
	}
}

func (q *quadNode) child(p body) *quadNode {
	half := q.size / 2
	idx := 0
	if p.x >= q.x0+half {
		idx |= 1
	}
	if p.y >= q.y0+half {
		idx |= 2
	}
	return q.kids[idx]
}

// repel accumulates the repulsion acting on body i. Cells that look small
// from i (size/distance < theta) act as a single body at their center of mass.
func (q *quadNode) repel(b []body, i int, theta, k float64) {
	if q.mass == 0 {
		return
	}

	if q.kids == nil {
		for _, j := range q.members {
			if j == i {
				continue
			}
			dx, dy := b[i].x-b[j].x, b[i].y-b[j].y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				continue
			}
			f := k * b[i].mass * b[j].mass / d2
			b[i].dx += dx * f
			b[i].dy += dy * f
		}
		return
	}

	cx, cy := q.sx/q.mass, q.sy/q.mass
	dx, dy := b[i].x-cx, b[i].y-cy
	d2 := dx*dx + dy*dy
	if d2 > 0 && q.size*q.size < theta*theta*d2 {
		f := k * b[i].mass * q.mass / d2
		b[i].dx += dx * f
		b[i].dy += dy * f
		return
	}

	for _, c := range q.kids {
		c.repel(b, i, theta, k)
	}
}
