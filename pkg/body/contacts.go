package body

import (
	"sort"

	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
)

// GroundName is the obstacle name reported for ground contacts
const GroundName = "ground"

// Obstacle is a static circular obstacle
type Obstacle struct {
	Name  string
	Shape physics.Circle
}

// Course is the static geometry airplanes fly through: a ground line and a
// set of obstacles. Detection is a linear scan; courses are small.
type Course struct {
	GroundY   float64
	HasGround bool
	Obstacles []Obstacle
}

// Hit is one contact between a body and the course
type Hit struct {
	Obstacle string
	Contact  physics.Contact
}

// Detect returns every contact of the body with the course, deepest first
func (c Course) Detect(b *Body) []Hit {
	collider := b.Collider()
	var hits []Hit

	if c.HasGround {
		if contact := physics.CheckGround(collider, c.GroundY); contact.Collided {
			hits = append(hits, Hit{Obstacle: GroundName, Contact: contact})
		}
	}
	for _, o := range c.Obstacles {
		if contact := physics.CheckCollision(collider, o.Shape); contact.Collided {
			hits = append(hits, Hit{Obstacle: o.Name, Contact: contact})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Contact.Penetration > hits[j].Contact.Penetration
	})
	return hits
}

// Approaching reports whether velocity moves into the contact surface.
// Separating or sliding contacts need no bounce.
func Approaching(velocity physics.Vector2D, contact physics.Contact) bool {
	return velocity.Dot(contact.Normal) < 0
}

// Separate pushes the body out of a contact along its normal
func (b *Body) Separate(contact physics.Contact) {
	if !contact.Collided || contact.Penetration <= 0 {
		return
	}
	b.Translate(contact.Normal.Scale(contact.Penetration))
}
