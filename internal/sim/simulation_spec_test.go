package sim_test

import (
	"math/rand"

	g "github.com/onsi/ginkgo/v2"
	o "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

func at(x, y, m float64) dynamo.Body {
	return dynamo.Body{Pos: dynamo.Vec2{X: x, Y: y}, Mass: m}
}

func finite(bodies []dynamo.Body) bool {
	for _, b := range bodies {
		if !b.Pos.IsFinite() || !b.Vel.IsFinite() {
			return false
		}
	}
	return true
}

var _ = g.Describe("Simulation", func() {
	var opts sim.Options

	g.BeforeEach(func() {
		opts = sim.DefaultOptions(0.2)
	})

	g.Describe("construction", func() {
		g.It("rejects a body with non-positive mass", func() {
			_, err := sim.New([]dynamo.Body{at(0, 0, 1), at(5, 5, 0)}, opts)
			o.Expect(err).To(o.MatchError(dynamo.ErrInvalidMass))

			_, err = dynamo.NewBody(dynamo.Vec2{}, -3)
			o.Expect(err).To(o.MatchError(dynamo.ErrInvalidMass))
		})

		g.It("rejects an empty body set", func() {
			_, err := sim.New(nil, opts)
			o.Expect(err).To(o.MatchError(dynamo.ErrNoBodies))
		})
	})

	g.Describe("force symmetry", func() {
		g.It("gives equal and opposite forces for any pair", func() {
			field := physics.NewForceField(0.2)
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 200; i++ {
				a := at(rng.Float64()*560-280, rng.Float64()*560-280, 0.1+rng.Float64()*99.9)
				b := at(rng.Float64()*560-280, rng.Float64()*560-280, 0.1+rng.Float64()*99.9)

				fab := field.ForceBetween(a, b)
				fba := field.ForceBetween(b, a)
				o.Expect(fab.X).To(o.Equal(-fba.X))
				o.Expect(fab.Y).To(o.Equal(-fba.Y))
			}
		})
	})

	g.Describe("Step", func() {
		g.It("leaves a single body untouched", func() {
			s, err := sim.New([]dynamo.Body{at(12, -7, 40)}, opts)
			o.Expect(err).NotTo(o.HaveOccurred())

			s.Step()

			o.Expect(s.Body(0).Pos).To(o.Equal(dynamo.Vec2{X: 12, Y: -7}))
			o.Expect(s.Body(0).Vel).To(o.Equal(dynamo.Vec2{}))
		})

		g.It("conserves the momentum of an isolated pair", func() {
			s, err := sim.New([]dynamo.Body{at(-50, 10, 5), at(80, -30, 60)}, opts)
			o.Expect(err).NotTo(o.HaveOccurred())

			before := physics.Momentum(s.Bodies())
			s.Step()
			after := physics.Momentum(s.Bodies())

			o.Expect(after.X).To(o.BeNumerically("~", before.X, 1e-9))
			o.Expect(after.Y).To(o.BeNumerically("~", before.Y, 1e-9))
		})

		g.It("keeps coincident bodies finite", func() {
			for _, p := range []sim.Policy{sim.PolicySnapshot, sim.PolicySequential} {
				opts.Policy = p
				s, err := sim.New([]dynamo.Body{at(5, 5, 1), at(5, 5, 1)}, opts)
				o.Expect(err).NotTo(o.HaveOccurred())

				s.Step()

				o.Expect(finite(s.Bodies())).To(o.BeTrue(), "policy %s", p)
				o.Expect(s.Validate()).To(o.Succeed())
			}
		})

		g.It("integrates velocity before position", func() {
			s, err := sim.New([]dynamo.Body{at(0, 0, 1)}, opts)
			o.Expect(err).NotTo(o.HaveOccurred())

			o.Expect(s.ApplyForces([]dynamo.Vec2{{X: 1}})).To(o.Succeed())

			o.Expect(s.Body(0).Vel).To(o.Equal(dynamo.Vec2{X: 1}))
			o.Expect(s.Body(0).Pos).To(o.Equal(dynamo.Vec2{X: 1}))
		})
	})

	g.Describe("Drift", func() {
		g.It("is the unweighted mean position", func() {
			s, err := sim.New([]dynamo.Body{at(0, 0, 1), at(10, 0, 90), at(0, 10, 0.5)}, opts)
			o.Expect(err).NotTo(o.HaveOccurred())

			d := s.Drift()
			o.Expect(d.X).To(o.BeNumerically("~", 10.0/3.0, 1e-12))
			o.Expect(d.Y).To(o.BeNumerically("~", 10.0/3.0, 1e-12))
		})
	})

	g.Describe("a long run", func() {
		g.It("stays finite for the dense preset parameters", func() {
			rng := rand.New(rand.NewSource(42))
			bodies := make([]dynamo.Body, 90)
			for i := range bodies {
				bodies[i] = at(rng.Float64()*560-280, rng.Float64()*560-280, 0.1+rng.Float64()*99.9)
			}
			s, err := sim.New(bodies, sim.DefaultOptions(0.003))
			o.Expect(err).NotTo(o.HaveOccurred())

			for i := 0; i < 300; i++ {
				s.Step()
			}
			o.Expect(s.Validate()).To(o.Succeed())
			o.Expect(s.Frame()).To(o.Equal(300))
		})
	})
})
