package analysis_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tbphase/internal/analysis"
	"github.com/san-kum/tbphase/internal/dynamo"
	"github.com/san-kum/tbphase/internal/integrators"
	"github.com/san-kum/tbphase/internal/models"
)

var _ = Describe("Integrate", func() {
	var (
		p       models.Params
		horizon analysis.Horizon
		solver  integrators.Options
	)

	BeforeEach(func() {
		p = models.DefaultParams()
		horizon = analysis.DefaultHorizon()
		solver = integrators.DefaultOptions()
	})

	It("has nine fixed initial conditions", func() {
		ics := analysis.InitialConditions()
		Expect(ics).To(HaveLen(9))
		Expect(ics).To(ContainElement(analysis.Point{B: 0.1, I: 0.9}))
		Expect(ics).To(ContainElement(analysis.Point{B: 0.9, I: 0.1}))
	})

	DescribeTable("returns 500 time-ordered samples spanning [0, 50]",
		func(p models.Params) {
			trajectories := analysis.Integrate(p, analysis.InitialConditions(), horizon, solver)
			Expect(trajectories).To(HaveLen(9))

			for _, tr := range trajectories {
				Expect(tr.Err).NotTo(HaveOccurred())
				Expect(tr.Points).To(HaveLen(500))
				Expect(tr.Times).To(HaveLen(500))
				Expect(tr.Valid()).To(Equal(500))
				Expect(tr.Times[0]).To(Equal(0.0))
				Expect(tr.Times[499]).To(Equal(50.0))
				for k := 1; k < len(tr.Times); k++ {
					Expect(tr.Times[k]).To(BeNumerically(">=", tr.Times[k-1]))
				}
				Expect(tr.Points[0]).To(Equal(tr.Start))
			}
		},
		Entry("defaults", models.DefaultParams()),
		Entry("fast and bistable", models.Params{BetaB: 5, BetaI: 5, EtaB: 0.5, EtaI: 0.5}),
		Entry("TB wins", models.Params{BetaB: 0.1, BetaI: 5, EtaB: 2, EtaI: 0.5}),
		Entry("immune wins", models.Params{BetaB: 5, BetaI: 0.1, EtaB: 0.5, EtaI: 2}),
	)

	It("starts exactly at the initial condition", func() {
		tr := analysis.Integrate(p, []analysis.Point{{B: 0.5, I: 0.5}}, horizon, solver)[0]
		Expect(tr.Times[0]).To(Equal(0.0))
		Expect(tr.Points[0].B).To(Equal(0.5))
		Expect(tr.Points[0].I).To(Equal(0.5))
	})

	It("converges to the coexistence point under default parameters", func() {
		for _, tr := range analysis.Integrate(p, analysis.InitialConditions(), horizon, solver) {
			final, ok := tr.Final()
			Expect(ok).To(BeTrue())
			Expect(final.B).To(BeNumerically("~", 0.6, 1e-2))
			Expect(final.I).To(BeNumerically("~", 0.6, 1e-2))
		}
	})

	It("mirrors trajectories when the parameters are symmetric", func() {
		sym := models.Params{BetaB: 2.3, BetaI: 2.3, EtaB: 0.85, EtaI: 0.85}
		Expect(sym.Symmetric()).To(BeTrue())

		trs := analysis.Integrate(sym, []analysis.Point{{B: 0.1, I: 0.9}, {B: 0.9, I: 0.1}}, horizon, solver)
		a, b := trs[0], trs[1]
		for k := range a.Points {
			Expect(a.Points[k].B).To(BeNumerically("~", b.Points[k].I, 1e-9))
			Expect(a.Points[k].I).To(BeNumerically("~", b.Points[k].B, 1e-9))
		}
	})

	It("mirrors the whole system when the parameters are swapped", func() {
		q := models.Params{BetaB: 3.1, BetaI: 0.4, EtaB: 1.25, EtaI: 0.6}
		a := analysis.Integrate(q, []analysis.Point{{B: 0.2, I: 0.8}}, horizon, solver)[0]
		b := analysis.Integrate(q.Swapped(), []analysis.Point{{B: 0.8, I: 0.2}}, horizon, solver)[0]
		for k := range a.Points {
			Expect(a.Points[k].B).To(BeNumerically("~", b.Points[k].I, 1e-9))
			Expect(a.Points[k].I).To(BeNumerically("~", b.Points[k].B, 1e-9))
		}
	})

	Context("when the solver fails", func() {
		It("marks the missing samples invalid and keeps the others going", func() {
			nan := math.NaN()
			starts := []analysis.Point{{B: 0.5, I: 0.5}, {B: nan, I: 0.5}, {B: 0.2, I: 0.8}}
			trs := analysis.Integrate(p, starts, horizon, solver)
			Expect(trs).To(HaveLen(3))

			Expect(trs[0].Complete()).To(BeTrue())
			Expect(trs[2].Complete()).To(BeTrue())

			bad := trs[1]
			Expect(errors.Is(bad.Err, dynamo.ErrInvalidState)).To(BeTrue())
			Expect(bad.Points).To(HaveLen(500))
			Expect(bad.Valid()).To(Equal(0))
			_, ok := bad.Final()
			Expect(ok).To(BeFalse())
		})

		It("reports a step budget failure with a truncated prefix", func() {
			tight := integrators.Options{MaxSteps: 2}
			trs := analysis.Integrate(p, analysis.InitialConditions(), horizon, tight)
			for _, tr := range trs {
				var simErr *dynamo.SimulationError
				Expect(errors.As(tr.Err, &simErr)).To(BeTrue())
				Expect(errors.Is(tr.Err, dynamo.ErrStepLimit)).To(BeTrue())
				Expect(tr.Points).To(HaveLen(500))
				Expect(tr.Valid()).To(BeNumerically(">=", 1))
				Expect(tr.Valid()).To(BeNumerically("<", 500))
				Expect(math.IsNaN(tr.Points[499].B)).To(BeTrue())
			}
		})
	})
})

var _ = Describe("Compute", func() {
	It("is deterministic", func() {
		p := models.Params{BetaB: 1.7, BetaI: 0.6, EtaB: 1.1, EtaI: 1.85}
		first := analysis.Compute(p, analysis.DefaultOptions())
		second := analysis.Compute(p, analysis.DefaultOptions())

		Expect(second.Field).To(Equal(first.Field))
		Expect(second.Trajectories).To(Equal(first.Trajectories))
		Expect(second.Equilibria).To(Equal(first.Equilibria))
	})

	It("fills zero options with defaults", func() {
		portrait := analysis.Compute(models.DefaultParams(), analysis.Options{})
		Expect(portrait.Field.Samples).To(HaveLen(400))
		Expect(portrait.Trajectories).To(HaveLen(9))
		Expect(portrait.Trajectories[0].Points).To(HaveLen(500))
		Expect(portrait.Failed()).To(BeEmpty())
		Expect(portrait.Nullclines).To(HaveLen(2))
	})

	It("allocates fresh buffers on every pass", func() {
		a := analysis.Compute(models.DefaultParams(), analysis.Options{})
		b := analysis.Compute(models.DefaultParams(), analysis.Options{})
		a.Trajectories[0].Points[1].B = -1
		a.Field.Samples[5].DB = 7
		Expect(b.Trajectories[0].Points[1].B).NotTo(Equal(-1.0))
		Expect(b.Field.Samples[5].DB).NotTo(Equal(7.0))
	})
})
