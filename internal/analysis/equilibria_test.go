package analysis_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tbphase/internal/analysis"
	"github.com/san-kum/tbphase/internal/models"
)

func kinds(eqs []analysis.Equilibrium) map[analysis.Point]analysis.Stability {
	out := make(map[analysis.Point]analysis.Stability, len(eqs))
	for _, e := range eqs {
		out[e.Point] = e.Kind
	}
	return out
}

var _ = Describe("Equilibria", func() {
	It("classifies the default parameter set", func() {
		eqs := analysis.Equilibria(models.DefaultParams())
		Expect(eqs).To(HaveLen(4))

		k := kinds(eqs)
		Expect(k[analysis.Point{B: 0, I: 0}]).To(Equal(analysis.UnstableNode))
		Expect(k[analysis.Point{B: 1, I: 0}]).To(Equal(analysis.Saddle))
		Expect(k[analysis.Point{B: 0, I: 1}]).To(Equal(analysis.Saddle))

		interior := eqs[3]
		Expect(interior.B).To(BeNumerically("~", 0.6, 1e-12))
		Expect(interior.I).To(BeNumerically("~", 0.6, 1e-12))
		Expect(interior.Kind).To(Equal(analysis.StableNode))
		Expect(real(interior.Eigenvalues[0])).To(BeNumerically("~", -1.5, 1e-9))
		Expect(real(interior.Eigenvalues[1])).To(BeNumerically("~", -0.3, 1e-9))
	})

	It("finds a bistable regime when self-limitation is weak", func() {
		p := models.Params{BetaB: 5, BetaI: 5, EtaB: 0.5, EtaI: 0.5}
		eqs := analysis.Equilibria(p)
		Expect(eqs).To(HaveLen(4))

		k := kinds(eqs)
		Expect(k[analysis.Point{B: 1, I: 0}]).To(Equal(analysis.StableNode))
		Expect(k[analysis.Point{B: 0, I: 1}]).To(Equal(analysis.StableNode))
		Expect(eqs[3].B).To(BeNumerically("~", 1.0/3, 1e-12))
		Expect(eqs[3].Kind).To(Equal(analysis.Saddle))
	})

	It("omits the interior point when it leaves the quadrant", func() {
		p := models.Params{BetaB: 1, BetaI: 1, EtaB: 2, EtaI: 0.6}
		Expect(analysis.Equilibria(p)).To(HaveLen(3))
	})

	It("omits the interior point when the nullclines are parallel", func() {
		p := models.Params{BetaB: 1, BetaI: 1, EtaB: 2, EtaI: 0.5}
		Expect(p.EtaB * p.EtaI).To(Equal(1.0))
		Expect(analysis.Equilibria(p)).To(HaveLen(3))
	})

	It("only reports points where both derivatives vanish", func() {
		for _, p := range []models.Params{
			models.DefaultParams(),
			{BetaB: 0.3, BetaI: 4.4, EtaB: 1.9, EtaI: 1.35},
			{BetaB: 2, BetaI: 1, EtaB: 0.7, EtaI: 0.8},
		} {
			for _, e := range analysis.Equilibria(p) {
				db, di := models.Derivatives(p, e.B, e.I)
				Expect(db).To(BeNumerically("~", 0, 1e-12))
				Expect(di).To(BeNumerically("~", 0, 1e-12))
			}
		}
	})

	It("agrees with the long-run behaviour of the trajectories", func() {
		portrait := analysis.Compute(models.DefaultParams(), analysis.Options{})
		stable := portrait.Stable()
		Expect(stable).To(HaveLen(1))
		for _, tr := range portrait.Trajectories {
			final, _ := tr.Final()
			Expect(final.B).To(BeNumerically("~", stable[0].B, 1e-2))
			Expect(final.I).To(BeNumerically("~", stable[0].I, 1e-2))
		}
	})
})

var _ = Describe("Nullclines", func() {
	It("lies where the corresponding derivative vanishes", func() {
		p := models.Params{BetaB: 1.4, BetaI: 2.2, EtaB: 1.2, EtaI: 0.9}
		ncs := analysis.Nullclines(p, analysis.PlotMin, analysis.PlotMax)
		Expect(ncs).To(HaveLen(2))

		Expect(ncs[0].Points).NotTo(BeEmpty())
		for _, pt := range ncs[0].Points {
			db, _ := models.Derivatives(p, pt.B, pt.I)
			Expect(db).To(BeNumerically("~", 0, 1e-12))
		}
		Expect(ncs[1].Points).NotTo(BeEmpty())
		for _, pt := range ncs[1].Points {
			_, di := models.Derivatives(p, pt.B, pt.I)
			Expect(di).To(BeNumerically("~", 0, 1e-12))
		}
	})

	It("stays inside the plot frame", func() {
		for _, nc := range analysis.Nullclines(models.Params{BetaB: 1, BetaI: 1, EtaB: 2, EtaI: 2}, 0, 1.2) {
			for _, pt := range nc.Points {
				Expect(pt.B).To(BeNumerically(">=", 0))
				Expect(pt.B).To(BeNumerically("<=", 1.2))
				Expect(pt.I).To(BeNumerically(">=", 0))
				Expect(pt.I).To(BeNumerically("<=", 1.2))
			}
		}
	})
})
