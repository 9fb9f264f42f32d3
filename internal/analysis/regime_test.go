package analysis_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tbphase/internal/analysis"
	"github.com/san-kum/tbphase/internal/models"
)

var _ = Describe("ClassifyRegime", func() {
	DescribeTable("regimes",
		func(p models.Params, want analysis.Regime) {
			Expect(analysis.ClassifyRegime(p)).To(Equal(want))
		},
		Entry("defaults coexist", models.DefaultParams(), analysis.Coexistence),
		Entry("weak self-limiting is bistable", models.Params{BetaB: 5, BetaI: 5, EtaB: 0.5, EtaI: 0.5}, analysis.Bistable),
		Entry("weak immune self-limiting favors TB", models.Params{BetaB: 1, BetaI: 1, EtaB: 1.5, EtaI: 0.6}, analysis.TBDominant),
		Entry("weak TB self-limiting favors immunity", models.Params{BetaB: 1, BetaI: 1, EtaB: 0.6, EtaI: 1.5}, analysis.ImmuneDominant),
		Entry("marginal case", models.Params{BetaB: 1, BetaI: 1, EtaB: 1.5, EtaI: 1.0}, analysis.Indeterminate),
	)

	It("agrees with where the trajectories end", func() {
		p := models.Params{BetaB: 1, BetaI: 1, EtaB: 1.5, EtaI: 0.6}
		pt := analysis.Compute(p, analysis.Options{})
		for _, tr := range pt.Trajectories {
			final, ok := tr.Final()
			Expect(ok).To(BeTrue())
			Expect(final.B).To(BeNumerically("~", 1, 1e-2))
			Expect(final.I).To(BeNumerically("~", 0, 1e-2))
		}
	})

	It("has a distinct symbol per regime", func() {
		seen := map[rune]bool{}
		for _, r := range []analysis.Regime{analysis.Coexistence, analysis.TBDominant, analysis.ImmuneDominant, analysis.Bistable, analysis.Indeterminate} {
			Expect(seen).NotTo(HaveKey(r.Symbol()))
			seen[r.Symbol()] = true
		}
	})
})
