package analysis_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tbphase/internal/analysis"
	"github.com/san-kum/tbphase/internal/models"
)

var _ = Describe("EvaluateField", func() {
	var p models.Params

	BeforeEach(func() {
		p = models.DefaultParams()
	})

	It("samples a 20x20 lattice over [0, 1.2]²", func() {
		field := analysis.EvaluateField(p, analysis.DefaultGrid())
		Expect(field.Samples).To(HaveLen(400))

		Expect(field.At(0, 0).Point).To(Equal(analysis.Point{B: 0, I: 0}))
		Expect(field.At(0, 19).Point).To(Equal(analysis.Point{B: 1.2, I: 0}))
		Expect(field.At(19, 0).Point).To(Equal(analysis.Point{B: 0, I: 1.2}))
		Expect(field.At(19, 19).Point).To(Equal(analysis.Point{B: 1.2, I: 1.2}))
		Expect(field.At(3, 7).B).To(BeNumerically("~", 7*1.2/19, 1e-15))
		Expect(field.At(3, 7).I).To(BeNumerically("~", 3*1.2/19, 1e-15))
	})

	DescribeTable("normalizes every non-degenerate arrow to unit length",
		func(p models.Params) {
			field := analysis.EvaluateField(p, analysis.DefaultGrid())
			for _, s := range field.Samples {
				if s.Degenerate {
					continue
				}
				Expect(s.Magnitude).To(BeNumerically(">", analysis.DegenerateEpsilon))
				Expect(math.Hypot(s.DB, s.DI)).To(BeNumerically("~", 1, 1e-9))
			}
		},
		Entry("defaults", models.DefaultParams()),
		Entry("strong suppression", models.Params{BetaB: 5, BetaI: 5, EtaB: 0.5, EtaI: 0.5}),
		Entry("asymmetric", models.Params{BetaB: 0.1, BetaI: 4.2, EtaB: 2.0, EtaI: 0.75}),
		Entry("minimum", models.Params{BetaB: 0.1, BetaI: 0.1, EtaB: 0.5, EtaI: 0.5}),
	)

	It("points the same way as the raw derivative", func() {
		s := analysis.FieldAt(p, analysis.Point{B: 0.2, I: 0.3})
		db, di := models.Derivatives(p, 0.2, 0.3)
		Expect(s.DB * s.Magnitude).To(BeNumerically("~", db, 1e-12))
		Expect(s.DI * s.Magnitude).To(BeNumerically("~", di, 1e-12))
	})

	Context("at an equilibrium", func() {
		It("returns a defined zero vector at the origin", func() {
			s := analysis.FieldAt(p, analysis.Point{B: 0, I: 0})
			Expect(s.Degenerate).To(BeTrue())
			Expect(s.DB).To(Equal(0.0))
			Expect(s.DI).To(Equal(0.0))
			Expect(math.IsNaN(s.DB) || math.IsNaN(s.DI)).To(BeFalse())
		})

		It("flags only the origin on the default grid", func() {
			field := analysis.EvaluateField(p, analysis.DefaultGrid())
			degenerate := field.Degenerate()
			Expect(degenerate).To(HaveLen(1))
			Expect(degenerate[0].Point).To(Equal(analysis.Point{}))
		})

		It("is zero regardless of parameters", func() {
			for _, q := range []models.Params{
				{BetaB: 5, BetaI: 0.1, EtaB: 2, EtaI: 0.5},
				{BetaB: 0.1, BetaI: 5, EtaB: 0.5, EtaI: 2},
			} {
				Expect(analysis.FieldAt(q, analysis.Point{}).Degenerate).To(BeTrue())
			}
		})

		It("treats the interior fixed point as degenerate", func() {
			s := analysis.FieldAt(p, analysis.Point{B: 0.6, I: 0.6})
			Expect(s.Magnitude).To(BeNumerically("<", 1e-15))
			Expect(s.Degenerate).To(BeTrue())
		})
	})
})
