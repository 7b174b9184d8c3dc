package bench_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/geometry"
	"github.com/san-kum/slitsim/internal/optics"
)

var _ = Describe("Controller", func() {
	var ctrl *bench.Controller

	BeforeEach(func() {
		var err error
		ctrl, err = bench.New(optics.DefaultParameters())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("rejects parameters outside the limits", func() {
			p := optics.DefaultParameters()
			p.SlitWidth = -0.1
			_, err := bench.New(p)
			Expect(err).To(MatchError(optics.ErrOutOfRange))
		})

		It("rejects a layout that puts the laser at the focal point", func() {
			p := optics.DefaultParameters()
			p.FocalLength = 0.5
			layout := geometry.DefaultLayout()
			layout.LensX = layout.LaserX + 50
			_, err := bench.New(p, bench.WithLayout(layout))
			Expect(err).To(MatchError(optics.ErrDegenerateGeometry))
		})

		It("rejects empty sampling", func() {
			_, err := bench.New(optics.DefaultParameters(), bench.WithSampling(diffraction.Symmetric(1e-3), 0))
			Expect(err).To(MatchError(optics.ErrInvalidSampling))
		})
	})

	Describe("computeIntensity", func() {
		It("is exactly 1 on the axis for any valid parameters", func() {
			for _, a := range []float64{0.05e-3, 0.17e-3, 0.5e-3} {
				_, err := ctrl.SetSlitWidth(a)
				Expect(err).NotTo(HaveOccurred())
				Expect(ctrl.Intensity(0)).To(Equal(1.0))
			}
		})

		It("is symmetric about the axis", func() {
			for _, y := range []float64{0.3e-3, 4e-3, 9.9e-3, 0.2} {
				Expect(ctrl.Intensity(y)).To(Equal(ctrl.Intensity(-y)))
			}
		})

		It("stays within (0, 1]", func() {
			for i := 1; i < 500; i++ {
				v := ctrl.Intensity(float64(i) * 4.1e-5)
				Expect(v).To(BeNumerically(">", 0))
				Expect(v).To(BeNumerically("<=", 1))
			}
		})

		It("matches the y=5mm reference point", func() {
			Expect(ctrl.Intensity(5e-3)).To(BeNumerically("~", 0.0611, 5e-4))
		})
	})

	Describe("computeProfile", func() {
		It("normalizes to a maximum of 1", func() {
			pr, err := ctrl.Profile(diffraction.Symmetric(10e-3), 250)
			Expect(err).NotTo(HaveOccurred())
			Expect(pr.Len()).To(Equal(250))
			Expect(pr.Max()).To(BeNumerically("~", 1.0, 1e-12))
		})

		It("rejects a non-positive sample count or range", func() {
			_, err := ctrl.Profile(diffraction.Symmetric(10e-3), 0)
			Expect(err).To(MatchError(optics.ErrInvalidSampling))
			_, err = ctrl.Profile(diffraction.Range{}, 10)
			Expect(err).To(MatchError(optics.ErrInvalidSampling))
		})
	})

	Describe("setters", func() {
		It("rejects a negative slit width and keeps the prior parameters", func() {
			before := ctrl.Parameters()
			_, err := ctrl.SetParameter(optics.ParamSlitWidth, -0.1)

			var re *optics.RangeError
			Expect(err).To(BeAssignableToTypeOf(re))
			Expect(err).To(MatchError(optics.ErrOutOfRange))
			Expect(ctrl.Parameters()).To(Equal(before))
		})

		It("rejects non-positive screen distance and focal length", func() {
			_, err := ctrl.SetScreenDistance(0)
			Expect(err).To(MatchError(optics.ErrOutOfRange))
			_, err = ctrl.SetFocalLength(-1)
			Expect(err).To(MatchError(optics.ErrOutOfRange))
			Expect(ctrl.Parameters()).To(Equal(optics.DefaultParameters()))
		})

		It("rejects unknown parameter names", func() {
			_, err := ctrl.SetParameter("wavelength", 500e-9)
			Expect(err).To(MatchError(optics.ErrUnknownParameter))
		})

		It("returns a consistent snapshot", func() {
			snap, err := ctrl.SetSlitWidth(0.2e-3)
			Expect(err).NotTo(HaveOccurred())

			Expect(snap.Parameters.SlitWidth).To(Equal(0.2e-3))
			Expect(snap.Parameters).To(Equal(ctrl.Parameters()))
			Expect(snap.Rays).To(HaveLen(5))
			Expect(snap.Profile.Len()).To(Equal(bench.DefaultSamples))
			Expect(snap.Profile.Max()).To(BeNumerically("~", 1.0, 1e-12))
			Expect(snap.Probe.Intensity).To(Equal(ctrl.Intensity(snap.Parameters.Probe)))
		})

		It("dispatches by name and returns the recomputed snapshot", func() {
			snap, err := ctrl.Set(optics.ParamFocalLength, 0.9)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Parameters.FocalLength).To(Equal(0.9))
			Expect(snap.Parameters).To(Equal(ctrl.Parameters()))

			_, err = ctrl.Set(optics.ParamFocalLength, 2)
			Expect(err).To(MatchError(optics.ErrOutOfRange))
			Expect(ctrl.Parameters().FocalLength).To(Equal(0.9))
		})

		It("reads the probe at the requested position", func() {
			snap, err := ctrl.SetProbePosition(5e-3)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Probe.Position).To(Equal(5e-3))
			Expect(snap.Probe.Intensity).To(BeNumerically("~", 0.0611, 5e-4))

			_, err = ctrl.SetProbePosition(math.NaN())
			Expect(err).To(MatchError(optics.ErrOutOfRange))
			Expect(ctrl.Parameters().Probe).To(Equal(5e-3))
		})

		It("leaves the other parameters untouched", func() {
			_, err := ctrl.SetScreenDistance(2.5)
			Expect(err).NotTo(HaveOccurred())

			p := ctrl.Parameters()
			d := optics.DefaultParameters()
			Expect(p.ScreenDistance).To(Equal(2.5))
			Expect(p.SlitWidth).To(Equal(d.SlitWidth))
			Expect(p.FocalLength).To(Equal(d.FocalLength))
			Expect(p.Probe).To(Equal(d.Probe))
		})

		It("moves the first null out as the slit narrows", func() {
			wide, err := ctrl.SetSlitWidth(0.4e-3)
			Expect(err).NotTo(HaveOccurred())
			narrow, err := ctrl.SetSlitWidth(0.08e-3)
			Expect(err).NotTo(HaveOccurred())
			Expect(narrow.FirstNull).To(BeNumerically(">", wide.FirstNull))
		})

		It("scales null positions linearly with the screen distance", func() {
			near, err := ctrl.SetScreenDistance(1)
			Expect(err).NotTo(HaveOccurred())
			far, err := ctrl.SetScreenDistance(4)
			Expect(err).NotTo(HaveOccurred())
			Expect(far.FirstNull / near.FirstNull).To(BeNumerically("~", 4, 1e-9))
		})

		It("retains state when the new focal length makes the geometry singular", func() {
			layout := geometry.DefaultLayout()
			layout.LensX = layout.LaserX + 40 // d1 = 0.4m
			c, err := bench.New(optics.DefaultParameters(), bench.WithLayout(layout))
			Expect(err).NotTo(HaveOccurred())

			_, err = c.SetFocalLength(0.4)
			Expect(err).To(MatchError(optics.ErrDegenerateGeometry))
			Expect(c.Parameters().FocalLength).To(Equal(0.5))
		})
	})

	Describe("computeRayPaths", func() {
		It("returns a degenerate geometry error when d1 == f", func() {
			layout := geometry.DefaultLayout()
			layout.LensX = layout.LaserX + 50 // d1 = 0.5m = f
			rays, err := ctrl.RayPaths(layout)
			Expect(err).To(MatchError(optics.ErrDegenerateGeometry))
			Expect(rays).To(BeNil())
		})

		It("traces the default bench", func() {
			rays, err := ctrl.RayPaths(geometry.DefaultLayout())
			Expect(err).NotTo(HaveOccurred())
			Expect(rays).To(HaveLen(5))
			for _, r := range rays {
				for _, pt := range r.Points() {
					Expect(math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0)).To(BeFalse())
				}
			}
		})
	})

	Describe("Reset", func() {
		It("restores the initial parameters", func() {
			_, err := ctrl.SetSlitWidth(0.3e-3)
			Expect(err).NotTo(HaveOccurred())
			snap := ctrl.Reset()
			Expect(snap.Parameters).To(Equal(optics.DefaultParameters()))
			Expect(ctrl.Parameters()).To(Equal(optics.DefaultParameters()))
		})
	})

	Describe("phase convention", func() {
		It("halves the first null under the full phase form", func() {
			full, err := bench.New(optics.DefaultParameters(), bench.WithConvention(diffraction.FullPhase))
			Expect(err).NotTo(HaveOccurred())
			a, err := ctrl.Snapshot()
			Expect(err).NotTo(HaveOccurred())
			b, err := full.Snapshot()
			Expect(err).NotTo(HaveOccurred())
			Expect(b.FirstNull).To(BeNumerically("<", a.FirstNull))
			Expect(full.Convention()).To(Equal(diffraction.FullPhase))
		})
	})
})
