package sim_test

import (
	"context"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/raster"
	"github.com/san-kum/orbitsim/internal/sim"
)

type fakePlatform struct {
	surface    *raster.ImageSurface
	closeAfter int
}

func (p *fakePlatform) Surface() raster.Surface { return p.surface }
func (p *fakePlatform) ShouldClose() bool       { return p.surface.Presented >= p.closeAfter }

type countMetric struct {
	observed int
}

func (m *countMetric) Name() string                          { return "count" }
func (m *countMetric) Observe(_ []*physics.Body, _ float64) { m.observed++ }
func (m *countMetric) Value() float64                        { return float64(m.observed) }
func (m *countMetric) Reset()                                { m.observed = 0 }

var _ = Describe("Simulator", func() {
	var (
		cfg *config.Config
		s   *sim.Simulator
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.FPS = 0
		var err error
		s, err = sim.FromConfig(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Step", func() {
		It("advances the clock by dt per tick", func() {
			for i := 0; i < 3; i++ {
				Expect(s.Step()).To(Succeed())
			}
			Expect(s.Tick()).To(Equal(3))
			Expect(s.Time()).To(BeNumerically("~", 3*86400.0))
		})

		It("moves the planets", func() {
			earth, ok := s.Body("earth")
			Expect(ok).To(BeTrue())
			before := earth.Position

			Expect(s.Step()).To(Succeed())
			Expect(earth.Position).NotTo(Equal(before))
			Expect(earth.Position.Sub(before).Len()).To(BeNumerically("~", 29783*86400.0, 1e8))
		})

		It("notifies observers and metrics after each tick", func() {
			var ticks []int
			s.AddObserver(sim.ObserverFunc(func(_ []*physics.Body, tick int, _ float64) {
				ticks = append(ticks, tick)
			}))
			m := &countMetric{}
			s.AddMetric(m)

			res, err := s.RunTicks(context.Background(), 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(ticks).To(Equal([]int{1, 2, 3, 4}))
			Expect(res.Ticks).To(Equal(4))
			// One baseline observation plus one per tick.
			Expect(res.Metrics).To(HaveKeyWithValue("count", 5.0))
		})

		It("reports coincident bodies with tick context", func() {
			Expect(s.Step()).To(Succeed())
			mars, _ := s.Body("mars")
			earth, _ := s.Body("earth")
			mars.Position = earth.Position

			err := s.Step()
			Expect(err).To(MatchError(dynamo.ErrDegenerateDistance))

			var simErr *dynamo.SimulationError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			Expect(err.(*dynamo.SimulationError).Tick).To(Equal(1))
			Expect(s.Tick()).To(Equal(1))
		})
	})

	Describe("New", func() {
		It("rejects an invalid body set", func() {
			bodies, err := cfg.BuildBodies()
			Expect(err).NotTo(HaveOccurred())
			bodies[2].Name = bodies[1].Name

			_, err = sim.New(bodies, cfg.Gravity(), cfg.Projection(), sim.Options{Dt: cfg.Dt})
			Expect(err).To(MatchError(dynamo.ErrDuplicateName))
		})

		It("rejects a non-positive dt", func() {
			bodies, err := cfg.BuildBodies()
			Expect(err).NotTo(HaveOccurred())

			_, err = sim.New(bodies, cfg.Gravity(), cfg.Projection(), sim.Options{})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("propagates config errors", func() {
			cfg.Bodies[3].Mass = 0
			_, err := sim.FromConfig(cfg)
			Expect(err).To(MatchError(dynamo.ErrNonPositiveMass))
		})
	})

	Describe("Draw", func() {
		var surf *raster.ImageSurface

		BeforeEach(func() {
			surf = raster.NewImageSurface(cfg.Width, cfg.Height)
		})

		It("paints the background and every body", func() {
			s.Draw(surf)

			img := surf.Image()
			Expect(img.RGBAAt(0, 0)).To(Equal(color.RGBA{0, 0, 0, 255}))
			Expect(img.RGBAAt(400, 400)).To(Equal(color.RGBA{255, 255, 0, 255}))

			earth, _ := s.Body("earth")
			p := s.Projection().ToScreen(earth.Position)
			Expect(img.RGBAAt(p.X, p.Y)).To(Equal(earth.Color))
		})

		It("extends each trail once per tick", func() {
			earth, _ := s.Body("earth")

			s.Draw(surf)
			s.Draw(surf)
			Expect(earth.Trail.Len()).To(Equal(1))

			for i := 0; i < 5; i++ {
				Expect(s.Frame(surf)).To(Succeed())
			}
			Expect(earth.Trail.Len()).To(Equal(6))
			Expect(surf.Presented).To(Equal(5))

			last, _ := earth.Trail.Last()
			Expect(last).To(Equal(s.Projection().ToScreen(earth.Position)))
		})

		It("keeps the trail bounded", func() {
			cfg.TrailLength = 10
			small, err := sim.FromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 25; i++ {
				Expect(small.Frame(surf)).To(Succeed())
			}
			for _, b := range small.Bodies() {
				Expect(b.Trail.Len()).To(Equal(10))
			}
		})

		It("clears trails when the projection changes", func() {
			for i := 0; i < 3; i++ {
				Expect(s.Frame(surf)).To(Succeed())
			}
			s.SetProjection(raster.FitProjection(2*physics.AU, 160, 96))
			for _, b := range s.Bodies() {
				Expect(b.Trail.Len()).To(BeZero())
			}
		})

		It("scales body radii", func() {
			s.Draw(surf)
			Expect(surf.Image().RGBAAt(400, 425)).To(Equal(color.RGBA{255, 255, 0, 255}))

			s.SetRadiusScale(0.5)
			s.Draw(surf)
			Expect(surf.Image().RGBAAt(400, 425)).To(Equal(color.RGBA{0, 0, 0, 255}))
			Expect(surf.Image().RGBAAt(400, 414)).To(Equal(color.RGBA{255, 255, 0, 255}))
		})

		It("draws the trail back to its first point", func() {
			cfg.FadeTrails = false
			flat, err := sim.FromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 30; i++ {
				Expect(flat.Frame(surf)).To(Succeed())
			}

			mars, _ := flat.Body("mars")
			Expect(mars.Trail.Len()).To(Equal(30))
			start := mars.Trail.At(0)
			Expect(surf.Image().RGBAAt(start.X, start.Y)).To(Equal(mars.Color))
		})

		It("can hide trails", func() {
			s.SetTrails(false)
			Expect(s.Trails()).To(BeFalse())
			for i := 0; i < 30; i++ {
				Expect(s.Frame(surf)).To(Succeed())
			}

			// Mars has moved well away from where it started; with trails
			// hidden its start pixel is background again.
			mars, _ := s.Body("mars")
			start := mars.Trail.At(0)
			Expect(surf.Image().RGBAAt(start.X, start.Y)).To(Equal(color.RGBA{0, 0, 0, 255}))
		})
	})

	Describe("Run", func() {
		It("stops when the platform closes", func() {
			p := &fakePlatform{surface: raster.NewImageSurface(cfg.Width, cfg.Height), closeAfter: 7}
			res, err := s.Run(context.Background(), p)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Frames).To(Equal(7))
			Expect(res.Ticks).To(Equal(7))
			Expect(res.Time).To(BeNumerically("~", 7*cfg.Dt))
		})

		It("stops when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			p := &fakePlatform{surface: raster.NewImageSurface(cfg.Width, cfg.Height), closeAfter: 100}
			res, err := s.Run(ctx, p)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Frames).To(BeZero())
		})

		It("paces frames when fps is set", func() {
			cfg.FPS = 500
			paced, err := sim.FromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())

			p := &fakePlatform{surface: raster.NewImageSurface(cfg.Width, cfg.Height), closeAfter: 3}
			res, err := paced.Run(context.Background(), p)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Frames).To(Equal(3))
		})
	})

	Describe("RunTicks", func() {
		It("rejects a negative count", func() {
			_, err := s.RunTicks(context.Background(), -1)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("does not draw", func() {
			_, err := s.RunTicks(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())
			earth, _ := s.Body("earth")
			Expect(earth.Trail.Len()).To(BeZero())
		})
	})
})
