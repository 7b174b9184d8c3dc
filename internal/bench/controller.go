package bench

import (
	"fmt"
	"math"

	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/geometry"
	"github.com/san-kum/slitsim/internal/optics"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSamples   = 401
	DefaultHalfRange = 10 * optics.Millimetre
)

type Controller struct {
	params  optics.Parameters
	initial optics.Parameters
	limits  optics.Limits
	layout  geometry.Layout
	window  diffraction.Range
	samples int
	model   diffraction.Model
	log     *log.Entry
}

type Option func(*Controller)

func WithLimits(l optics.Limits) Option {
	return func(c *Controller) { c.limits = l }
}

func WithLayout(l geometry.Layout) Option {
	return func(c *Controller) { c.layout = l }
}

// WithSampling sets the window and sample count of the profile carried in
// every snapshot.
func WithSampling(r diffraction.Range, n int) Option {
	return func(c *Controller) {
		c.window = r
		c.samples = n
	}
}

func WithConvention(conv diffraction.Convention) Option {
	return func(c *Controller) { c.model = diffraction.Model{Convention: conv} }
}

func WithLogger(entry *log.Entry) Option {
	return func(c *Controller) { c.log = entry }
}

// New validates p against the configured limits and layout and returns a
// controller in the ready state.
func New(p optics.Parameters, opts ...Option) (*Controller, error) {
	c := &Controller{
		params:  p,
		initial: p,
		limits:  optics.DefaultLimits(),
		layout:  geometry.DefaultLayout(),
		window:  diffraction.Symmetric(DefaultHalfRange),
		samples: DefaultSamples,
		log:     log.WithField("component", "bench"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := validSampling(c.window, c.samples); err != nil {
		return nil, err
	}
	if err := c.limits.Validate(p); err != nil {
		return nil, err
	}
	if _, err := geometry.Solve(c.layout, p); err != nil {
		return nil, err
	}
	return c, nil
}

// Parameters returns a copy of the current parameters.
func (c *Controller) Parameters() optics.Parameters {
	return c.params
}

func (c *Controller) Limits() optics.Limits {
	return c.limits
}

func (c *Controller) Layout() geometry.Layout {
	return c.layout
}

func (c *Controller) Convention() diffraction.Convention {
	return c.model.Convention
}

func (c *Controller) SetSlitWidth(v float64) (Snapshot, error) {
	return c.set(optics.ParamSlitWidth, v)
}

func (c *Controller) SetScreenDistance(v float64) (Snapshot, error) {
	return c.set(optics.ParamScreenDistance, v)
}

func (c *Controller) SetFocalLength(v float64) (Snapshot, error) {
	return c.set(optics.ParamFocalLength, v)
}

func (c *Controller) SetProbePosition(v float64) (Snapshot, error) {
	return c.set(optics.ParamProbe, v)
}

// Set updates a parameter by name and returns the recomputed views.
func (c *Controller) Set(name string, value float64) (Snapshot, error) {
	return c.set(name, value)
}

// SetParameter updates a parameter by name and returns the resulting
// parameter set.
func (c *Controller) SetParameter(name string, value float64) (optics.Parameters, error) {
	if _, err := c.set(name, value); err != nil {
		return c.params, err
	}
	return c.params, nil
}

// Reset restores the parameters the controller was created with.
func (c *Controller) Reset() Snapshot {
	c.params = c.initial
	snap, err := c.compute(c.params)
	if err != nil {
		// the initial parameters passed New's checks
		panic(fmt.Sprintf("bench: initial parameters no longer valid: %v", err))
	}
	return snap
}

// Snapshot recomputes the views for the current parameters.
func (c *Controller) Snapshot() (Snapshot, error) {
	return c.compute(c.params)
}

// Intensity evaluates the pattern at y for the current parameters.
func (c *Controller) Intensity(y float64) float64 {
	return c.model.Intensity(y, c.params)
}

// Profile samples the current pattern over r.
func (c *Controller) Profile(r diffraction.Range, n int) (diffraction.Profile, error) {
	if err := validSampling(r, n); err != nil {
		return diffraction.Profile{}, err
	}
	return c.model.NewProfile(r, n, c.params), nil
}

// RayPaths traces the current parameters through layout.
func (c *Controller) RayPaths(layout geometry.Layout) ([]geometry.RayPath, error) {
	return geometry.Trace(layout, c.params)
}

func (c *Controller) set(name string, value float64) (Snapshot, error) {
	if err := c.limits.Check(name, value); err != nil {
		c.log.WithFields(log.Fields{"param": name, "value": value}).Debug("parameter rejected")
		return Snapshot{}, err
	}
	next, err := c.params.With(name, value)
	if err != nil {
		return Snapshot{}, err
	}

	snap, err := c.compute(next)
	if err != nil {
		c.log.WithFields(log.Fields{"param": name, "value": value, "error": err}).Debug("recompute failed")
		return Snapshot{}, err
	}

	c.params = next
	c.log.WithFields(log.Fields{
		"param":   name,
		"value":   value,
		"samples": snap.Profile.Len(),
		"probe":   snap.Probe.Intensity,
	}).Debug("bench updated")
	return snap, nil
}

func (c *Controller) compute(p optics.Parameters) (Snapshot, error) {
	lens, err := geometry.Solve(c.layout, p)
	if err != nil {
		return Snapshot{}, err
	}
	rays, err := geometry.Trace(c.layout, p)
	if err != nil {
		return Snapshot{}, err
	}

	firstNull, _ := c.model.FirstNull(p)

	return Snapshot{
		Parameters: p,
		Lens:       lens,
		Rays:       rays,
		Profile:    c.model.NewProfile(c.window, c.samples, p),
		Probe: Probe{
			Position:  p.Probe,
			Beta:      c.model.Beta(p.Probe, p),
			Intensity: c.model.Intensity(p.Probe, p),
		},
		FirstNull: firstNull,
		Fresnel:   diffraction.FresnelNumber(p),
	}, nil
}

func validSampling(r diffraction.Range, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: sample count %d", optics.ErrInvalidSampling, n)
	}
	if !(r.HalfWidth > 0) || math.IsInf(r.HalfWidth, 0) {
		return fmt.Errorf("%w: half width %g", optics.ErrInvalidSampling, r.HalfWidth)
	}
	return nil
}
