package controller

//go:generate mockgen -destination=mocks/mock_controller.go -package=mocks -source=controller.go Controller

// Controller is the interface every subsystem implements. All hooks run on
// the driver goroutine, one at a time, in the resolved order.
type Controller interface {
	// Name is a stable identity used in diagnostics.
	Name() string

	Initialize() error
	PollEvents()
	Update()
	BeginDraw()
	Draw()
	EndDraw()
	// Terminate releases what Initialize acquired. Called exactly once.
	Terminate() error

	// Loop returns false to request the frame loop to stop after the
	// current frame.
	Loop() bool

	Enabled() bool
	SetEnabled(enabled bool)
}

// Base provides no-op hooks and the enable flag. Embed it and override the
// hooks a controller needs; Name has no default.
type Base struct {
	disabled bool // zero value means enabled
}

func (b *Base) Initialize() error { return nil }
func (b *Base) PollEvents()       {}
func (b *Base) Update()           {}
func (b *Base) BeginDraw()        {}
func (b *Base) Draw()             {}
func (b *Base) EndDraw()          {}
func (b *Base) Terminate() error  { return nil }
func (b *Base) Loop() bool        { return true }

func (b *Base) Enabled() bool { return !b.disabled }

func (b *Base) SetEnabled(enabled bool) { b.disabled = !enabled }
