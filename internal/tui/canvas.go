package tui

import (
	"geoedit/internal/event"
	"geoedit/internal/geom"
	"geoedit/internal/view"
)

// canvas is the planar terminal map backend. It owns the viewport
// (extent, zoom, pan) and the event dispatcher, and projects between
// ground coordinates and terminal cells. The editor core talks to it
// through the view contract only.
type canvas struct {
	disp *view.Dispatcher

	bbox    geom.BBox
	hasBBox bool
	zoom    float64
	offsetX int
	offsetY int

	// last laid-out map size in cells
	w, h int

	moved event.Signal[struct{}]
}

func newCanvas() *canvas {
	return &canvas{disp: view.NewDispatcher(), zoom: 1.0, w: 80, h: 24}
}

func (c *canvas) Dispatcher() *view.Dispatcher { return c.disp }

func (c *canvas) Is3D() bool { return false }

func (c *canvas) SampleHeight(geom.Coordinate) (float64, error) {
	return 0, view.ErrNoTerrain
}

func (c *canvas) ViewpointChanged() *event.Signal[struct{}] { return &c.moved }

// Resolution is ground units per terminal cell. The planar projection is
// uniform, so the coordinate is ignored.
func (c *canvas) Resolution(geom.Coordinate) float64 {
	if !c.hasBBox || c.w <= 1 || c.zoom <= 0 {
		return 1
	}
	span := c.bbox.MaxX - c.bbox.MinX
	if span <= 0 {
		return 1
	}
	return span / (c.zoom * float64(c.w-1))
}

// setExtent frames the viewport on a new extent and resets zoom and pan.
func (c *canvas) setExtent(b geom.BBox, ok bool) {
	c.bbox = b
	c.hasBBox = ok
	c.zoom = 1.0
	c.offsetX, c.offsetY = 0, 0
	c.moved.Emit(struct{}{})
}

func (c *canvas) setSize(w, h int) {
	if w == c.w && h == c.h {
		return
	}
	c.w, c.h = w, h
	c.moved.Emit(struct{}{})
}

func (c *canvas) zoomBy(f float64) {
	z := c.zoom * f
	if z < 0.05 || z > 64 {
		return
	}
	c.zoom = z
	c.moved.Emit(struct{}{})
}

func (c *canvas) pan(dx, dy int) {
	c.offsetX += dx
	c.offsetY += dy
	c.moved.Emit(struct{}{})
}

// project maps a ground coordinate to a terminal cell. Zoom is applied
// around the viewport center.
func (c *canvas) project(g geom.Coordinate) (int, int, bool) {
	if !c.hasBBox || !(c.bbox.MaxX > c.bbox.MinX && c.bbox.MaxY > c.bbox.MinY) {
		return 0, 0, false
	}
	nx := (g.X - c.bbox.MinX) / (c.bbox.MaxX - c.bbox.MinX)
	ny := (g.Y - c.bbox.MinY) / (c.bbox.MaxY - c.bbox.MinY)
	zx := 0.5 + (nx-0.5)*c.zoom
	zy := 0.5 + (ny-0.5)*c.zoom
	sx := int(zx*float64(c.w-1)) + c.offsetX
	sy := int((1.0-zy)*float64(c.h-1)) + c.offsetY
	return sx, sy, true
}

// projectMicro maps a ground coordinate into the 2x4 braille microgrid.
func (c *canvas) projectMicro(g geom.Coordinate) (int, int, bool) {
	if !c.hasBBox || !(c.bbox.MaxX > c.bbox.MinX && c.bbox.MaxY > c.bbox.MinY) {
		return 0, 0, false
	}
	nx := (g.X - c.bbox.MinX) / (c.bbox.MaxX - c.bbox.MinX)
	ny := (g.Y - c.bbox.MinY) / (c.bbox.MaxY - c.bbox.MinY)
	zx := 0.5 + (nx-0.5)*c.zoom
	zy := 0.5 + (ny-0.5)*c.zoom
	wMic := c.w * 2
	hMic := c.h * 4
	sx := int(zx*float64(wMic-1)) + c.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + c.offsetY*4
	return sx, sy, true
}

// Unproject maps a terminal cell back to ground. The inverse of project.
func (c *canvas) Unproject(sx, sy float64) (geom.Coordinate, bool) {
	if !c.hasBBox || !(c.bbox.MaxX > c.bbox.MinX && c.bbox.MaxY > c.bbox.MinY) {
		return geom.Coordinate{}, false
	}
	if c.w <= 1 || c.h <= 1 || c.zoom == 0 {
		return geom.Coordinate{}, false
	}
	zx := (sx - float64(c.offsetX)) / float64(c.w-1)
	zy := 1.0 - (sy-float64(c.offsetY))/float64(c.h-1)
	nx := 0.5 + (zx-0.5)/c.zoom
	ny := 0.5 + (zy-0.5)/c.zoom
	return geom.Coordinate{
		X: c.bbox.MinX + nx*(c.bbox.MaxX-c.bbox.MinX),
		Y: c.bbox.MinY + ny*(c.bbox.MaxY-c.bbox.MinY),
	}, true
}
