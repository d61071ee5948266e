package geom

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadKML extracts geometries from a KML file: Placemark Points,
// LineStrings and Polygon outer boundaries. KML coordinates are
// "lon,lat[,alt]" tuples separated by whitespace.
func LoadKML(path string) ([]Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	type kmlCoords struct {
		Coordinates string `xml:"coordinates"`
	}
	type kmlPolygon struct {
		Outer kmlCoords `xml:"outerBoundaryIs>LinearRing"`
	}
	type kmlPlacemark struct {
		Point      *kmlCoords  `xml:"Point"`
		LineString *kmlCoords  `xml:"LineString"`
		Polygon    *kmlPolygon `xml:"Polygon"`
	}
	type kmlDoc struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
	}

	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	parse := func(raw string) []Coordinate {
		var cs []Coordinate
		for _, tuple := range strings.Fields(raw) {
			vals := strings.Split(tuple, ",")
			if len(vals) < 2 {
				continue
			}
			lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
			lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
			if err1 != nil || err2 != nil {
				continue
			}
			c := Coordinate{X: lon, Y: lat}
			if len(vals) >= 3 {
				if alt, err := strconv.ParseFloat(strings.TrimSpace(vals[2]), 64); err == nil {
					c.Z = alt
				}
			}
			cs = append(cs, c)
		}
		return cs
	}
	var out []Geometry
	for _, pm := range doc.Placemarks {
		switch {
		case pm.Point != nil:
			for _, c := range parse(pm.Point.Coordinates) {
				out = append(out, NewPoint(c))
			}
		case pm.LineString != nil:
			if cs := parse(pm.LineString.Coordinates); len(cs) >= 2 {
				out = append(out, NewLine(cs...))
			}
		case pm.Polygon != nil:
			cs := parse(pm.Polygon.Outer.Coordinates)
			if len(cs) > 1 && cs[0] == cs[len(cs)-1] {
				cs = cs[:len(cs)-1]
			}
			if len(cs) >= 3 {
				out = append(out, NewPolygon(cs...))
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.New("kml: no geometries found")
	}
	return out, nil
}
