package main

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"

	"github.com/peterstace/polyrtree"
)

func main() {
	var in string
	var bbox string
	var order int
	var bulk bool
	var loglevel string

	flag.StringVar(&in, "in", "", "GeoJSON FeatureCollection to index")
	flag.StringVar(&bbox, "bbox", "", "Search box as minX,minY,maxX,maxY")
	flag.IntVar(&order, "order", 8, "Maximum entries per tree node")
	flag.BoolVar(&bulk, "bulk", false, "Bulk load the tree instead of inserting one by one")
	flag.StringVar(&loglevel, "loglevel", "info", "Log level [error,warning,info,debug]")
	flag.Parse()

	level, err := log.ParseLevel(loglevel)
	if err != nil {
		log.Errorf("invalid loglevel '%v'", loglevel)
		os.Exit(1)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if in == "" {
		log.Error("missing -in")
		os.Exit(1)
	}
	query, err := parseBound(bbox)
	if err != nil {
		log.Errorf("invalid bbox '%v': %v", bbox, err)
		os.Exit(1)
	}

	data, err := ioutil.ReadFile(in)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		log.Errorf("%v: %v", in, err)
		os.Exit(1)
	}

	tr, owners, err := build(fc, order, bulk)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	log.WithFields(log.Fields{
		"features": len(fc.Features),
		"polygons": tr.Len(),
		"height":   tr.Height(),
		"order":    tr.Order(),
	}).Info("index built")

	out := geojson.NewFeatureCollection()
	added := make(map[*geojson.Feature]bool)
	for _, p := range tr.RangeSearch(query) {
		f := owners.lookup(p)
		if f == nil || added[f] {
			continue
		}
		added[f] = true
		out.Append(f)
	}
	log.WithField("matches", len(out.Features)).Info("search done")

	enc, err := out.MarshalJSON()
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	fmt.Println(string(enc))
}

// ownerIndex maps indexed polygons back to the features they came from.
// Equal polygons from different features share a bucket.
type ownerIndex map[string][]owner

type owner struct {
	polygon orb.Polygon
	feature *geojson.Feature
}

func (o ownerIndex) add(p orb.Polygon, f *geojson.Feature) {
	key := fmt.Sprint(p)
	o[key] = append(o[key], owner{p, f})
}

func (o ownerIndex) lookup(p orb.Polygon) *geojson.Feature {
	for _, own := range o[fmt.Sprint(p)] {
		if own.polygon.Equal(p) {
			return own.feature
		}
	}
	return nil
}

func build(fc *geojson.FeatureCollection, order int, bulk bool) (*polyrtree.RTree, ownerIndex, error) {
	owners := make(ownerIndex)
	var polys []orb.Polygon
	for i, f := range fc.Features {
		var members []orb.Polygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			members = []orb.Polygon{g}
		case orb.MultiPolygon:
			members = g
		case orb.Bound:
			members = []orb.Polygon{g.ToPolygon()}
		default:
			log.Debugf("feature %d: skipping %T geometry", i, f.Geometry)
			continue
		}
		for _, p := range members {
			if len(p) == 0 || len(p[0]) == 0 {
				log.Warningf("feature %d: skipping empty polygon", i)
				continue
			}
			polys = append(polys, p)
			owners.add(p, f)
		}
	}

	if bulk {
		tr, err := polyrtree.BulkLoad(order, polys)
		return tr, owners, err
	}
	tr, err := polyrtree.New(order)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range polys {
		if err := tr.Insert(p); err != nil {
			return nil, nil, err
		}
	}
	return tr, owners, nil
}

func parseBound(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, errors.New("expected 4 comma separated numbers")
	}
	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Bound{}, err
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, errors.New("min is greater than max")
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}
