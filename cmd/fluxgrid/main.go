// Command fluxgrid builds field-aligned parallel-transport maps for FCI
// simulations on a rectangular grid with an analytic magnetic field, and
// writes them to a sqlite grid file with optional visualisation exports.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/plasmadyn/fluxgrid/internal/export"
	"github.com/plasmadyn/fluxgrid/internal/fcimaps"
	"github.com/plasmadyn/fluxgrid/internal/field"
	"github.com/plasmadyn/fluxgrid/internal/geometry"
	"github.com/plasmadyn/fluxgrid/internal/mapstore"
	"github.com/plasmadyn/fluxgrid/internal/narray"
	"github.com/plasmadyn/fluxgrid/internal/progress"
	"github.com/plasmadyn/fluxgrid/internal/version"
)

func oneArray(name string, a *narray.Array3D) map[string]*narray.Array3D {
	return map[string]*narray.Array3D{name: a}
}

func main() {
	var (
		nx = flag.Int("nx", 64, "number of radial grid points")
		ny = flag.Int("ny", 16, "number of poloidal planes")
		nz = flag.Int("nz", 64, "number of vertical grid points")
		lx = flag.Float64("lx", 1.0, "x extent of the domain")
		ly = flag.Float64("ly", 10.0, "y extent of the domain (one period)")
		lz = flag.Float64("lz", 1.0, "z extent of the domain")

		fieldName = flag.String("field", "slab", "magnetic field model: slab or straight")
		nslice    = flag.Int("nslice", 1, "number of parallel slices in each direction")
		rtol      = flag.Float64("rtol", 0, "field line tracing relative tolerance (0 = default)")

		nsurfaces = flag.Int("surfaces", 0, "trace this many pseudo flux surfaces (0 = skip)")
		revs      = flag.Int("revs", 100, "revolutions per traced surface")

		upscaleFactor = flag.Int("upscale", 0, "upscale the psi field by this factor (0 = skip)")

		gridFile = flag.String("o", "fci.grid.db", "output grid file")
		legacy   = flag.Bool("legacy-names", false, "store diagnostics under legacy variable names")
		vtkFile  = flag.String("vtk", "", "also write the field to this VTK file")
		pngFile  = flag.String("png", "", "also write a Poincare section PNG (needs -surfaces)")
		htmlFile = flag.String("html", "", "also write a Poincare section HTML chart (needs -surfaces)")
		quiet    = flag.Bool("quiet", false, "suppress the progress bar")

		showVersion = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("fluxgrid %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	grid, err := geometry.NewRectangularGrid(*nx, *ny, *nz, *lx, *ly, *lz)
	if err != nil {
		log.Fatalf("grid: %v", err)
	}

	var bfield field.MagneticField
	switch *fieldName {
	case "slab":
		slab := field.NewSlab()
		slab.XCentre = grid.XCentre()
		bfield = slab
	case "straight":
		bfield = field.NewStraight()
	default:
		log.Fatalf("unknown field model %q", *fieldName)
	}

	var bar progress.Reporter
	if !*quiet {
		bar = progress.Bar(os.Stderr, 40)
	}

	start := time.Now()
	maps, err := fcimaps.BuildMaps(grid, bfield, fcimaps.Options{
		NSlice:   *nslice,
		RTol:     *rtol,
		Progress: bar,
	})
	if err != nil {
		log.Fatalf("building maps: %v", err)
	}
	log.Printf("built %d map fields in %v", len(maps.Names()), time.Since(start).Round(time.Millisecond))

	store, err := mapstore.Open(*gridFile)
	if err != nil {
		log.Fatalf("grid file: %v", err)
	}
	defer store.Close()

	runID, err := store.WriteMaps(maps, mapstore.RunMeta{
		RTol:        *rtol,
		Comment:     fmt.Sprintf("field=%s nslice=%d", *fieldName, *nslice),
		LegacyNames: *legacy,
	})
	if err != nil {
		log.Fatalf("writing maps: %v", err)
	}
	log.Printf("wrote run %s to %s", runID, *gridFile)

	attrs, err := fcimaps.SampleAttributes(grid, bfield)
	if err != nil {
		log.Fatalf("sampling field attributes: %v", err)
	}
	if err := store.WriteArrays(runID, attrs, *legacy); err != nil {
		log.Fatalf("writing field attributes: %v", err)
	}

	if *nsurfaces > 0 {
		start = time.Now()
		psi, err := fcimaps.MakeSurfaces(grid, bfield, *nsurfaces, *revs)
		if err != nil {
			log.Fatalf("surfaces: %v", err)
		}
		log.Printf("traced %d surfaces over %d revolutions in %v",
			*nsurfaces, *revs, time.Since(start).Round(time.Millisecond))

		if err := store.WriteArrays(runID, oneArray("psi_pseudo", psi), *legacy); err != nil {
			log.Fatalf("writing surfaces: %v", err)
		}

		if *upscaleFactor > 0 {
			up, err := fcimaps.Upscale(psi, maps, *upscaleFactor, bar)
			if err != nil {
				log.Fatalf("upscale: %v", err)
			}
			log.Printf("upscaled psi to y resolution %d", up.NY)
			if err := store.WriteArrays(runID, oneArray("psi_pseudo_hires", up), *legacy); err != nil {
				log.Fatalf("writing upscaled field: %v", err)
			}
		}

		if *pngFile != "" || *htmlFile != "" {
			sp, err := fcimaps.TraceSurfaces(grid, bfield, *nsurfaces, *revs)
			if err != nil {
				log.Fatalf("tracing surfaces for export: %v", err)
			}
			if *pngFile != "" {
				if err := export.WritePoincarePNG(*pngFile, sp, 0); err != nil {
					log.Fatalf("poincare png: %v", err)
				}
				log.Printf("wrote %s", *pngFile)
			}
			if *htmlFile != "" {
				if err := export.WritePoincareHTML(*htmlFile, sp, 0); err != nil {
					log.Fatalf("poincare html: %v", err)
				}
				log.Printf("wrote %s", *htmlFile)
			}
		}

		if *vtkFile != "" {
			if err := export.WriteBFieldVTK(*vtkFile, grid, bfield, 5, psi); err != nil {
				log.Fatalf("vtk: %v", err)
			}
			log.Printf("wrote %s", *vtkFile)
		}
	} else if *vtkFile != "" {
		if err := export.WriteBFieldVTK(*vtkFile, grid, bfield, 5, nil); err != nil {
			log.Fatalf("vtk: %v", err)
		}
		log.Printf("wrote %s", *vtkFile)
	}
}
