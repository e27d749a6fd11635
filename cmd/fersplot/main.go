// Command fersplot is a standalone antenna gain pattern plotter,
// useful for inspecting a pattern's shape without running a full
// simulation. It mirrors the teacher's own "extra standalone plotting
// utility" posture: not wired into the simulation pipeline, just a
// convenience tool built against the same gonum/plot stack the rest
// of the corpus uses for offline graphing.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fers-sim/fers/internal/antenna"
	"github.com/fers-sim/fers/internal/geom"
)

var (
	patternFlag  = flag.String("pattern", "isotropic", "Pattern to plot: isotropic, sinc, sincsq, gaussian")
	outPath      = flag.String("out", "pattern.png", "Output image path (extension selects format: .png, .svg, .pdf)")
	alpha        = flag.Float64("alpha", 1.0, "Pattern alpha (peak gain)")
	beta         = flag.Float64("beta", 4.0, "Pattern beta (sinc/sincsq width parameter)")
	gamma        = flag.Float64("gamma", 1.0, "Pattern gamma (sinc/sincsq shape exponent)")
	beamwidth    = flag.Float64("beamwidth", 0.2, "Gaussian beamwidth (radians), used for both axes")
	spanDeg      = flag.Float64("span", 60.0, "Azimuth sweep span in degrees, plotted from -span to +span")
	samples      = flag.Int("samples", 361, "Number of azimuth samples across the span")
	boresightAz  = flag.Float64("boresight-az", 0.0, "Platform boresight azimuth offset, degrees (rotates the sweep from world frame into the pattern's body frame)")
	boresightEl  = flag.Float64("boresight-el", 0.0, "Platform boresight elevation offset, degrees")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("fersplot: %v", err)
	}
}

func run() error {
	pattern, err := buildPattern(*patternFlag)
	if err != nil {
		return err
	}

	p := plot.New()
	title := fmt.Sprintf("%s antenna gain pattern (elevation=0)", *patternFlag)
	boresightAzRad, boresightElRad := *boresightAz*math.Pi/180, *boresightEl*math.Pi/180
	if boresightAzRad != 0 || boresightElRad != 0 {
		title = fmt.Sprintf("%s (boresight az=%.1f el=%.1f)", title, *boresightAz, *boresightEl)
	}
	p.Title.Text = title
	p.X.Label.Text = "azimuth (degrees, world frame)"
	p.Y.Label.Text = "gain"

	points := make(plotter.XYs, *samples)
	spanRad := *spanDeg * math.Pi / 180
	for i := range points {
		frac := float64(i) / float64(*samples-1)
		azDeg := -*spanDeg + frac*2**spanDeg
		az := -spanRad + frac*2*spanRad

		// Sweep is specified in world frame; rotate each look
		// direction into the platform's body frame before evaluating
		// the pattern, so a nonzero boresight offset shows where the
		// pattern actually points.
		worldDir := geom.S3{Length: 1, Azimuth: az, Elevation: 0}.ToV3()
		bodyDir := geom.V3ToS3(geom.InverseRotate(boresightAzRad, boresightElRad, worldDir))
		points[i] = plotter.XY{X: azDeg, Y: pattern.Gain(bodyDir.Azimuth, bodyDir.Elevation)}
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("build line plot: %w", err)
	}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 5*vg.Inch, *outPath); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	fmt.Fprintf(os.Stdout, "fersplot: wrote %s\n", *outPath)
	return nil
}

func buildPattern(name string) (antenna.Pattern, error) {
	switch name {
	case "isotropic":
		return antenna.Isotropic{}, nil
	case "sinc":
		return antenna.Sinc{Alpha: *alpha, Beta: *beta, Gamma: *gamma}, nil
	case "sincsq":
		return antenna.SquaredSinc{Alpha: *alpha, Beta: *beta, Gamma: *gamma}, nil
	case "gaussian":
		return antenna.Gaussian{Alpha: *alpha, AzBeamwidth: *beamwidth, ElBeamwidth: *beamwidth}, nil
	default:
		return nil, fmt.Errorf("unknown pattern %q (want isotropic, sinc, sincsq, or gaussian)", name)
	}
}
