// Command mapgen runs the full map generation pipeline: it reads raion
// boundaries, elevation, land cover and river data, and produces a
// Humankind .hmap save. Each pipeline step can persist an independently
// loadable intermediate save for debugging.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/config"
	"github.com/ukrmap/ukrmap/features"
	"github.com/ukrmap/ukrmap/geodata"
	"github.com/ukrmap/ukrmap/hexgrid"
	"github.com/ukrmap/ukrmap/render"
	"github.com/ukrmap/ukrmap/rivers"
	"github.com/ukrmap/ukrmap/savedoc"
	"github.com/ukrmap/ukrmap/terrain"
	"github.com/ukrmap/ukrmap/territory"
	"github.com/ukrmap/ukrmap/texture"
)

var flags = struct {
	ConfigPath string
	Output     string
	StepsDir   string
	PreviewDir string
	VerboseLog bool
}{}

// spawnCities are the player starting locations, up to the game's limit
// of ten. Kyiv and Dnipro get a spawn on each bank.
var spawnCities = []struct {
	Name string
	Lon  float64
	Lat  float64
}{
	{"Kyiv (west bank)", 30.40, 50.45},
	{"Kyiv (east bank)", 30.65, 50.45},
	{"Dnipro (west bank)", 34.95, 48.46},
	{"Dnipro (east bank)", 35.15, 48.46},
	{"Kharkiv", 36.23, 49.99},
	{"Odesa", 30.72, 46.48},
	{"Lviv", 24.03, 49.84},
	{"Zaporizhzhia", 35.14, 47.84},
	{"Shepetivka", 27.06, 50.18},
	{"Vinnytsia", 28.48, 49.23},
}

func main() {
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to a TOML config file. Defaults apply when empty.")
	flag.StringVar(&flags.Output, "o", "", "Output .hmap path. Overrides the config value.")
	flag.StringVar(&flags.StepsDir, "steps", "", "Write a loadable intermediate .hmap after each pipeline step to this directory.")
	flag.StringVar(&flags.PreviewDir, "preview", "", "Write PNG previews of the generated map to this directory.")
	flag.BoolVar(&flags.VerboseLog, "v", flags.VerboseLog, "Enable writing verbose logging information to stderr.")
	flag.Parse()

	var logLevel = slog.LevelInfo
	if flags.VerboseLog {
		logLevel = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(logLevel)
	slog.SetDefault(slog.New(&contextHandler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}))

	ctx, shutdown := context.WithCancelCause(context.Background())
	go func() {
		defer slog.Debug("received interrupt")
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt)
		<-stop
		shutdown(errGracefulShutdown)
	}()
	ctx = context.WithValue(ctx, correlationID, uuid.New())

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			err = context.Cause(ctx)
		}
		if errors.Is(err, errGracefulShutdown) {
			return
		}
		slog.Error(err.Error())
		os.Exit(1)
	}
}

var errGracefulShutdown = errors.New("received shutdown signal")

type contextHandler struct {
	slog.Handler
}

type contextKey string

var correlationID = contextKey("correlation_id")

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(correlationID).(uuid.UUID); ok {
		r.AddAttrs(slog.String(string(correlationID), id.String()))
	}
	return h.Handler.Handle(ctx, r)
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	output := cfg.Output.Path
	if flags.Output != "" {
		output = flags.Output
	}

	g := hexgrid.New(cfg.Grid.Width, cfg.Grid.Height, cfg.GridBounds())
	slog.InfoContext(ctx, "starting",
		"grid", fmt.Sprintf("%dx%d", g.Width, g.Height),
		"bounds", g.Bounds, "output", output)

	doc, err := savedoc.New(g.Width, g.Height)
	if err != nil {
		return err
	}
	desc := &savedoc.Descriptor{
		EmpiresCount: cfg.Output.EmpiresCount,
		Width:        g.Width,
		Height:       g.Height,
	}

	// step 1: territories from raion polygons
	raions, err := geodata.LoadRaions(cfg.Data.RaionsPath)
	if err != nil {
		return err
	}
	if err := geodata.ValidateRaions(raions, g.Bounds); err != nil {
		return err
	}
	assignment, err := territory.Assign(g, raions, cfg.TerritoryConfig())
	var violation *territory.CoverageViolation
	if errors.As(err, &violation) {
		// the save is still loadable; mark it failed and keep going so the
		// intermediate artifacts can be inspected
		slog.WarnContext(ctx, "territory validation failed", "error", violation)
		doc.FailureFlags = 1
		desc.FailureFlags = 1
	} else if err != nil {
		return err
	}
	land := assignment.LandMask()

	zonesPNG, err := texturePNG(texture.EncodeZones(assignment.TerritoryOf))
	if err != nil {
		return err
	}
	if doc, err = doc.WithTexture(savedoc.TextureZones, zonesPNG); err != nil {
		return err
	}
	doc = doc.WithTerritories(saveTerritories(assignment))
	if err := persistStep(ctx, 1, "zones", doc, desc); err != nil {
		return err
	}

	// step 2: elevation and land cover
	srtm := geodata.NewSRTMSource(cfg.Data.CacheDir)
	meters, err := srtm.Grid(ctx, g)
	if err != nil {
		return err
	}
	levels := terrain.Levels(g, meters, land)

	landCover := geodata.NewLandCoverSource(
		filepath.Join(cfg.Data.CacheDir, "landcover.tif"), cfg.Data.LandCoverURL, g.Bounds)
	cover, err := landCover.Grid(ctx, g)
	if err != nil {
		return err
	}

	// step 3: rivers, lakes, and the main waterway chain
	rvs, err := geodata.LoadRivers(cfg.Data.RiversPath)
	if err != nil {
		return err
	}
	markMainWaterway(rvs, cfg.Rivers.MainWaterway)
	cl := rivers.Classify(g, rvs, meters, land)
	trace := rivers.TraceSegments(g, cl.Regular, levels)
	for c, lvl := range rivers.ChainLevels(g, cl.Dnipro, levels, land) {
		levels[c.Row][c.Col] = lvl
	}

	// step 4: terrain classification over the final levels
	terr := terrain.Classify(g, terrain.Input{
		Levels:    levels,
		Cover:     cover,
		Land:      land,
		RiverLake: cl.LakeMask(g),
		BiomeOf: func(c hexgrid.Coord) ukrmap.Biome {
			return assignment.Territories[assignment.At(c)].Biome
		},
	})

	elevationPNG, err := texturePNG(texture.EncodeElevation(levels, terr))
	if err != nil {
		return err
	}
	if doc, err = doc.WithTexture(savedoc.TextureElevation, elevationPNG); err != nil {
		return err
	}
	if err := persistStep(ctx, 2, "elevation", doc, desc); err != nil {
		return err
	}

	riversPNG, err := texturePNG(texture.EncodeRivers(trace))
	if err != nil {
		return err
	}
	if doc, err = doc.WithTexture(savedoc.TextureRiver, riversPNG); err != nil {
		return err
	}
	if err := persistStep(ctx, 3, "rivers", doc, desc); err != nil {
		return err
	}

	// step 5: points of interest and natural wonders
	poiPNG, err := texturePNG(texture.EncodePOI(features.PlacePOI(g, features.DefaultFeatures, land)))
	if err != nil {
		return err
	}
	if doc, err = doc.WithTexture(savedoc.TexturePOI, poiPNG); err != nil {
		return err
	}
	wondersPNG, err := texturePNG(texture.EncodeWonders(features.PlaceWonders(g, features.Wonders, land)))
	if err != nil {
		return err
	}
	if doc, err = doc.WithTexture(savedoc.TextureNaturalWonder, wondersPNG); err != nil {
		return err
	}
	if err := persistStep(ctx, 4, "features", doc, desc); err != nil {
		return err
	}

	// step 6: spawn points
	doc = doc.WithSpawnPoints(spawnPoints(g))

	summary := territory.Summarize(assignment)
	slog.InfoContext(ctx, "pipeline complete",
		"territories", len(assignment.Territories),
		"land_hexes", summary.LandHexes,
		"land_coverage", fmt.Sprintf("%.1f%%", 100*summary.LandCoverage),
		"river_segments", trace.Segments,
		"dnipro_chain", len(cl.Dnipro),
		"failure_flags", doc.FailureFlags)

	if err := savedoc.WriteHMAP(output, doc, desc); err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote map", "path", output)

	if flags.PreviewDir != "" {
		if err := writePreviews(g, assignment, terr, trace); err != nil {
			return err
		}
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if flags.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(flags.ConfigPath)
}

// texturePNG adapts the two-value texture encoders to the base64 PNG form
// the save document stores.
func texturePNG(img *image.NRGBA, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return texture.ToBase64PNG(img)
}

// markMainWaterway applies the configured waterway name on top of the
// loader's built-in detection.
func markMainWaterway(rvs []geodata.River, name string) {
	if name == "" {
		return
	}
	for i := range rvs {
		if rvs[i].Name == name {
			rvs[i].MainWaterway = true
		}
	}
}

func saveTerritories(a *territory.Assignment) []savedoc.Territory {
	out := make([]savedoc.Territory, len(a.Territories))
	for i, t := range a.Territories {
		out[i] = savedoc.Territory{
			ContinentIndex: t.ContinentIndex,
			Biome:          t.Biome,
			IsOcean:        t.IsOcean,
		}
	}
	return out
}

func spawnPoints(g *hexgrid.Grid) []savedoc.SpawnPoint {
	out := make([]savedoc.SpawnPoint, 0, len(spawnCities))
	for _, city := range spawnCities {
		c := g.GeoToHex(city.Lon, city.Lat)
		slog.Debug("spawn point", "city", city.Name, "hex", c)
		out = append(out, savedoc.SpawnPoint{
			Column: c.Col,
			Row:    hexgrid.FileRow(c.Row, g.Height),
			Flags:  savedoc.AllPlayerCounts,
		})
	}
	return out
}

// persistStep writes the document as a loadable intermediate save when
// -steps is given.
func persistStep(ctx context.Context, n int, name string, d *savedoc.Document, desc *savedoc.Descriptor) error {
	if flags.StepsDir == "" {
		return nil
	}
	if err := os.MkdirAll(flags.StepsDir, 0750); err != nil {
		return fmt.Errorf("failed to create steps directory: %w", err)
	}
	path := filepath.Join(flags.StepsDir, fmt.Sprintf("step-%d-%s.hmap", n, name))
	if err := savedoc.WriteHMAP(path, d, desc); err != nil {
		return err
	}
	slog.DebugContext(ctx, "wrote intermediate save", "step", n, "path", path)
	return nil
}

func writePreviews(g *hexgrid.Grid, a *territory.Assignment, terr *terrain.Assignment, trace *rivers.Trace) error {
	if err := os.MkdirAll(flags.PreviewDir, 0750); err != nil {
		return fmt.Errorf("failed to create preview directory: %w", err)
	}

	terrainImg := render.SizeImage(g, 8)
	if err := render.DrawTerrain(terrainImg, g, terr.Terrain); err != nil {
		return err
	}
	render.OverlayRivers(terrainImg, g, trace)
	if err := writePNG(filepath.Join(flags.PreviewDir, "terrain.png"), terrainImg); err != nil {
		return err
	}

	isOcean := make([]bool, len(a.Territories))
	for i, t := range a.Territories {
		isOcean[i] = t.IsOcean
	}
	territoryImg := render.SizeImage(g, 8)
	if err := render.DrawTerritories(territoryImg, g, a.TerritoryOf, isOcean); err != nil {
		return err
	}
	return writePNG(filepath.Join(flags.PreviewDir, "territories.png"), territoryImg)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create file %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
