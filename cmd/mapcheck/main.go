// Command mapcheck parses a .hmap save and reports its dimensions,
// texture statistics, and consistency warnings.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ukrmap/ukrmap"
	"github.com/ukrmap/ukrmap/savedoc"
	"github.com/ukrmap/ukrmap/texture"
)

var flags = struct {
	Output     string
	VerboseLog bool
}{}

func main() {
	flag.StringVar(&flags.Output, "o", "-", "Report destination. \"-\" writes to stdout.")
	flag.BoolVar(&flags.VerboseLog, "v", flags.VerboseLog, "Enable writing verbose logging information to stderr.")
	flag.Parse()

	var logLevel = slog.LevelInfo
	if flags.VerboseLog {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if flag.NArg() != 1 {
		slog.Error("usage: mapcheck [-o report] map.hmap")
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(path string) error {
	doc, desc, err := savedoc.ReadHMAP(path)
	if err != nil {
		return err
	}

	report, err := buildReport(doc, desc)
	if err != nil {
		return err
	}
	return writeToOutput(strings.NewReader(report), flags.Output)
}

func buildReport(doc *savedoc.Document, desc *savedoc.Descriptor) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "map: %dx%d hexes\n", doc.Width, doc.Height)
	fmt.Fprintf(&b, "empires: %d\n", desc.EmpiresCount)
	fmt.Fprintf(&b, "failure flags: save=%d descriptor=%d\n", doc.FailureFlags, desc.FailureFlags)

	land, ocean := 0, 0
	for _, t := range doc.Territories {
		if t.IsOcean {
			ocean++
		} else {
			land++
		}
	}
	fmt.Fprintf(&b, "territories: %d land, %d ocean\n", land, ocean)
	fmt.Fprintf(&b, "spawn points: %d\n", len(doc.SpawnPoints))

	stats, err := textureStats(doc)
	if err != nil {
		return "", err
	}
	b.WriteString(stats)

	var warnings []string
	if doc.Width != desc.Width || doc.Height != desc.Height {
		warnings = append(warnings, fmt.Sprintf(
			"descriptor dimensions %dx%d disagree with save %dx%d",
			desc.Width, desc.Height, doc.Width, doc.Height))
	}
	if len(doc.SpawnPoints) < desc.EmpiresCount {
		warnings = append(warnings, fmt.Sprintf(
			"%d spawn points cannot seat %d empires",
			len(doc.SpawnPoints), desc.EmpiresCount))
	}
	if land < desc.EmpiresCount {
		warnings = append(warnings, fmt.Sprintf(
			"%d land territories cannot seat %d empires", land, desc.EmpiresCount))
	}
	if doc.FailureFlags != 0 || desc.FailureFlags != 0 {
		warnings = append(warnings, "save is marked failed")
	}

	if len(warnings) == 0 {
		b.WriteString("ok\n")
	}
	for _, w := range warnings {
		fmt.Fprintf(&b, "WARNING: %s\n", w)
	}
	return b.String(), nil
}

func textureStats(doc *savedoc.Document) (string, error) {
	var b strings.Builder

	for _, tex := range doc.Textures {
		fmt.Fprintf(&b, "texture %s: %dx%d, %d base64 bytes\n",
			tex.Name, tex.Width, tex.Height, len(tex.Bytes))
	}

	if zones, ok := doc.Texture(savedoc.TextureZones); ok {
		img, err := texture.FromBase64PNG(zones.Bytes)
		if err != nil {
			return "", fmt.Errorf("zones texture: %w", err)
		}
		grid := texture.DecodeZones(img)
		seen := map[int]bool{}
		for _, row := range grid {
			for _, idx := range row {
				seen[idx] = true
			}
		}
		fmt.Fprintf(&b, "zones: %d distinct territories referenced\n", len(seen))
	}

	if riv, ok := doc.Texture(savedoc.TextureRiver); ok {
		img, err := texture.FromBase64PNG(riv.Bytes)
		if err != nil {
			return "", fmt.Errorf("river texture: %w", err)
		}
		tr := texture.DecodeRivers(img)
		hexes := 0
		for _, row := range tr.SegmentID {
			for _, id := range row {
				if id != ukrmap.NoRiverSegment {
					hexes++
				}
			}
		}
		fmt.Fprintf(&b, "rivers: %d segments over %d hexes\n", tr.Segments, hexes)
	}

	if poi, ok := doc.Texture(savedoc.TexturePOI); ok {
		img, err := texture.FromBase64PNG(poi.Bytes)
		if err != nil {
			return "", fmt.Errorf("poi texture: %w", err)
		}
		n := countIndexed(texture.DecodeIndex(img), 0)
		fmt.Fprintf(&b, "points of interest: %d\n", n)
	}

	if wonder, ok := doc.Texture(savedoc.TextureNaturalWonder); ok {
		img, err := texture.FromBase64PNG(wonder.Bytes)
		if err != nil {
			return "", fmt.Errorf("wonder texture: %w", err)
		}
		// zero only appears in placeholder textures; treat it as empty too
		n := 0
		for _, row := range texture.DecodeIndex(img) {
			for _, v := range row {
				if v != ukrmap.NoWonder && v != 0 {
					n++
				}
			}
		}
		fmt.Fprintf(&b, "natural wonder hexes: %d\n", n)
	}

	return b.String(), nil
}

// countIndexed counts cells that differ from the empty sentinel.
func countIndexed(grid [][]uint8, empty uint8) int {
	n := 0
	for _, row := range grid {
		for _, v := range row {
			if v != empty {
				n++
			}
		}
	}
	return n
}

func writeToOutput(r io.Reader, output string) error {
	if output == "" {
		return errors.New("no output destination given")
	}

	var w io.Writer
	if output == "-" {
		slog.Debug("writing to stdout")
		w = os.Stdout
	} else {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		slog.Debug("writing to file", "filename", f.Name())
		w = f
	}
	n, err := io.Copy(w, r)
	if err != nil {
		return fmt.Errorf("failed to write output: %w (%d bytes written)", err, n)
	}
	slog.Debug(fmt.Sprintf("finished with %d bytes written", n))
	return nil
}
