package savedoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukrmap/ukrmap"
)

// utf8BOM prefixes both archive members; the game writes its saves with a
// byte order mark and its loader expects one.
var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Serializer processing instructions the game's loader checks before
// deserializing. The revision numbers pin the save schema version.
const hmsHeader = `<?xml version="1.0" encoding="utf-8"?>
<?amplitude-serialization-serializer version="5"?>
<?amplitude-serialization-serializer-revision type="Amplitude.Mercury.Terrain.TerrainSave, Amplitude.Mercury.Terrain" number="4,0,0,0,0,0"?>
<?amplitude-serialization-serializer-revision type="Amplitude.Mercury.Terrain.TerrainSaveDescriptor, Amplitude.Mercury.Terrain" number="7,0,0,0,0,0"?>
<?amplitude-serialization-serializer-revision type="Amplitude.Mercury.Terrain.Territory, Amplitude.Mercury.Terrain" number="1,0,0,0,0,0"?>
<?amplitude-serialization-serializer-revision type="Amplitude.Mercury.Terrain.TerritoryDatabase, Amplitude.Mercury.Terrain" number="1,0,0,0,0,0"?>
<?amplitude-serialization-serializer-revision type="Amplitude.Mercury.Terrain.WorldMapEntitiesProvider, Amplitude.Mercury.Terrain" number="1,0,0,0,0,0"?>
<?amplitude-serialization-serializer-revision type="Amplitude.Mercury.Terrain.SpawnPoint, Amplitude.Mercury.Terrain" number="1,0,0,0,0,0"?>
`

const hmdHeader = `<?xml version="1.0" encoding="utf-8"?>
<?amplitude-serialization-serializer version="5"?>
<?amplitude-serialization-serializer-revision type="Amplitude.Mercury.Terrain.TerrainSaveDescriptor, Amplitude.Mercury.Terrain" number="7,0,0,0,0,0"?>
`

// xmlWriter emits elements through an xml.Encoder, carrying the first
// error so call sites stay flat.
type xmlWriter struct {
	enc *xml.Encoder
	err error
}

func (w *xmlWriter) token(t xml.Token) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(t)
	}
}

func attrs(pairs ...string) []xml.Attr {
	out := make([]xml.Attr, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, xml.Attr{Name: xml.Name{Local: pairs[i]}, Value: pairs[i+1]})
	}
	return out
}

func (w *xmlWriter) open(name string, a ...xml.Attr) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: a})
}

func (w *xmlWriter) close(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *xmlWriter) elem(name, text string, a ...xml.Attr) {
	w.open(name, a...)
	w.token(xml.CharData(text))
	w.close(name)
}

func (w *xmlWriter) intElem(name string, v int) { w.elem(name, strconv.Itoa(v)) }

func (w *xmlWriter) boolElem(name string, v bool) { w.elem(name, strconv.FormatBool(v)) }

func (w *xmlWriter) nullElem(name string) {
	w.open(name, attrs("Null", "true")...)
	w.close(name)
}

func (w *xmlWriter) stringList(name string, values []string) {
	w.open(name, attrs("Length", strconv.Itoa(len(values)))...)
	for _, v := range values {
		w.elem("String", v)
	}
	w.close(name)
}

// EncodeHMS writes the Save.hms member: BOM, serializer header, then the
// TerrainSave tree.
func EncodeHMS(out io.Writer, d *Document) error {
	if _, err := out.Write(utf8BOM); err != nil {
		return fmt.Errorf("savedoc.EncodeHMS: %w", err)
	}
	if _, err := io.WriteString(out, hmsHeader); err != nil {
		return fmt.Errorf("savedoc.EncodeHMS: %w", err)
	}

	w := &xmlWriter{enc: xml.NewEncoder(out)}
	w.enc.Indent("", "    ")

	w.open("Document")
	w.open("TerrainSave")

	w.intElem("FormatRevision", 10)
	w.intElem("Width", d.Width)
	w.intElem("Height", d.Height)
	w.boolElem("UseMapCycling", d.UseMapCycling)
	w.boolElem("UseProceduralMountainChains", d.UseProceduralMountainChains)

	w.stringList("BiomeNames", d.BiomeNames)
	w.stringList("TerrainTypeNames", d.TerrainTypeNames)
	w.stringList("POINames", d.POINames)
	w.stringList("NaturalWonderNames", d.NaturalWonderNames)
	w.stringList("LandmarksDefinitionNames", d.LandmarkNames)

	for _, name := range textureOrder {
		t, ok := d.Texture(name)
		if !ok {
			return fmt.Errorf("savedoc.EncodeHMS: document missing texture %q", name)
		}
		w.intElem(name+".Width", t.Width)
		w.intElem(name+".Height", t.Height)
		w.elem(name+".Format", "4") // RGBA
		w.elem(name+".Bytes", t.Bytes, attrs("Length", strconv.Itoa(len(t.Bytes)))...)
	}

	w.open("LandmarkDatabase")
	w.open("Landmarks", attrs("Length", "0")...)
	w.close("Landmarks")
	w.close("LandmarkDatabase")

	w.open("TerritoryDatabase")
	w.open("Territories", attrs("Length", strconv.Itoa(len(d.Territories)))...)
	for _, t := range d.Territories {
		w.open("Item")
		w.intElem("ContinentIndex", t.ContinentIndex)
		w.intElem("Biome", int(t.Biome))
		w.boolElem("IsOcean", t.IsOcean)
		w.close("Item")
	}
	w.close("Territories")
	w.close("TerritoryDatabase")

	w.open("EntitiesProvider")
	if len(d.SpawnPoints) == 0 {
		w.nullElem("SpawnPoints")
	} else {
		w.open("SpawnPoints", attrs("Length", strconv.Itoa(len(d.SpawnPoints)))...)
		for _, sp := range d.SpawnPoints {
			w.open("Item")
			w.open("SpawnPoints")
			w.intElem("Column", sp.Column)
			w.intElem("Row", sp.Row)
			w.close("SpawnPoints")
			w.intElem("Flags", sp.Flags)
			w.close("Item")
		}
		w.close("SpawnPoints")
	}
	w.close("EntitiesProvider")

	w.nullElem("Author")
	w.nullElem("Description")
	w.intElem("CreationDate", 0)
	w.intElem("LastEditionDate", 0)
	w.intElem("FailureFlags", d.FailureFlags)
	w.nullElem("MapName")
	w.intElem("DownloadContentNeeded", 0)

	w.close("TerrainSave")
	w.close("Document")
	if w.err != nil {
		return fmt.Errorf("savedoc.EncodeHMS: %w", w.err)
	}
	if err := w.enc.Flush(); err != nil {
		return fmt.Errorf("savedoc.EncodeHMS: %w", err)
	}
	return nil
}

// EncodeHMD writes the Descriptor.hmd member.
func EncodeHMD(out io.Writer, desc *Descriptor) error {
	if _, err := out.Write(utf8BOM); err != nil {
		return fmt.Errorf("savedoc.EncodeHMD: %w", err)
	}
	if _, err := io.WriteString(out, hmdHeader); err != nil {
		return fmt.Errorf("savedoc.EncodeHMD: %w", err)
	}

	w := &xmlWriter{enc: xml.NewEncoder(out)}
	w.enc.Indent("", "    ")

	w.open("Document")
	w.open("TerrainSaveDescriptor")
	w.nullElem("Name")
	w.nullElem("Description")
	w.nullElem("Author")
	w.intElem("UserVersion", 0)
	w.intElem("CreationDate", 0)
	w.intElem("LastEditionDate", 0)
	w.intElem("EmpiresCount", desc.EmpiresCount)
	w.intElem("Width", desc.Width)
	w.intElem("Height", desc.Height)
	w.intElem("FailureFlags", desc.FailureFlags)
	w.intElem("DownloadContentNeeded", 0)
	w.close("TerrainSaveDescriptor")
	w.close("Document")
	if w.err != nil {
		return fmt.Errorf("savedoc.EncodeHMD: %w", w.err)
	}
	if err := w.enc.Flush(); err != nil {
		return fmt.Errorf("savedoc.EncodeHMD: %w", err)
	}
	return nil
}

// ParseHMS reads a Save.hms document back into the model.
func ParseHMS(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	d := &Document{}
	textures := map[string]*Texture{}

	var path []string
	var territory *Territory
	var spawn *SpawnPoint
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("savedoc.ParseHMS: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			path = append(path, name)
			switch {
			case name == "Item" && contains(path, "Territories"):
				d.Territories = append(d.Territories, Territory{})
				territory = &d.Territories[len(d.Territories)-1]
			case name == "Item" && contains(path, "EntitiesProvider"):
				d.SpawnPoints = append(d.SpawnPoints, SpawnPoint{})
				spawn = &d.SpawnPoints[len(d.SpawnPoints)-1]
			}
		case xml.EndElement:
			path = path[:len(path)-1]
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" || len(path) == 0 {
				continue
			}
			leaf := path[len(path)-1]
			switch {
			case territory != nil && contains(path, "Territories"):
				parseTerritoryField(territory, leaf, text)
			case spawn != nil && contains(path, "EntitiesProvider"):
				parseSpawnField(spawn, leaf, text)
			case leaf == "String" && len(path) >= 2:
				parseNameTable(d, path[len(path)-2], text)
			case strings.Contains(leaf, "."):
				parseTextureField(textures, leaf, text)
			default:
				parseScalar(d, leaf, text)
			}
		}
	}

	for _, name := range textureOrder {
		if t, ok := textures[name]; ok {
			t.Name = name
			d.Textures = append(d.Textures, *t)
		}
	}
	return d, nil
}

func contains(path []string, name string) bool {
	for _, p := range path {
		if p == name {
			return true
		}
	}
	return false
}

func parseScalar(d *Document, name, text string) {
	switch name {
	case "Width":
		d.Width, _ = strconv.Atoi(text)
	case "Height":
		d.Height, _ = strconv.Atoi(text)
	case "UseMapCycling":
		d.UseMapCycling = text == "true"
	case "UseProceduralMountainChains":
		d.UseProceduralMountainChains = text == "true"
	case "FailureFlags":
		d.FailureFlags, _ = strconv.Atoi(text)
	}
}

func parseNameTable(d *Document, list, text string) {
	switch list {
	case "BiomeNames":
		d.BiomeNames = append(d.BiomeNames, text)
	case "TerrainTypeNames":
		d.TerrainTypeNames = append(d.TerrainTypeNames, text)
	case "POINames":
		d.POINames = append(d.POINames, text)
	case "NaturalWonderNames":
		d.NaturalWonderNames = append(d.NaturalWonderNames, text)
	case "LandmarksDefinitionNames":
		d.LandmarkNames = append(d.LandmarkNames, text)
	}
}

func parseTextureField(textures map[string]*Texture, leaf, text string) {
	name, field, ok := strings.Cut(leaf, ".")
	if !ok {
		return
	}
	t := textures[name]
	if t == nil {
		t = &Texture{}
		textures[name] = t
	}
	switch field {
	case "Width":
		t.Width, _ = strconv.Atoi(text)
	case "Height":
		t.Height, _ = strconv.Atoi(text)
	case "Bytes":
		t.Bytes = text
	}
}

func parseTerritoryField(t *Territory, leaf, text string) {
	switch leaf {
	case "ContinentIndex":
		t.ContinentIndex, _ = strconv.Atoi(text)
	case "Biome":
		b, _ := strconv.Atoi(text)
		t.Biome = ukrmap.Biome(b)
	case "IsOcean":
		t.IsOcean = text == "true"
	}
}

func parseSpawnField(sp *SpawnPoint, leaf, text string) {
	switch leaf {
	case "Column":
		sp.Column, _ = strconv.Atoi(text)
	case "Row":
		sp.Row, _ = strconv.Atoi(text)
	case "Flags":
		sp.Flags, _ = strconv.Atoi(text)
	}
}

// ParseHMD reads a Descriptor.hmd document.
func ParseHMD(data []byte) (*Descriptor, error) {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	desc := &Descriptor{}
	var leaf string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("savedoc.ParseHMD: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			leaf = t.Name.Local
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			switch leaf {
			case "EmpiresCount":
				desc.EmpiresCount, _ = strconv.Atoi(text)
			case "Width":
				desc.Width, _ = strconv.Atoi(text)
			case "Height":
				desc.Height, _ = strconv.Atoi(text)
			case "FailureFlags":
				desc.FailureFlags, _ = strconv.Atoi(text)
			}
		}
	}
	return desc, nil
}
