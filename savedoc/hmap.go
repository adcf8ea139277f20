package savedoc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

const (
	saveMember       = "Save.hms"
	descriptorMember = "Descriptor.hmd"
)

// PackHMAP writes the .hmap archive: a ZIP holding Save.hms and
// Descriptor.hmd, both BOM-prefixed UTF-8.
func PackHMAP(out io.Writer, d *Document, desc *Descriptor) error {
	zw := zip.NewWriter(out)

	save, err := zw.Create(saveMember)
	if err != nil {
		return fmt.Errorf("savedoc.PackHMAP: %w", err)
	}
	if err := EncodeHMS(save, d); err != nil {
		return fmt.Errorf("savedoc.PackHMAP: %w", err)
	}

	descw, err := zw.Create(descriptorMember)
	if err != nil {
		return fmt.Errorf("savedoc.PackHMAP: %w", err)
	}
	if err := EncodeHMD(descw, desc); err != nil {
		return fmt.Errorf("savedoc.PackHMAP: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("savedoc.PackHMAP: %w", err)
	}
	return nil
}

// WriteHMAP packs the archive to a file.
func WriteHMAP(path string, d *Document, desc *Descriptor) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("savedoc.WriteHMAP: %w", err)
	}
	if err := PackHMAP(f, d, desc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("savedoc.WriteHMAP: %w", err)
	}
	return nil
}

// ReadHMAP opens a .hmap archive and parses both members back into the
// model.
func ReadHMAP(path string) (*Document, *Descriptor, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("savedoc.ReadHMAP: %w", err)
	}
	defer zr.Close()

	saveData, err := readMember(&zr.Reader, saveMember)
	if err != nil {
		return nil, nil, fmt.Errorf("savedoc.ReadHMAP: %w", err)
	}
	descData, err := readMember(&zr.Reader, descriptorMember)
	if err != nil {
		return nil, nil, fmt.Errorf("savedoc.ReadHMAP: %w", err)
	}

	d, err := ParseHMS(saveData)
	if err != nil {
		return nil, nil, err
	}
	desc, err := ParseHMD(descData)
	if err != nil {
		return nil, nil, err
	}
	return d, desc, nil
}

func readMember(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, rc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("archive member %q not found", name)
}
